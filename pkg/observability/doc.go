/*
Package observability turns session lifecycle events into metrics and logs.

Metrics registers Prometheus collectors and exposes them as LifecycleHooks;
LogHooks writes one slog record per event. Both can be combined with
domain.LifecycleHooks.Merge and passed to guidebot.WithLifecycleHooks.

NewPIIMiddleware wraps any hook set so that user text reaches it with e-mail
addresses, card numbers and phone numbers masked.
*/
package observability
