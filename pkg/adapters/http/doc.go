// Package http exposes a guidebot Assistant over a stateless JSON API.
//
// The API is described by the embedded openapi.yaml (served at /openapi.yaml);
// requests are validated against it before reaching the handlers. Chat sessions
// are not kept server-side: clients hold the transcript and call /reply per turn.
package http
