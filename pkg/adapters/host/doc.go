// Package host provides Visibility and Navigator implementations for hosts
// without a browser: terminals, servers and tests.
package host
