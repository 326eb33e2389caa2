package ports

import "context"

// Visibility is the host-owned open/closed signal of the assistant.
// The session reads IsOpen before accepting input and calls Close on an explicit close action.
type Visibility interface {
	IsOpen() bool
	Close()
}

// Navigator follows links emitted by dialogue nodes.
type Navigator interface {
	// Navigate requests a client-side route transition to path.
	Navigate(path string) error

	// OpenExternal requests the host to open url in a new browsing context.
	OpenExternal(url string) error
}

// Pacer provides the "bot is typing" delay between a submission and its reply.
// Pause must return early with ctx.Err() when ctx is cancelled.
type Pacer interface {
	Pause(ctx context.Context) error
}
