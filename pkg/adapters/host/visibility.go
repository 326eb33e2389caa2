package host

import "sync/atomic"

// Toggle is a concurrency-safe Visibility the host flips when the assistant is shown or hidden.
type Toggle struct {
	open atomic.Bool
}

// NewToggle creates a Toggle in the given state.
func NewToggle(open bool) *Toggle {
	t := &Toggle{}
	t.open.Store(open)
	return t
}

// IsOpen reports whether the assistant is visible.
func (t *Toggle) IsOpen() bool {
	return t.open.Load()
}

// Show opens the assistant.
func (t *Toggle) Show() {
	t.open.Store(true)
}

// Close hides the assistant.
func (t *Toggle) Close() {
	t.open.Store(false)
}

// Always is a Visibility that is always open. Close is ignored.
type Always struct{}

func (Always) IsOpen() bool { return true }
func (Always) Close()       {}
