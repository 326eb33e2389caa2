package transcript

import (
	"sync"
	"time"

	"github.com/aretw0/guidebot/pkg/domain"
)

// Clock returns the current time. Tests inject a fixed clock.
type Clock func() time.Time

// Option configures a Transcript.
type Option func(*Transcript)

// WithClock replaces time.Now as the timestamp source.
func WithClock(clock Clock) Option {
	return func(t *Transcript) {
		if clock != nil {
			t.now = clock
		}
	}
}

// Transcript is the append-only message log of one session.
// It is safe for concurrent use.
type Transcript struct {
	mu      sync.RWMutex
	entries []domain.Entry
	now     Clock
}

// New creates an empty transcript.
func New(opts ...Option) *Transcript {
	t := &Transcript{now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Append records a message and returns the stored entry.
// For bot entries, node supplies the options, links and node key; it may be nil.
func (t *Transcript) Append(sender domain.Sender, text string, node *domain.Node) domain.Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.appendLocked(sender, text, node)
}

func (t *Transcript) appendLocked(sender domain.Sender, text string, node *domain.Node) domain.Entry {
	e := domain.Entry{
		ID:        len(t.entries) + 1,
		Sender:    sender,
		Text:      text,
		Timestamp: t.now(),
	}
	if node != nil {
		n := node.Clone()
		e.NodeKey = n.Key
		e.Options = n.Options
		e.Links = n.Links
	}
	t.entries = append(t.entries, e)
	return cloneEntry(e)
}

// Initialize appends the welcome message when the transcript is empty.
// It reports whether an entry was appended.
func (t *Transcript) Initialize(welcome domain.Node) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.entries) > 0 {
		return false
	}
	t.appendLocked(domain.SenderBot, welcome.Message, &welcome)
	return true
}

// Entries returns a copy of every entry in append order.
func (t *Transcript) Entries() []domain.Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]domain.Entry, len(t.entries))
	for i, e := range t.entries {
		out[i] = cloneEntry(e)
	}
	return out
}

// Tail returns the last n entries (fewer if the transcript is shorter).
func (t *Transcript) Tail(n int) []domain.Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if n <= 0 {
		return nil
	}
	start := len(t.entries) - n
	if start < 0 {
		start = 0
	}
	out := make([]domain.Entry, 0, len(t.entries)-start)
	for _, e := range t.entries[start:] {
		out = append(out, cloneEntry(e))
	}
	return out
}

// Last returns the most recent entry.
func (t *Transcript) Last() (domain.Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.entries) == 0 {
		return domain.Entry{}, false
	}
	return cloneEntry(t.entries[len(t.entries)-1]), true
}

// LastFrom returns the most recent entry written by sender.
func (t *Transcript) LastFrom(sender domain.Sender) (domain.Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].Sender == sender {
			return cloneEntry(t.entries[i]), true
		}
	}
	return domain.Entry{}, false
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

func cloneEntry(e domain.Entry) domain.Entry {
	if e.Options != nil {
		e.Options = append([]domain.Option(nil), e.Options...)
	}
	if e.Links != nil {
		e.Links = append([]domain.Link(nil), e.Links...)
	}
	return e
}
