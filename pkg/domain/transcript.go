package domain

import "time"

// Sender identifies who authored a transcript entry.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Entry is a single message in a session transcript.
// Entries are created once and never mutated after being appended.
type Entry struct {
	// ID is issued in append order, starting at 1.
	ID        int       `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`

	// NodeKey is the node that produced a bot entry (empty for user entries).
	NodeKey string   `json:"node_key,omitempty"`
	Options []Option `json:"options,omitempty"`
	Links   []Link   `json:"links,omitempty"`
}

// TurnPhase describes where a session is within a single turn.
type TurnPhase string

const (
	PhaseIdle          TurnPhase = "idle"
	PhaseUserSubmitted TurnPhase = "user_submitted"
	PhaseComposing     TurnPhase = "composing"
	PhaseBotResponded  TurnPhase = "bot_responded"
)
