package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventUserMessage EventType = "user_message"
	EventBotMessage  EventType = "bot_message"
	EventComposing   EventType = "composing"
	EventClassified  EventType = "classified"
	EventNavigate    EventType = "navigate"
	EventClose       EventType = "close"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// MessageEvent is emitted whenever an entry is appended to a transcript.
type MessageEvent struct {
	EventBase
	Entry Entry `json:"entry"`
	// Source is "text", "option" or "welcome".
	Source string `json:"source"`
}

// ComposingEvent marks the start (Active=true) or end of the typing indicator.
type ComposingEvent struct {
	EventBase
	Active bool          `json:"active"`
	Delay  time.Duration `json:"delay,omitempty"`
}

// ClassifiedEvent reports the outcome of intent classification.
type ClassifiedEvent struct {
	EventBase
	Input    string `json:"input"`
	Rule     string `json:"rule"`
	Target   string `json:"target"`
	Fallback bool   `json:"fallback"`
}

// NavigateEvent reports a link followed through the host navigator.
type NavigateEvent struct {
	EventBase
	Link Link  `json:"link"`
	Err  error `json:"-"`
}

// LifecycleHooks defines callbacks for session observability.
// Every field is optional.
type LifecycleHooks struct {
	OnUserMessage func(context.Context, *MessageEvent)
	OnBotMessage  func(context.Context, *MessageEvent)
	OnComposing   func(context.Context, *ComposingEvent)
	OnClassified  func(context.Context, *ClassifiedEvent)
	OnNavigate    func(context.Context, *NavigateEvent)
	OnClose       func(context.Context, *EventBase)
}

// Merge combines two hook sets; both callbacks run, h first.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnUserMessage: chain(h.OnUserMessage, other.OnUserMessage),
		OnBotMessage:  chain(h.OnBotMessage, other.OnBotMessage),
		OnComposing:   chain(h.OnComposing, other.OnComposing),
		OnClassified:  chain(h.OnClassified, other.OnClassified),
		OnNavigate:    chain(h.OnNavigate, other.OnNavigate),
		OnClose:       chain(h.OnClose, other.OnClose),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
