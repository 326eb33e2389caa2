package domain

const (
	// EntryNodeKey is the distinguished node every session opens with.
	EntryNodeKey = "welcome"

	// FallbackKey identifies the synthesized response used when no intent rule matches.
	// It is not a graph node; options may still target it.
	FallbackKey = "fallback"

	// DefaultFallbackMessage is the clarification prompt of the fallback response.
	DefaultFallbackMessage = "I'm not sure I understood that. Could you rephrase, or pick one of the topics below?"
)
