package observability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/guidebot/pkg/domain"
	"github.com/aretw0/guidebot/pkg/observability"
)

func TestPIIMiddleware_Masking(t *testing.T) {
	mw, err := observability.NewPIIMiddleware(observability.DefaultPIIPatterns)
	require.NoError(t, err)

	var texts, inputs []string
	hooks := mw(domain.LifecycleHooks{
		OnUserMessage: func(_ context.Context, e *domain.MessageEvent) { texts = append(texts, e.Entry.Text) },
		OnClassified:  func(_ context.Context, e *domain.ClassifiedEvent) { inputs = append(inputs, e.Input) },
	})

	tests := []struct {
		in   string
		want string
	}{
		{"mail me at jane.doe@example.com please", "mail me at *** please"},
		{"my SSN is 123-45-6789", "my SSN is ***"},
		{"card 4111 1111 1111 1111 was charged", "card *** was charged"},
		{"call +1 (555) 010-2000 today", "call *** today"},
		{"what is gdpr?", "what is gdpr?"},
	}

	for _, tt := range tests {
		event := &domain.MessageEvent{Entry: domain.Entry{Text: tt.in}}
		hooks.OnUserMessage(context.Background(), event)
		hooks.OnClassified(context.Background(), &domain.ClassifiedEvent{Input: tt.in})

		// Immutability check
		assert.Equal(t, tt.in, event.Entry.Text)
	}

	for i, tt := range tests {
		assert.Equal(t, tt.want, texts[i], tt.in)
		assert.Equal(t, tt.want, inputs[i], tt.in)
	}
}

func TestPIIMiddleware_KeepsOtherHooks(t *testing.T) {
	mw, err := observability.NewPIIMiddleware(nil)
	require.NoError(t, err)

	closed := false
	hooks := mw(domain.LifecycleHooks{OnClose: func(context.Context, *domain.EventBase) { closed = true }})

	assert.Nil(t, hooks.OnUserMessage)
	hooks.OnClose(context.Background(), &domain.EventBase{})
	assert.True(t, closed)
}

func TestNewPIIMiddleware_InvalidPattern(t *testing.T) {
	_, err := observability.NewPIIMiddleware([]string{"("})
	assert.Error(t, err)
}
