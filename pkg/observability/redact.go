package observability

import (
	"context"
	"regexp"

	"github.com/aretw0/guidebot/pkg/domain"
)

// Mask replaces every redacted match.
const Mask = "***"

// DefaultPIIPatterns match e-mail addresses, card-like digit runs, US SSNs and phone numbers.
var DefaultPIIPatterns = []string{
	`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`,
	`\b(?:\d[ \-]?){13,19}\b`,
	`\b\d{3}-\d{2}-\d{4}\b`,
	`\+?\d[\d ().\-]{7,}\d`,
}

// Middleware wraps a hook set to add behavior.
type Middleware func(domain.LifecycleHooks) domain.LifecycleHooks

// NewPIIMiddleware creates a middleware that masks free text matching the patterns
// before the wrapped hooks see it. Events are copied; the session's own entries are untouched.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		patterns[i] = re
	}

	return func(next domain.LifecycleHooks) domain.LifecycleHooks {
		out := next
		if next.OnUserMessage != nil {
			out.OnUserMessage = func(ctx context.Context, e *domain.MessageEvent) {
				cloned := *e
				cloned.Entry.Text = maskText(e.Entry.Text, patterns)
				next.OnUserMessage(ctx, &cloned)
			}
		}
		if next.OnClassified != nil {
			out.OnClassified = func(ctx context.Context, e *domain.ClassifiedEvent) {
				cloned := *e
				cloned.Input = maskText(e.Input, patterns)
				next.OnClassified(ctx, &cloned)
			}
		}
		return out
	}, nil
}

func maskText(s string, patterns []*regexp.Regexp) string {
	for _, p := range patterns {
		s = p.ReplaceAllString(s, Mask)
	}
	return s
}
