package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/guidebot/pkg/domain"
)

// LogHooks returns lifecycle hooks that write one structured record per event.
// User text is logged at debug level only; wrap the hooks with NewPIIMiddleware to mask it.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnUserMessage: func(ctx context.Context, e *domain.MessageEvent) {
			logger.InfoContext(ctx, "user_message", "session_id", e.SessionID, "entry_id", e.Entry.ID, "chars", len(e.Entry.Text))
			logger.DebugContext(ctx, "user_text", "session_id", e.SessionID, "entry_id", e.Entry.ID, "text", e.Entry.Text)
		},
		OnBotMessage: func(ctx context.Context, e *domain.MessageEvent) {
			logger.InfoContext(ctx, "bot_message", "session_id", e.SessionID, "entry_id", e.Entry.ID, "node", e.Entry.NodeKey, "source", e.Source)
		},
		OnClassified: func(ctx context.Context, e *domain.ClassifiedEvent) {
			logger.DebugContext(ctx, "classified", "session_id", e.SessionID, "input", e.Input, "rule", e.Rule, "target", e.Target, "fallback", e.Fallback)
		},
		OnNavigate: func(ctx context.Context, e *domain.NavigateEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "navigate", "session_id", e.SessionID, "url", e.Link.URL, "external", e.Link.External, "error", e.Err)
				return
			}
			logger.InfoContext(ctx, "navigate", "session_id", e.SessionID, "url", e.Link.URL, "external", e.Link.External)
		},
		OnClose: func(ctx context.Context, e *domain.EventBase) {
			logger.InfoContext(ctx, "session_close", "session_id", e.SessionID)
		},
	}
}
