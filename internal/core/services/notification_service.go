package services

import (
	"context"
	"log/slog"

	portssvc "github.com/SscSPs/propnest_backend/internal/core/ports/services"
	"github.com/SscSPs/propnest_backend/internal/middleware"
	"github.com/SscSPs/propnest_backend/internal/utils"
)

// analyticsNotifier logs notifications and forwards them to PostHog when configured.
type analyticsNotifier struct {
	posthog *utils.PosthogClientWrapper
}

// NewNotifier creates a fire-and-forget notifier. posthog may be nil.
func NewNotifier(posthog *utils.PosthogClientWrapper) portssvc.Notifier {
	return &analyticsNotifier{posthog: posthog}
}

var _ portssvc.Notifier = (*analyticsNotifier)(nil)

func (n *analyticsNotifier) Notify(ctx context.Context, accountID string, event string, props map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			middleware.GetLoggerFromCtx(ctx).Error("Notification delivery panicked",
				slog.String("account_id", accountID),
				slog.String("event", event),
				slog.Any("panic", r))
		}
	}()

	middleware.GetLoggerFromCtx(ctx).Info("Notification",
		slog.String("account_id", accountID),
		slog.String("event", event))
	n.posthog.Enqueue(accountID, event, props)
}
