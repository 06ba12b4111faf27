package services

import "context"

// Notifier delivers user-facing notifications. Delivery is fire-and-forget:
// implementations log failures and never report them to the caller.
type Notifier interface {
	Notify(ctx context.Context, accountID string, event string, props map[string]any)
}
