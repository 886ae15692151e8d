// Package notify delivers administrator notices about account activity.
package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// TypeRegistrationPending is sent when a volunteer or admin applicant
// registers and awaits a decision.
const TypeRegistrationPending = "registration.pending"

// Event is one notice.
type Event struct {
	Type          string    `json:"type"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	RequestedRole string    `json:"requested_role"`
	NotifyEmail   string    `json:"notify_email,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Notifier delivers one event.
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// LogNotifier writes events to the application log.
type LogNotifier struct {
	Log *zap.Logger
}

// Notify implements Notifier.
func (n LogNotifier) Notify(_ context.Context, e Event) error {
	n.Log.Info("admin notification",
		zap.String("type", e.Type),
		zap.String("user_id", e.UserID),
		zap.String("name", e.Name),
		zap.String("email", e.Email),
		zap.String("requested_role", e.RequestedRole),
		zap.String("notify_email", e.NotifyEmail),
	)
	return nil
}
