package repositories

import (
	"context"
	"time"

	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
)

// NotificationWriter defines write operations for notifications.
type NotificationWriter interface {
	// SaveNotification persists a new notification in pending delivery state.
	SaveNotification(ctx context.Context, notification domain.Notification) error

	// UpdateDeliveryOutcome records the result of an email send attempt.
	UpdateDeliveryOutcome(ctx context.Context, notificationID string, status domain.DeliveryStatus, deliveryError string, sentAt *time.Time) error

	// MarkRead marks one notification as read, scoped to its recipient.
	MarkRead(ctx context.Context, notificationID, userEmail string) error

	// MarkAllRead marks every notification of the recipient as read.
	MarkAllRead(ctx context.Context, userEmail string) error
}

// NotificationReader defines read operations for notifications.
type NotificationReader interface {
	// ListByUser retrieves notifications for a recipient, newest first,
	// optionally restricted to unread ones or to a requisition code fragment.
	ListByUser(ctx context.Context, userEmail string, unreadOnly bool, codeFilter string, limit int) ([]domain.Notification, error)

	// ListUndelivered retrieves notifications whose email delivery outcome is
	// not sent, oldest first, for the background resend sweep.
	ListUndelivered(ctx context.Context, limit int) ([]domain.Notification, error)
}

// NotificationRepositoryFacade combines notification repository interfaces.
type NotificationRepositoryFacade interface {
	NotificationWriter
	NotificationReader
}
