package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmcduran/requisition_mgmt_app/internal/apperrors"
	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
	portsrepo "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/repositories"
	"github.com/jmcduran/requisition_mgmt_app/internal/models"
	"github.com/jmcduran/requisition_mgmt_app/internal/utils/mapping"
)

type PgxNotificationRepository struct {
	BaseRepository
}

// newPgxNotificationRepository creates a new repository for notification data.
func newPgxNotificationRepository(pool *pgxpool.Pool) portsrepo.NotificationRepositoryFacade {
	return &PgxNotificationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxNotificationRepository implements portsrepo.NotificationRepositoryFacade
var _ portsrepo.NotificationRepositoryFacade = (*PgxNotificationRepository)(nil)

// SaveNotification persists a new notification in pending delivery state.
func (r *PgxNotificationRepository) SaveNotification(ctx context.Context, notification domain.Notification) error {
	m := mapping.ToModelNotification(notification)
	query := `
		INSERT INTO notifications (notification_id, user_email, requisition_id, kind, message, read, delivery_status, delivery_error, sent_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.NotificationID,
		m.UserEmail,
		m.RequisitionID,
		m.Kind,
		m.Message,
		m.Read,
		m.DeliveryStatus,
		m.DeliveryError,
		m.SentAt,
		m.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert notification "+m.NotificationID, err)
	}
	return nil
}

// UpdateDeliveryOutcome records the result of an email send attempt.
func (r *PgxNotificationRepository) UpdateDeliveryOutcome(ctx context.Context, notificationID string, status domain.DeliveryStatus, deliveryError string, sentAt *time.Time) error {
	query := `
		UPDATE notifications
		SET delivery_status = $1, delivery_error = $2, sent_at = $3
		WHERE notification_id = $4;
	`
	tag, err := r.Pool.Exec(ctx, query, string(status), deliveryError, sentAt, notificationID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update delivery outcome for notification "+notificationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkRead marks one notification as read, scoped to its recipient.
func (r *PgxNotificationRepository) MarkRead(ctx context.Context, notificationID, userEmail string) error {
	query := `UPDATE notifications SET read = TRUE WHERE notification_id = $1 AND lower(user_email) = lower($2);`
	tag, err := r.Pool.Exec(ctx, query, notificationID, userEmail)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark notification "+notificationID+" read", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkAllRead marks every notification of the recipient as read.
func (r *PgxNotificationRepository) MarkAllRead(ctx context.Context, userEmail string) error {
	query := `UPDATE notifications SET read = TRUE WHERE lower(user_email) = lower($1) AND NOT read;`
	if _, err := r.Pool.Exec(ctx, query, userEmail); err != nil {
		return apperrors.NewAppError(500, "failed to mark notifications read", err)
	}
	return nil
}

// ListByUser retrieves notifications for a recipient, newest first. The code
// filter matches requisition codes by case-insensitive substring.
func (r *PgxNotificationRepository) ListByUser(ctx context.Context, userEmail string, unreadOnly bool, codeFilter string, limit int) ([]domain.Notification, error) {
	query := `
		SELECT n.notification_id, n.user_email, n.requisition_id, r.code, n.kind, n.message, n.read, n.delivery_status, n.delivery_error, n.sent_at, n.created_at
		FROM notifications n
		JOIN requisitions r ON r.requisition_id = n.requisition_id
		WHERE lower(n.user_email) = lower($1)
		  AND ($2 = FALSE OR NOT n.read)
		  AND ($3 = '' OR r.code ILIKE '%' || $3 || '%')
		ORDER BY n.created_at DESC
		LIMIT $4;
	`
	rows, err := r.Pool.Query(ctx, query, userEmail, unreadOnly, codeFilter, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query notifications", err)
	}
	defer rows.Close()
	return collectNotifications(rows)
}

// ListUndelivered retrieves notifications whose email delivery outcome is not
// sent, oldest first.
func (r *PgxNotificationRepository) ListUndelivered(ctx context.Context, limit int) ([]domain.Notification, error) {
	query := `
		SELECT n.notification_id, n.user_email, n.requisition_id, r.code, n.kind, n.message, n.read, n.delivery_status, n.delivery_error, n.sent_at, n.created_at
		FROM notifications n
		JOIN requisitions r ON r.requisition_id = n.requisition_id
		WHERE n.delivery_status <> $1
		ORDER BY n.created_at ASC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, string(domain.DeliverySent), limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query undelivered notifications", err)
	}
	defer rows.Close()
	return collectNotifications(rows)
}

func collectNotifications(rows pgx.Rows) ([]domain.Notification, error) {
	var result []domain.Notification
	for rows.Next() {
		var m models.Notification
		err := rows.Scan(
			&m.NotificationID,
			&m.UserEmail,
			&m.RequisitionID,
			&m.RequisitionCode,
			&m.Kind,
			&m.Message,
			&m.Read,
			&m.DeliveryStatus,
			&m.DeliveryError,
			&m.SentAt,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan notification row", err)
		}
		result = append(result, mapping.ToDomainNotification(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating notification rows", err)
	}
	return result, nil
}
