package services

import (
	"context"

	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
	"github.com/jmcduran/requisition_mgmt_app/internal/dto"
)

// NotificationDispatcherSvcFacade composes and emits user-facing notifications
// as a side effect of successful state transitions. All operations here are
// best-effort: they never fail the transition that triggered them.
type NotificationDispatcherSvcFacade interface {
	// NotifySubmitted informs the resolved supervisor that a newly submitted
	// requisition awaits their action.
	NotifySubmitted(ctx context.Context, requisition *domain.Requisition)

	// NotifyOutcome informs the requester of a decision and, when the decision
	// is an approval that did not finalize the requisition, informs the next
	// stage's eligible principals that a new item is pending. A rejection
	// notifies no further stage.
	NotifyOutcome(ctx context.Context, requisition *domain.Requisition, decision domain.ApprovalDecision, actingStage domain.ApprovalStage, actorName, comment string)

	// NotifyDelivered informs the requester that the requisition was handed
	// over.
	NotifyDelivered(ctx context.Context, requisition *domain.Requisition)

	// ResendPending retries the outbound email of notifications whose delivery
	// outcome is not sent. Returns how many sends were attempted.
	ResendPending(ctx context.Context, limit int) int

	// List returns the recipient's notifications with read counts.
	List(ctx context.Context, userEmail string, params dto.ListNotificationsParams) (*dto.ListNotificationsResponse, error)

	// MarkRead marks one notification as read, scoped to its recipient.
	MarkRead(ctx context.Context, notificationID, userEmail string) error

	// MarkAllRead marks all of the recipient's notifications as read.
	MarkAllRead(ctx context.Context, userEmail string) error
}
