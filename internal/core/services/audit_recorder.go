package services

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
	portsrepo "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/services"
	"github.com/jmcduran/requisition_mgmt_app/internal/middleware"
)

// auditRecorder appends immutable timeline entries and serves the audit reads.
type auditRecorder struct {
	auditRepo       portsrepo.AuditRepositoryFacade
	requisitionRepo portsrepo.RequisitionRepositoryFacade
}

// NewAuditRecorder creates the audit service.
func NewAuditRecorder(auditRepo portsrepo.AuditRepositoryFacade, requisitionRepo portsrepo.RequisitionRepositoryFacade) portssvc.AuditRecorderSvcFacade {
	return &auditRecorder{
		auditRepo:       auditRepo,
		requisitionRepo: requisitionRepo,
	}
}

var _ portssvc.AuditRecorderSvcFacade = (*auditRecorder)(nil)

// Append records one lifecycle action. The audit log is best-effort
// observability: a failed append is surfaced to the caller for logging but
// must never undo a committed state transition.
func (s *auditRecorder) Append(ctx context.Context, event domain.AuditEvent) error {
	if err := s.auditRepo.AppendAuditEvent(ctx, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to append audit event",
			slog.String("requisition_id", event.RequisitionID),
			slog.String("action", string(event.ActionType)),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}

// Timeline returns the ordered audit events of a requisition.
func (s *auditRecorder) Timeline(ctx context.Context, requisitionID string) ([]domain.AuditEvent, error) {
	return s.auditRepo.FindTimeline(ctx, requisitionID)
}

// StageDurations computes elapsed fractional days between lifecycle milestones
// from the stage timestamps stored on the requisition. Durations whose later
// milestone has not been reached are nil. TotalDays is only set once the
// requisition reached a terminal milestone (delivered or rejected).
func (s *auditRecorder) StageDurations(ctx context.Context, requisitionID string) (*domain.StageDurations, error) {
	requisition, err := s.requisitionRepo.FindRequisitionByID(ctx, requisitionID)
	if err != nil {
		return nil, err
	}

	out := &domain.StageDurations{RequisitionID: requisitionID}

	out.CreatedToSubmitted = daysBetween(&requisition.CreatedAt, &requisition.SubmittedAt)
	out.SubmittedToSupervisor = daysBetween(&requisition.SubmittedAt, requisition.SupervisorApprovedAt)
	out.SupervisorToWarehouse = daysBetween(requisition.SupervisorApprovedAt, requisition.WarehouseApprovedAt)
	out.WarehouseToDelivery = daysBetween(requisition.WarehouseApprovedAt, requisition.DeliveredAt)

	switch {
	case requisition.DeliveredAt != nil:
		out.TotalDays = daysBetween(&requisition.CreatedAt, requisition.DeliveredAt)
	case requisition.RejectedAt != nil:
		out.TotalDays = daysBetween(&requisition.CreatedAt, requisition.RejectedAt)
	}

	return out, nil
}

func daysBetween(from, to *time.Time) *float64 {
	if from == nil || to == nil || from.IsZero() || to.IsZero() {
		return nil
	}
	days := to.Sub(*from).Hours() / 24
	rounded := math.Round(days*100) / 100
	return &rounded
}
