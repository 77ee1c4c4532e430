package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
	portsrepo "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/services"
	"github.com/jmcduran/requisition_mgmt_app/internal/dto"
	"github.com/jmcduran/requisition_mgmt_app/internal/middleware"
)

// notificationDispatcher composes and emits user-facing notifications as a
// side effect of state transitions. Everything here is best-effort: an email
// or PDF failure is recorded on the notification and never surfaces as a
// failure of the transition that triggered it.
type notificationDispatcher struct {
	notificationRepo portsrepo.NotificationRepositoryFacade
	roleResolver     portssvc.RoleResolverSvcFacade
	notifier         portssvc.Notifier
	renderer         portssvc.DocumentRenderer
	frontendBaseURL  string
	sendTimeout      time.Duration
	logger           *slog.Logger
}

// NewNotificationDispatcher creates the notification side-effect service.
func NewNotificationDispatcher(
	notificationRepo portsrepo.NotificationRepositoryFacade,
	roleResolver portssvc.RoleResolverSvcFacade,
	notifier portssvc.Notifier,
	renderer portssvc.DocumentRenderer,
	frontendBaseURL string,
	sendTimeout time.Duration,
	logger *slog.Logger,
) portssvc.NotificationDispatcherSvcFacade {
	if sendTimeout <= 0 {
		sendTimeout = 30 * time.Second
	}
	return &notificationDispatcher{
		notificationRepo: notificationRepo,
		roleResolver:     roleResolver,
		notifier:         notifier,
		renderer:         renderer,
		frontendBaseURL:  frontendBaseURL,
		sendTimeout:      sendTimeout,
		logger:           logger,
	}
}

var _ portssvc.NotificationDispatcherSvcFacade = (*notificationDispatcher)(nil)

// NotifySubmitted informs the resolved supervisor that a newly submitted
// requisition awaits their action.
func (s *notificationDispatcher) NotifySubmitted(ctx context.Context, requisition *domain.Requisition) {
	message := fmt.Sprintf("Requisition %s from %s is awaiting your approval.", requisition.Code, requisition.RequesterName)
	subject := fmt.Sprintf("Requisition %s pending your approval", requisition.Code)
	s.createAndSend(ctx, requisition, requisition.SupervisorEmail, domain.NotificationPending, message, subject)
}

// NotifyOutcome informs the requester of a decision and, when the decision is
// a non-final approval, informs the next stage's eligible principals. A
// rejection notifies no further stage.
func (s *notificationDispatcher) NotifyOutcome(ctx context.Context, requisition *domain.Requisition, decision domain.ApprovalDecision, actingStage domain.ApprovalStage, actorName, comment string) {
	var message, subject string
	if decision == domain.DecisionRejected {
		message = fmt.Sprintf("Requisition %s was rejected by %s (%s). Reason: %s", requisition.Code, actorName, stageLabel(actingStage), comment)
		subject = fmt.Sprintf("Requisition %s rejected", requisition.Code)
	} else if requisition.Status == domain.StatusApproved {
		message = fmt.Sprintf("Requisition %s was fully approved and is ready for delivery.", requisition.Code)
		subject = fmt.Sprintf("Requisition %s approved", requisition.Code)
	} else {
		message = fmt.Sprintf("Requisition %s was approved by %s (%s) and moved to the next stage.", requisition.Code, actorName, stageLabel(actingStage))
		subject = fmt.Sprintf("Requisition %s progressed", requisition.Code)
	}
	s.createAndSend(ctx, requisition, requisition.RequesterEmail, domain.NotificationDecision, message, subject)

	if decision != domain.DecisionApproved || requisition.Status != domain.StatusPending {
		return
	}

	next, ok := domain.NextStage(actingStage)
	if !ok {
		return
	}

	principals, err := s.roleResolver.EligiblePrincipals(ctx, requisition, next)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to resolve next stage principals",
			slog.String("requisition_id", requisition.RequisitionID),
			slog.String("stage", string(next)),
			slog.String("error", err.Error()),
		)
		return
	}

	pendingMsg := fmt.Sprintf("Requisition %s from %s is awaiting your approval.", requisition.Code, requisition.RequesterName)
	pendingSubject := fmt.Sprintf("Requisition %s pending your approval", requisition.Code)
	for _, principal := range principals {
		s.createAndSend(ctx, requisition, principal.Email, domain.NotificationPending, pendingMsg, pendingSubject)
	}
}

// NotifyDelivered informs the requester that the requisition was handed over.
func (s *notificationDispatcher) NotifyDelivered(ctx context.Context, requisition *domain.Requisition) {
	message := fmt.Sprintf("Requisition %s was delivered.", requisition.Code)
	subject := fmt.Sprintf("Requisition %s delivered", requisition.Code)
	s.createAndSend(ctx, requisition, requisition.RequesterEmail, domain.NotificationDelivery, message, subject)
}

// createAndSend persists the in-app notification and detaches the email
// attempt so the caller is never blocked past the notification row insert.
func (s *notificationDispatcher) createAndSend(ctx context.Context, requisition *domain.Requisition, recipient string, kind domain.NotificationKind, message, subject string) {
	logger := middleware.GetLoggerFromCtx(ctx)

	notification := domain.Notification{
		NotificationID: uuid.NewString(),
		UserEmail:      recipient,
		RequisitionID:  requisition.RequisitionID,
		Kind:           kind,
		Message:        message,
		DeliveryStatus: domain.DeliveryPending,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.notificationRepo.SaveNotification(ctx, notification); err != nil {
		logger.Error("Failed to save notification",
			slog.String("requisition_id", requisition.RequisitionID),
			slog.String("recipient", recipient),
			slog.String("error", err.Error()),
		)
		return
	}

	code := requisition.Code
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), s.sendTimeout)
		defer cancel()
		s.attemptEmail(sendCtx, notification, code, subject)
	}()
}

// attemptEmail renders the PDF summary, sends the email and records the
// delivery outcome on the notification.
func (s *notificationDispatcher) attemptEmail(ctx context.Context, notification domain.Notification, code, subject string) {
	var attachments []portssvc.Attachment
	if pdfBytes, err := s.renderer.RenderSummary(ctx, notification.RequisitionID); err != nil {
		s.logger.Warn("Could not render PDF attachment",
			slog.String("requisition_id", notification.RequisitionID),
			slog.String("error", err.Error()),
		)
	} else {
		attachments = append(attachments, portssvc.Attachment{
			Filename: fmt.Sprintf("Requisition_%s.pdf", code),
			Content:  pdfBytes,
			MIMEType: "application/pdf",
		})
	}

	htmlBody := s.composeHTML(notification, code)
	err := s.notifier.Send(ctx, notification.UserEmail, subject, notification.Message, htmlBody, attachments)

	now := time.Now().UTC()
	if err != nil {
		s.logger.Warn("Notification email failed",
			slog.String("notification_id", notification.NotificationID),
			slog.String("recipient", notification.UserEmail),
			slog.String("error", err.Error()),
		)
		if updErr := s.notificationRepo.UpdateDeliveryOutcome(context.Background(), notification.NotificationID, domain.DeliveryError, err.Error(), nil); updErr != nil {
			s.logger.Error("Failed to record delivery error", slog.String("notification_id", notification.NotificationID), slog.String("error", updErr.Error()))
		}
		return
	}

	if updErr := s.notificationRepo.UpdateDeliveryOutcome(context.Background(), notification.NotificationID, domain.DeliverySent, "", &now); updErr != nil {
		s.logger.Error("Failed to record delivery outcome", slog.String("notification_id", notification.NotificationID), slog.String("error", updErr.Error()))
	}
}

func (s *notificationDispatcher) composeHTML(notification domain.Notification, code string) string {
	link := fmt.Sprintf("%s/requisitions/%s", s.frontendBaseURL, notification.RequisitionID)
	return fmt.Sprintf(`<html><body>
<div style="background:#f8f9fa;border:1px solid #e0e0e0;border-radius:8px;padding:16px;">
<h2>Requisition %s</h2>
<p>%s</p>
<a href="%s" style="display:inline-block;background:#0f766e;color:white;text-decoration:none;padding:10px 16px;border-radius:6px;">View requisition</a>
</div>
</body></html>`, code, notification.Message, link)
}

// ResendPending retries notifications whose email delivery outcome is not
// sent. It runs from a background sweep and sends synchronously with the
// bounded per-send timeout.
func (s *notificationDispatcher) ResendPending(ctx context.Context, limit int) int {
	undelivered, err := s.notificationRepo.ListUndelivered(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to list undelivered notifications", slog.String("error", err.Error()))
		return 0
	}

	attempted := 0
	for _, notification := range undelivered {
		sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
		subject := fmt.Sprintf("Requisition %s update", notification.RequisitionCode)
		s.attemptEmail(sendCtx, notification, notification.RequisitionCode, subject)
		cancel()
		attempted++
	}
	return attempted
}

// List returns the recipient's notifications with read counts.
func (s *notificationDispatcher) List(ctx context.Context, userEmail string, params dto.ListNotificationsParams) (*dto.ListNotificationsResponse, error) {
	limit := params.Limit
	if limit <= 0 || limit > 200 {
		limit = 200
	}
	notifications, err := s.notificationRepo.ListByUser(ctx, userEmail, params.UnreadOnly, params.Code, limit)
	if err != nil {
		return nil, err
	}
	resp := dto.ToListNotificationsResponse(notifications)
	return &resp, nil
}

// MarkRead marks one notification as read, scoped to its recipient.
func (s *notificationDispatcher) MarkRead(ctx context.Context, notificationID, userEmail string) error {
	return s.notificationRepo.MarkRead(ctx, notificationID, userEmail)
}

// MarkAllRead marks all of the recipient's notifications as read.
func (s *notificationDispatcher) MarkAllRead(ctx context.Context, userEmail string) error {
	return s.notificationRepo.MarkAllRead(ctx, userEmail)
}

func stageLabel(stage domain.ApprovalStage) string {
	switch stage {
	case domain.StageSupervisor:
		return "Immediate Supervisor"
	case domain.StageAdminManager:
		return "Administrative Manager"
	case domain.StageMaterialsChief:
		return "Materials and Services Chief"
	case domain.StageWarehouseStaff:
		return "Warehouse Staff"
	}
	return string(stage)
}
