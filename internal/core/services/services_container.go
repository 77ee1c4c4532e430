package services

import (
	"log/slog"

	portsrepo "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/services"
	"github.com/jmcduran/requisition_mgmt_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	notifier portssvc.Notifier,
	renderer portssvc.DocumentRenderer,
	logger *slog.Logger,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Role resolution first since the state machine and queries depend on it
	container.RoleResolver = NewRoleResolver(repos.EmployeeRepo)

	container.Notification = NewNotificationDispatcher(
		repos.NotificationRepo,
		container.RoleResolver,
		notifier,
		renderer,
		cfg.FrontendBaseURL,
		cfg.MailSendTimeout,
		logger,
	)

	container.Approval = NewApprovalEngine(
		repos.RequisitionRepo,
		repos.EmployeeRepo,
		container.RoleResolver,
		container.Notification,
	)

	container.Requisition = NewRequisitionService(
		repos.RequisitionRepo,
		repos.EmployeeRepo,
		container.RoleResolver,
		container.Notification,
	)

	container.Pending = NewPendingQueryService(repos.RequisitionRepo, container.RoleResolver)
	container.Audit = NewAuditRecorder(repos.AuditRepo, repos.RequisitionRepo)
	container.Token = NewTokenService(cfg, repos.EmployeeRepo, container.RoleResolver)
	container.Renderer = renderer

	return container
}
