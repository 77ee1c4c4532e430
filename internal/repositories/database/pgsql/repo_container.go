package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		RequisitionRepo:  newPgxRequisitionRepository(dbPool),
		EmployeeRepo:     newPgxEmployeeRepository(dbPool),
		AuditRepo:        newPgxAuditRepository(dbPool),
		NotificationRepo: newPgxNotificationRepository(dbPool),
	}
}
