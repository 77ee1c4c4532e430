package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmcduran/requisition_mgmt_app/internal/apperrors"
	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
	portsrepo "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/repositories"
	"github.com/jmcduran/requisition_mgmt_app/internal/models"
	"github.com/jmcduran/requisition_mgmt_app/internal/utils/mapping"
)

type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates a new repository for the audit log.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxAuditRepository implements portsrepo.AuditRepositoryFacade
var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

const auditInsertQuery = `
	INSERT INTO audit_events (audit_id, requisition_id, action_type, actor_id, actor_name, description, observations, occurred_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`

// AppendAuditEvent inserts one immutable audit log row.
func (r *PgxAuditRepository) AppendAuditEvent(ctx context.Context, event domain.AuditEvent) error {
	modelEvent := mapping.ToModelAuditEvent(event)
	_, err := r.Pool.Exec(ctx, auditInsertQuery,
		modelEvent.AuditID,
		modelEvent.RequisitionID,
		modelEvent.ActionType,
		modelEvent.ActorID,
		modelEvent.ActorName,
		modelEvent.Description,
		modelEvent.Observations,
		modelEvent.OccurredAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to append audit event for requisition "+event.RequisitionID, err)
	}
	return nil
}

// appendAuditEventTx inserts an audit event inside an open transaction, used
// by writes that must record their transition atomically.
func appendAuditEventTx(ctx context.Context, tx pgx.Tx, event domain.AuditEvent) error {
	modelEvent := mapping.ToModelAuditEvent(event)
	_, err := tx.Exec(ctx, auditInsertQuery,
		modelEvent.AuditID,
		modelEvent.RequisitionID,
		modelEvent.ActionType,
		modelEvent.ActorID,
		modelEvent.ActorName,
		modelEvent.Description,
		modelEvent.Observations,
		modelEvent.OccurredAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to append audit event for requisition "+event.RequisitionID, err)
	}
	return nil
}

// FindTimeline retrieves all audit events of a requisition ordered by
// occurrence time ascending.
func (r *PgxAuditRepository) FindTimeline(ctx context.Context, requisitionID string) ([]domain.AuditEvent, error) {
	query := `
		SELECT audit_id, requisition_id, action_type, actor_id, actor_name, description, observations, occurred_at
		FROM audit_events
		WHERE requisition_id = $1
		ORDER BY occurred_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, requisitionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query audit events for requisition "+requisitionID, err)
	}
	defer rows.Close()

	var result []domain.AuditEvent
	for rows.Next() {
		var m models.AuditEvent
		err := rows.Scan(
			&m.AuditID,
			&m.RequisitionID,
			&m.ActionType,
			&m.ActorID,
			&m.ActorName,
			&m.Description,
			&m.Observations,
			&m.OccurredAt,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan audit event row", err)
		}
		result = append(result, mapping.ToDomainAuditEvent(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating audit event rows", err)
	}
	return result, nil
}
