package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmcduran/requisition_mgmt_app/internal/apperrors"
	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
	portsrepo "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/repositories"
	"github.com/jmcduran/requisition_mgmt_app/internal/models"
	"github.com/jmcduran/requisition_mgmt_app/internal/utils/mapping"
)

type PgxRequisitionRepository struct {
	BaseRepository
}

// newPgxRequisitionRepository creates a new repository for requisition,
// line item and approval record data.
func newPgxRequisitionRepository(pool *pgxpool.Pool) portsrepo.RequisitionRepositoryFacade {
	return &PgxRequisitionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxRequisitionRepository implements portsrepo.RequisitionRepositoryFacade
var _ portsrepo.RequisitionRepositoryFacade = (*PgxRequisitionRepository)(nil)

const requisitionColumns = `
	requisition_id, code, requester_id, requester_name, requester_email,
	supervisor_email, org_unit_id, org_unit_name, status, requester_notes,
	warehouse_notes, rejection_reason, total_amount, submitted_at,
	supervisor_approved_at, warehouse_approved_at, rejected_at, delivered_at,
	created_at, created_by, last_updated_at, last_updated_by`

func scanRequisition(row pgx.Row) (*models.Requisition, error) {
	var m models.Requisition
	err := row.Scan(
		&m.RequisitionID,
		&m.Code,
		&m.RequesterID,
		&m.RequesterName,
		&m.RequesterEmail,
		&m.SupervisorEmail,
		&m.OrgUnitID,
		&m.OrgUnitName,
		&m.Status,
		&m.RequesterNotes,
		&m.WarehouseNotes,
		&m.RejectionReason,
		&m.TotalAmount,
		&m.SubmittedAt,
		&m.SupervisorApprovedAt,
		&m.WarehouseApprovedAt,
		&m.RejectedAt,
		&m.DeliveredAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveRequisition persists a new requisition with its line items and initial
// audit events in one transaction. The human-readable code is assigned here
// from the per-organizational-unit counter so two concurrent submissions can
// never share a code.
func (r *PgxRequisitionRepository) SaveRequisition(ctx context.Context, requisition domain.Requisition, items []domain.LineItem, events []domain.AuditEvent) (*domain.Requisition, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	// Bump the unit's counter under its row lock and build the code from the
	// unit prefix, e.g. WHSE-00042.
	var prefix string
	var seq int64
	counterQuery := `
		UPDATE org_units
		SET next_requisition_seq = next_requisition_seq + 1
		WHERE org_unit_id = $1
		RETURNING code_prefix, next_requisition_seq;
	`
	err = tx.QueryRow(ctx, counterQuery, requisition.OrgUnitID).Scan(&prefix, &seq)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewAppError(400, "unknown organizational unit "+requisition.OrgUnitID, apperrors.ErrValidation)
		}
		return nil, apperrors.NewAppError(500, "failed to assign requisition code", err)
	}
	requisition.Code = fmt.Sprintf("%s-%05d", prefix, seq)

	modelReq := mapping.ToModelRequisition(requisition)
	insertQuery := `
		INSERT INTO requisitions (` + requisitionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);
	`
	_, err = tx.Exec(ctx, insertQuery,
		modelReq.RequisitionID,
		modelReq.Code,
		modelReq.RequesterID,
		modelReq.RequesterName,
		modelReq.RequesterEmail,
		modelReq.SupervisorEmail,
		modelReq.OrgUnitID,
		modelReq.OrgUnitName,
		modelReq.Status,
		modelReq.RequesterNotes,
		modelReq.WarehouseNotes,
		modelReq.RejectionReason,
		modelReq.TotalAmount,
		modelReq.SubmittedAt,
		modelReq.SupervisorApprovedAt,
		modelReq.WarehouseApprovedAt,
		modelReq.RejectedAt,
		modelReq.DeliveredAt,
		modelReq.CreatedAt,
		modelReq.CreatedBy,
		modelReq.LastUpdatedAt,
		modelReq.LastUpdatedBy,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert requisition "+modelReq.RequisitionID, err)
	}

	batch := &pgx.Batch{}
	itemQuery := `
		INSERT INTO line_items (line_item_id, requisition_id, product_id, product_name, quantity, delivered_quantity, unit_cost, line_total, delivered_by, received_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, item := range items {
		modelItem := mapping.ToModelLineItem(item)
		batch.Queue(itemQuery,
			modelItem.LineItemID,
			modelItem.RequisitionID,
			modelItem.ProductID,
			modelItem.ProductName,
			modelItem.Quantity,
			modelItem.DeliveredQuantity,
			modelItem.UnitCost,
			modelItem.LineTotal,
			modelItem.DeliveredBy,
			modelItem.ReceivedBy,
		)
	}
	for _, event := range events {
		modelEvent := mapping.ToModelAuditEvent(event)
		batch.Queue(auditInsertQuery,
			modelEvent.AuditID,
			modelEvent.RequisitionID,
			modelEvent.ActionType,
			modelEvent.ActorID,
			modelEvent.ActorName,
			modelEvent.Description,
			modelEvent.Observations,
			modelEvent.OccurredAt,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert line items for requisition "+modelReq.RequisitionID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	saved := mapping.ToDomainRequisition(modelReq)
	return &saved, nil
}

// ApplyDecision records one stage's decision as a single serializable unit.
// The requisition row is locked first and the current pending stage is
// re-derived from the approval history under that lock, so a concurrent
// decision that committed earlier is always observed.
func (r *PgxRequisitionRepository) ApplyDecision(ctx context.Context, requisitionID string, expectedStage domain.ApprovalStage, record domain.ApprovalRecord, adjustments []domain.QuantityAdjustment, event domain.AuditEvent) (*domain.Requisition, []domain.LineItem, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	lockQuery := `SELECT ` + requisitionColumns + ` FROM requisitions WHERE requisition_id = $1 FOR UPDATE;`
	modelReq, err := scanRequisition(tx.QueryRow(ctx, lockQuery, requisitionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.ErrNotFound
		}
		return nil, nil, apperrors.NewAppError(500, "failed to lock requisition "+requisitionID, err)
	}
	if domain.RequisitionStatus(modelReq.Status).IsTerminal() {
		return nil, nil, apperrors.ErrAlreadyFinalized
	}

	records, err := findApprovalRecordsTx(ctx, tx, requisitionID)
	if err != nil {
		return nil, nil, err
	}
	pendingStage, ok := domain.CurrentPendingStage(records)
	if !ok {
		// History says fully approved but the row was still PENDING; treat as
		// finalized rather than letting a fifth decision through.
		return nil, nil, apperrors.ErrAlreadyFinalized
	}
	if pendingStage != expectedStage {
		return nil, nil, apperrors.ErrNotAuthorizedForStage
	}

	modelRecord := mapping.ToModelApprovalRecord(record)
	recordQuery := `
		INSERT INTO approval_records (approval_id, requisition_id, stage, principal_email, principal_name, decision, comment, decided_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = tx.Exec(ctx, recordQuery,
		modelRecord.ApprovalID,
		modelRecord.RequisitionID,
		modelRecord.Stage,
		modelRecord.PrincipalEmail,
		modelRecord.PrincipalName,
		modelRecord.Decision,
		modelRecord.Comment,
		modelRecord.DecidedAt,
	)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to insert approval record for requisition "+requisitionID, err)
	}

	for _, adj := range adjustments {
		adjQuery := `
			UPDATE line_items
			SET quantity = $1, line_total = $1 * unit_cost
			WHERE requisition_id = $2 AND product_id = $3;
		`
		tag, err := tx.Exec(ctx, adjQuery, adj.NewQuantity, requisitionID, adj.ProductID)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to adjust line item "+adj.ProductID, err)
		}
		if tag.RowsAffected() == 0 {
			return nil, nil, apperrors.NewAppError(400, "requisition has no line item for product "+adj.ProductID, apperrors.ErrValidation)
		}
	}

	items, err := findLineItemsTx(ctx, tx, requisitionID)
	if err != nil {
		return nil, nil, err
	}
	total := domain.TotalOf(items)

	// Re-derive the overall status including the record just written.
	records = append(records, record)
	status := domain.OverallStatus(records)

	modelReq.Status = models.RequisitionStatus(status)
	modelReq.TotalAmount = total
	modelReq.LastUpdatedAt = record.DecidedAt
	modelReq.LastUpdatedBy = record.PrincipalEmail
	decidedAt := record.DecidedAt
	switch {
	case record.Decision == domain.DecisionRejected:
		modelReq.RejectedAt = &decidedAt
		modelReq.RejectionReason = record.Comment
	case record.Stage == domain.StageSupervisor:
		modelReq.SupervisorApprovedAt = &decidedAt
	case record.Stage == domain.StageWarehouseStaff:
		modelReq.WarehouseApprovedAt = &decidedAt
	}

	updateQuery := `
		UPDATE requisitions
		SET status = $1, total_amount = $2, rejection_reason = $3,
		    supervisor_approved_at = $4, warehouse_approved_at = $5, rejected_at = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE requisition_id = $9;
	`
	_, err = tx.Exec(ctx, updateQuery,
		modelReq.Status,
		modelReq.TotalAmount,
		modelReq.RejectionReason,
		modelReq.SupervisorApprovedAt,
		modelReq.WarehouseApprovedAt,
		modelReq.RejectedAt,
		modelReq.LastUpdatedAt,
		modelReq.LastUpdatedBy,
		requisitionID,
	)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to update requisition "+requisitionID, err)
	}

	if err := appendAuditEventTx(ctx, tx, event); err != nil {
		return nil, nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}

	updated := mapping.ToDomainRequisition(*modelReq)
	return &updated, items, nil
}

// MarkDelivered records the physical hand-over of a fully approved requisition.
func (r *PgxRequisitionRepository) MarkDelivered(ctx context.Context, requisitionID string, deliveredBy, receivedBy string, quantities []domain.DeliveredQuantity, event domain.AuditEvent, deliveredAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var status models.RequisitionStatus
	var existingDeliveredAt *time.Time
	lockQuery := `SELECT status, delivered_at FROM requisitions WHERE requisition_id = $1 FOR UPDATE;`
	err = tx.QueryRow(ctx, lockQuery, requisitionID).Scan(&status, &existingDeliveredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to lock requisition "+requisitionID, err)
	}
	if status != models.Approved {
		return apperrors.ErrNotDeliverable
	}
	if existingDeliveredAt != nil {
		return apperrors.ErrDuplicate
	}

	for _, q := range quantities {
		qtyQuery := `
			UPDATE line_items
			SET delivered_quantity = $1, delivered_by = $2, received_by = $3
			WHERE requisition_id = $4 AND product_id = $5;
		`
		tag, err := tx.Exec(ctx, qtyQuery, q.Quantity, deliveredBy, receivedBy, requisitionID, q.ProductID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to record delivered quantity for product "+q.ProductID, err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NewAppError(400, "requisition has no line item for product "+q.ProductID, apperrors.ErrValidation)
		}
	}

	updateQuery := `
		UPDATE requisitions
		SET delivered_at = $1, last_updated_at = $1, last_updated_by = $2
		WHERE requisition_id = $3;
	`
	_, err = tx.Exec(ctx, updateQuery, deliveredAt, deliveredBy, requisitionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark requisition "+requisitionID+" delivered", err)
	}

	if err := appendAuditEventTx(ctx, tx, event); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// FindRequisitionByID retrieves a requisition by its unique identifier.
func (r *PgxRequisitionRepository) FindRequisitionByID(ctx context.Context, requisitionID string) (*domain.Requisition, error) {
	query := `SELECT ` + requisitionColumns + ` FROM requisitions WHERE requisition_id = $1;`
	modelReq, err := scanRequisition(r.Pool.QueryRow(ctx, query, requisitionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find requisition by ID "+requisitionID, err)
	}
	req := mapping.ToDomainRequisition(*modelReq)
	return &req, nil
}

// FindRequisitionByCode retrieves a requisition by its human-readable code.
func (r *PgxRequisitionRepository) FindRequisitionByCode(ctx context.Context, code string) (*domain.Requisition, error) {
	query := `SELECT ` + requisitionColumns + ` FROM requisitions WHERE code = $1;`
	modelReq, err := scanRequisition(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find requisition by code "+code, err)
	}
	req := mapping.ToDomainRequisition(*modelReq)
	return &req, nil
}

// FindLineItems retrieves all line items of a requisition.
func (r *PgxRequisitionRepository) FindLineItems(ctx context.Context, requisitionID string) ([]domain.LineItem, error) {
	rows, err := r.Pool.Query(ctx, lineItemSelectQuery, requisitionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query line items for requisition "+requisitionID, err)
	}
	defer rows.Close()
	return collectLineItems(rows)
}

// FindApprovalRecords retrieves the full approval history of a requisition,
// ordered by decision time ascending.
func (r *PgxRequisitionRepository) FindApprovalRecords(ctx context.Context, requisitionID string) ([]domain.ApprovalRecord, error) {
	rows, err := r.Pool.Query(ctx, approvalRecordSelectQuery, requisitionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query approval records for requisition "+requisitionID, err)
	}
	defer rows.Close()
	return collectApprovalRecords(rows)
}

// ListByRequester retrieves all requisitions submitted by the given requester,
// newest first.
func (r *PgxRequisitionRepository) ListByRequester(ctx context.Context, requesterEmail string) ([]domain.Requisition, error) {
	query := `SELECT ` + requisitionColumns + ` FROM requisitions WHERE lower(requester_email) = lower($1) ORDER BY submitted_at DESC;`
	rows, err := r.Pool.Query(ctx, query, requesterEmail)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query requisitions for requester "+requesterEmail, err)
	}
	defer rows.Close()
	return collectRequisitions(rows)
}

// ListPendingAtStage retrieves all non-terminal requisitions whose derived
// current pending stage equals the given stage, oldest pending first. The
// stage is derived from each requisition's approval history with the same
// rules the decision path uses.
func (r *PgxRequisitionRepository) ListPendingAtStage(ctx context.Context, stage domain.ApprovalStage) ([]domain.Requisition, error) {
	query := `SELECT ` + requisitionColumns + ` FROM requisitions WHERE status = $1 ORDER BY submitted_at ASC;`
	rows, err := r.Pool.Query(ctx, query, models.Pending)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query pending requisitions", err)
	}
	candidates, err := func() ([]domain.Requisition, error) {
		defer rows.Close()
		return collectRequisitions(rows)
	}()
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	ids := make([]string, len(candidates))
	for i, req := range candidates {
		ids[i] = req.RequisitionID
	}
	historyQuery := `
		SELECT approval_id, requisition_id, stage, principal_email, principal_name, decision, comment, decided_at
		FROM approval_records
		WHERE requisition_id = ANY($1)
		ORDER BY decided_at ASC;
	`
	histRows, err := r.Pool.Query(ctx, historyQuery, ids)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query approval histories", err)
	}
	allRecords, err := func() ([]domain.ApprovalRecord, error) {
		defer histRows.Close()
		return collectApprovalRecords(histRows)
	}()
	if err != nil {
		return nil, err
	}

	byRequisition := make(map[string][]domain.ApprovalRecord, len(candidates))
	for _, rec := range allRecords {
		byRequisition[rec.RequisitionID] = append(byRequisition[rec.RequisitionID], rec)
	}

	var result []domain.Requisition
	for _, req := range candidates {
		pending, ok := domain.CurrentPendingStage(byRequisition[req.RequisitionID])
		if ok && pending == stage {
			result = append(result, req)
		}
	}
	return result, nil
}

const lineItemSelectQuery = `
	SELECT line_item_id, requisition_id, product_id, product_name, quantity, delivered_quantity, unit_cost, line_total, delivered_by, received_by
	FROM line_items
	WHERE requisition_id = $1
	ORDER BY product_name ASC;
`

const approvalRecordSelectQuery = `
	SELECT approval_id, requisition_id, stage, principal_email, principal_name, decision, comment, decided_at
	FROM approval_records
	WHERE requisition_id = $1
	ORDER BY decided_at ASC;
`

func findLineItemsTx(ctx context.Context, tx pgx.Tx, requisitionID string) ([]domain.LineItem, error) {
	rows, err := tx.Query(ctx, lineItemSelectQuery, requisitionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query line items for requisition "+requisitionID, err)
	}
	defer rows.Close()
	return collectLineItems(rows)
}

func findApprovalRecordsTx(ctx context.Context, tx pgx.Tx, requisitionID string) ([]domain.ApprovalRecord, error) {
	rows, err := tx.Query(ctx, approvalRecordSelectQuery, requisitionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query approval records for requisition "+requisitionID, err)
	}
	defer rows.Close()
	return collectApprovalRecords(rows)
}

func collectRequisitions(rows pgx.Rows) ([]domain.Requisition, error) {
	var result []domain.Requisition
	for rows.Next() {
		modelReq, err := scanRequisition(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan requisition row", err)
		}
		result = append(result, mapping.ToDomainRequisition(*modelReq))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating requisition rows", err)
	}
	return result, nil
}

func collectLineItems(rows pgx.Rows) ([]domain.LineItem, error) {
	var result []domain.LineItem
	for rows.Next() {
		var m models.LineItem
		err := rows.Scan(
			&m.LineItemID,
			&m.RequisitionID,
			&m.ProductID,
			&m.ProductName,
			&m.Quantity,
			&m.DeliveredQuantity,
			&m.UnitCost,
			&m.LineTotal,
			&m.DeliveredBy,
			&m.ReceivedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line item row", err)
		}
		result = append(result, mapping.ToDomainLineItem(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line item rows", err)
	}
	return result, nil
}

func collectApprovalRecords(rows pgx.Rows) ([]domain.ApprovalRecord, error) {
	var result []domain.ApprovalRecord
	for rows.Next() {
		var m models.ApprovalRecord
		err := rows.Scan(
			&m.ApprovalID,
			&m.RequisitionID,
			&m.Stage,
			&m.PrincipalEmail,
			&m.PrincipalName,
			&m.Decision,
			&m.Comment,
			&m.DecidedAt,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan approval record row", err)
		}
		result = append(result, mapping.ToDomainApprovalRecord(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating approval record rows", err)
	}
	return result, nil
}
