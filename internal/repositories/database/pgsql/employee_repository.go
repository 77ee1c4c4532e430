package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmcduran/requisition_mgmt_app/internal/apperrors"
	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
	portsrepo "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/repositories"
	"github.com/jmcduran/requisition_mgmt_app/internal/models"
	"github.com/jmcduran/requisition_mgmt_app/internal/utils/mapping"
)

type PgxEmployeeRepository struct {
	BaseRepository
}

// newPgxEmployeeRepository creates a new repository for employee, role and
// hierarchy data.
func newPgxEmployeeRepository(pool *pgxpool.Pool) portsrepo.EmployeeRepositoryFacade {
	return &PgxEmployeeRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxEmployeeRepository implements portsrepo.EmployeeRepositoryFacade
var _ portsrepo.EmployeeRepositoryFacade = (*PgxEmployeeRepository)(nil)

// employeeColumns joins the org unit for its display name and the supervisor
// row for the supervisor's email.
const employeeSelectQuery = `
	SELECT e.employee_id, e.name, e.email, e.password_hash, e.org_unit_id,
	       COALESCE(ou.name, ''), COALESCE(e.supervisor_id, ''), COALESCE(s.email, ''),
	       e.active, e.created_at, e.created_by, e.last_updated_at, e.last_updated_by
	FROM employees e
	LEFT JOIN org_units ou ON ou.org_unit_id = e.org_unit_id
	LEFT JOIN employees s ON s.employee_id = e.supervisor_id
`

func scanEmployee(row pgx.Row) (*models.Employee, error) {
	var m models.Employee
	err := row.Scan(
		&m.EmployeeID,
		&m.Name,
		&m.Email,
		&m.PasswordHash,
		&m.OrgUnitID,
		&m.OrgUnitName,
		&m.SupervisorID,
		&m.SupervisorEmail,
		&m.Active,
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

// FindEmployeeByEmail retrieves an employee by institutional email.
func (r *PgxEmployeeRepository) FindEmployeeByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	query := employeeSelectQuery + ` WHERE lower(e.email) = lower($1);`
	modelEmp, err := scanEmployee(r.Pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find employee by email", err)
	}
	emp := mapping.ToDomainEmployee(*modelEmp)
	return &emp, nil
}

// FindEmployeeByID retrieves an employee by identifier.
func (r *PgxEmployeeRepository) FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	query := employeeSelectQuery + ` WHERE e.employee_id = $1;`
	modelEmp, err := scanEmployee(r.Pool.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find employee by ID "+employeeID, err)
	}
	emp := mapping.ToDomainEmployee(*modelEmp)
	return &emp, nil
}

// FindRolesByEmail returns the flat approval roles held by the employee. The
// supervisor stage is person-specific and never present in the role table.
func (r *PgxEmployeeRepository) FindRolesByEmail(ctx context.Context, email string) ([]domain.ApprovalStage, error) {
	query := `
		SELECT er.role
		FROM employee_roles er
		JOIN employees e ON e.employee_id = er.employee_id
		WHERE lower(e.email) = lower($1) AND e.active;
	`
	rows, err := r.Pool.Query(ctx, query, email)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query roles", err)
	}
	defer rows.Close()

	var stages []domain.ApprovalStage
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan role row", err)
		}
		stage := domain.ApprovalStage(role)
		if stage.IsValid() && stage != domain.StageSupervisor {
			stages = append(stages, stage)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating role rows", err)
	}
	return stages, nil
}

// FindSupervisorOf resolves the direct supervisor of the given requester.
func (r *PgxEmployeeRepository) FindSupervisorOf(ctx context.Context, requesterEmail string) (*domain.Employee, error) {
	query := employeeSelectQuery + `
		WHERE e.employee_id = (
			SELECT supervisor_id FROM employees WHERE lower(email) = lower($1)
		);`
	modelEmp, err := scanEmployee(r.Pool.QueryRow(ctx, query, requesterEmail))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find supervisor of "+requesterEmail, err)
	}
	emp := mapping.ToDomainEmployee(*modelEmp)
	return &emp, nil
}

// ListByRole returns all active employees holding the given flat role.
func (r *PgxEmployeeRepository) ListByRole(ctx context.Context, stage domain.ApprovalStage) ([]domain.Employee, error) {
	query := employeeSelectQuery + `
		JOIN employee_roles er ON er.employee_id = e.employee_id
		WHERE er.role = $1 AND e.active
		ORDER BY e.name ASC;`
	rows, err := r.Pool.Query(ctx, query, string(stage))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query employees by role", err)
	}
	defer rows.Close()

	var result []domain.Employee
	for rows.Next() {
		modelEmp, err := scanEmployee(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan employee row", err)
		}
		result = append(result, mapping.ToDomainEmployee(*modelEmp))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating employee rows", err)
	}
	return result, nil
}

// HasSubordinates reports whether the employee supervises anyone.
func (r *PgxEmployeeRepository) HasSubordinates(ctx context.Context, email string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM employees sub
			JOIN employees sup ON sup.employee_id = sub.supervisor_id
			WHERE lower(sup.email) = lower($1)
		);
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check subordinates", err)
	}
	return exists, nil
}
