package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/citaplan/scheduling-service/internal/domain"
	"github.com/citaplan/scheduling-service/pkg/psqlbuilder"
	"github.com/citaplan/scheduling-service/pkg/txmanager"
)

// Repository persists services and their ordered phases.
type Repository struct {
	db txmanager.Executor
}

// NewRepository creates a service repository over db.
func NewRepository(db txmanager.Executor) *Repository {
	return &Repository{db: db}
}

// GetByID fetches one service with its phases loaded.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "company_id", "name", "price", "duration_minutes", "active", "created_at", "updated_at",
	).
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		svc                  domain.Service
		createdAt, updatedAt sql.NullTime
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&svc.ID,
		&svc.CompanyID,
		&svc.Name,
		&svc.Price,
		&svc.DurationMinutes,
		&svc.Active,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan service: %v", ErrScanRow, err)
	}
	svc.CreatedAt = createdAt.Time
	svc.UpdatedAt = updatedAt.Time

	phases, err := r.getPhases(ctx, executor, svc.ID)
	if err != nil {
		return nil, err
	}
	svc.Phases = phases

	return &svc, nil
}

// ListByCompany returns the company's services. When activeOnly is set,
// inactive services are skipped. Phases are loaded per service.
func (r *Repository) ListByCompany(ctx context.Context, companyID int64, activeOnly bool) ([]*domain.Service, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id", "company_id", "name", "price", "duration_minutes", "active", "created_at", "updated_at",
	).
		From("services").
		Where(squirrel.Eq{"company_id": companyID}).
		OrderBy("name ASC")
	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCompany - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCompany - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		var (
			svc                  domain.Service
			createdAt, updatedAt sql.NullTime
		)
		err := rows.Scan(
			&svc.ID,
			&svc.CompanyID,
			&svc.Name,
			&svc.Price,
			&svc.DurationMinutes,
			&svc.Active,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByCompany - scan row: %v", ErrScanRow, err)
		}
		svc.CreatedAt = createdAt.Time
		svc.UpdatedAt = updatedAt.Time
		services = append(services, &svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByCompany - rows error: %v", ErrScanRow, err)
	}

	for _, svc := range services {
		phases, err := r.getPhases(ctx, executor, svc.ID)
		if err != nil {
			return nil, err
		}
		svc.Phases = phases
	}

	return services, nil
}

// CreateWithPhases inserts a service together with its phases. Phase order
// validation happens before this call; the insert itself should run inside
// the caller's transaction.
func (r *Repository) CreateWithPhases(ctx context.Context, svc *domain.Service) (*domain.Service, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("services").
		Columns("company_id", "name", "price", "duration_minutes", "active").
		Values(svc.CompanyID, svc.Name, svc.Price, svc.DurationMinutes, svc.Active).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateWithPhases - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&svc.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: CreateWithPhases - execute insert: %v", ErrExecQuery, err)
	}
	svc.CreatedAt = createdAt.Time
	svc.UpdatedAt = updatedAt.Time

	if len(svc.Phases) == 0 {
		return svc, nil
	}

	insertBuilder := psqlbuilder.Insert("service_phases").
		Columns("service_id", "phase_order", "name", "duration_minutes", "requires_attention")
	for _, p := range svc.Phases {
		insertBuilder = insertBuilder.Values(svc.ID, p.Order, p.Name, p.DurationMinutes, p.RequiresAttention)
	}

	phasesQuery, phasesArgs, err := insertBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateWithPhases - build phases insert: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, phasesQuery, phasesArgs...); err != nil {
		return nil, fmt.Errorf("%w: CreateWithPhases - execute phases insert: %v", ErrExecQuery, err)
	}

	phases, err := r.getPhases(ctx, executor, svc.ID)
	if err != nil {
		return nil, err
	}
	svc.Phases = phases

	return svc, nil
}

func (r *Repository) getPhases(ctx context.Context, executor txmanager.Executor, serviceID int64) ([]domain.ServicePhase, error) {
	query, args, err := psqlbuilder.Select(
		"id", "service_id", "phase_order", "name", "duration_minutes", "requires_attention",
	).
		From("service_phases").
		Where(squirrel.Eq{"service_id": serviceID}).
		OrderBy("phase_order ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getPhases - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getPhases - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	phases := make([]domain.ServicePhase, 0)
	for rows.Next() {
		var p domain.ServicePhase
		err := rows.Scan(&p.ID, &p.ServiceID, &p.Order, &p.Name, &p.DurationMinutes, &p.RequiresAttention)
		if err != nil {
			return nil, fmt.Errorf("%w: getPhases - scan row: %v", ErrScanRow, err)
		}
		phases = append(phases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getPhases - rows error: %v", ErrScanRow, err)
	}

	return phases, nil
}
