package override

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/citaplan/scheduling-service/internal/domain"
	"github.com/citaplan/scheduling-service/pkg/psqlbuilder"
	"github.com/citaplan/scheduling-service/pkg/txmanager"
)

var leaveColumns = []string{
	"id",
	"company_id",
	"worker_id",
	"start_date",
	"end_date",
	"status",
	"reason",
	"rejection_reason",
	"created_at",
	"updated_at",
}

// Repository persists date overrides: company holidays and leave requests.
// Ad-hoc non-working days are never stored; they are derived from the
// absence of schedule rows.
type Repository struct {
	db txmanager.Executor
}

// NewRepository creates an override repository over db.
func NewRepository(db txmanager.Executor) *Repository {
	return &Repository{db: db}
}

// CreateHoliday inserts a company-wide holiday.
func (r *Repository) CreateHoliday(ctx context.Context, h *domain.Holiday) (*domain.Holiday, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("holidays").
		Columns("company_id", "holiday_date", "name").
		Values(h.CompanyID, domain.DateOnly(h.Date), h.Name).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateHoliday - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&h.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: CreateHoliday - execute insert: %v", ErrExecQuery, err)
	}
	h.CreatedAt = createdAt.Time

	return h, nil
}

// DeleteHoliday removes a holiday row.
func (r *Repository) DeleteHoliday(ctx context.Context, companyID, id int64) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("holidays").
		Where(squirrel.Eq{"id": id, "company_id": companyID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteHoliday - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteHoliday - execute delete: %v", ErrExecQuery, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteHoliday - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrHolidayNotFound
	}
	return nil
}

// GetHolidaysInRange returns company holidays with dates in [start, end].
func (r *Repository) GetHolidaysInRange(ctx context.Context, companyID int64, start, end time.Time) ([]domain.Holiday, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "company_id", "holiday_date", "name", "created_at").
		From("holidays").
		Where(squirrel.Eq{"company_id": companyID}).
		Where(squirrel.GtOrEq{"holiday_date": domain.DateOnly(start)}).
		Where(squirrel.LtOrEq{"holiday_date": domain.DateOnly(end)}).
		OrderBy("holiday_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetHolidaysInRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetHolidaysInRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	holidays := make([]domain.Holiday, 0)
	for rows.Next() {
		var (
			h         domain.Holiday
			createdAt sql.NullTime
		)
		if err := rows.Scan(&h.ID, &h.CompanyID, &h.Date, &h.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: GetHolidaysInRange - scan row: %v", ErrScanRow, err)
		}
		h.CreatedAt = createdAt.Time
		holidays = append(holidays, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetHolidaysInRange - rows error: %v", ErrScanRow, err)
	}

	return holidays, nil
}

// CreateLeaveRequest inserts a pending leave request.
func (r *Repository) CreateLeaveRequest(ctx context.Context, l *domain.LeaveRequest) (*domain.LeaveRequest, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("leave_requests").
		Columns("company_id", "worker_id", "start_date", "end_date", "status", "reason").
		Values(l.CompanyID, l.WorkerID, domain.DateOnly(l.StartDate), domain.DateOnly(l.EndDate), l.Status, l.Reason).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateLeaveRequest - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&l.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: CreateLeaveRequest - execute insert: %v", ErrExecQuery, err)
	}
	l.CreatedAt = createdAt.Time
	l.UpdatedAt = updatedAt.Time

	return l, nil
}

// GetLeaveByID fetches one leave request.
func (r *Repository) GetLeaveByID(ctx context.Context, id int64) (*domain.LeaveRequest, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(leaveColumns...).
		From("leave_requests").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetLeaveByID - build select query: %v", ErrBuildQuery, err)
	}

	l, err := scanLeave(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrLeaveNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetLeaveByID - scan leave: %v", ErrScanRow, err)
	}
	return l, nil
}

// UpdateLeaveStatus applies the review decision. rejectionReason must be set
// when status is rejected; the service layer enforces that.
func (r *Repository) UpdateLeaveStatus(ctx context.Context, id int64, status domain.LeaveStatus, rejectionReason *string) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("leave_requests").
		Set("status", status).
		Set("rejection_reason", rejectionReason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateLeaveStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateLeaveStatus - execute update: %v", ErrExecQuery, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateLeaveStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrLeaveNotFound
	}
	return nil
}

// GetApprovedLeaveInRange returns the approved leave periods touching
// [start, end] for a worker (or the whole company when workerID is nil).
func (r *Repository) GetApprovedLeaveInRange(ctx context.Context, companyID int64, workerID *int64, start, end time.Time) ([]domain.LeaveRequest, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(leaveColumns...).
		From("leave_requests").
		Where(squirrel.Eq{"company_id": companyID, "status": domain.LeaveApproved}).
		Where(squirrel.LtOrEq{"start_date": domain.DateOnly(end)}).
		Where(squirrel.GtOrEq{"end_date": domain.DateOnly(start)})

	if workerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"worker_id": *workerID})
	}

	query, args, err := selectBuilder.OrderBy("start_date ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetApprovedLeaveInRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetApprovedLeaveInRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanLeaves(rows)
}

// ListLeaveRequests returns a company's leave requests, optionally filtered
// by status, newest first.
func (r *Repository) ListLeaveRequests(ctx context.Context, companyID int64, status *domain.LeaveStatus) ([]domain.LeaveRequest, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(leaveColumns...).
		From("leave_requests").
		Where(squirrel.Eq{"company_id": companyID})
	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListLeaveRequests - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListLeaveRequests - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanLeaves(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLeave(row rowScanner) (*domain.LeaveRequest, error) {
	var (
		l                    domain.LeaveRequest
		createdAt, updatedAt sql.NullTime
	)
	err := row.Scan(
		&l.ID,
		&l.CompanyID,
		&l.WorkerID,
		&l.StartDate,
		&l.EndDate,
		&l.Status,
		&l.Reason,
		&l.RejectionReason,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.CreatedAt = createdAt.Time
	l.UpdatedAt = updatedAt.Time
	return &l, nil
}

func scanLeaves(rows *sql.Rows) ([]domain.LeaveRequest, error) {
	leaves := make([]domain.LeaveRequest, 0)
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanLeaves - scan row: %v", ErrScanRow, err)
		}
		leaves = append(leaves, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanLeaves - rows error: %v", ErrScanRow, err)
	}
	return leaves, nil
}
