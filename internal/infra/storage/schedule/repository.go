package schedule

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

var scheduleColumns = []string{
	"id",
	"company_id",
	"worker_id",
	"weekday",
	"start_time",
	"end_time",
	"created_at",
	"updated_at",
}

// Repository persists weekly schedules and per-worker settings.
type Repository struct {
	db txmanager.Executor
}

// NewRepository creates a schedule repository over db.
func NewRepository(db txmanager.Executor) *Repository {
	return &Repository{db: db}
}

// GetForWorker returns the worker's weekly intervals. An empty result means
// the caller should fall back to the company schedule.
func (r *Repository) GetForWorker(ctx context.Context, companyID, workerID int64) ([]domain.ScheduleInterval, error) {
	return r.get(ctx, squirrel.Eq{"company_id": companyID, "worker_id": workerID})
}

// GetCompanyDefault returns the company-wide fallback schedule
// (rows with NULL worker_id).
func (r *Repository) GetCompanyDefault(ctx context.Context, companyID int64) ([]domain.ScheduleInterval, error) {
	return r.get(ctx, squirrel.Eq{"company_id": companyID, "worker_id": nil})
}

func (r *Repository) get(ctx context.Context, where squirrel.Eq) ([]domain.ScheduleInterval, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(scheduleColumns...).
		From("weekly_schedules").
		Where(where).
		OrderBy("weekday ASC, start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: get - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: get - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanIntervals(rows)
}

// ReplaceForWorker swaps a worker's full weekly schedule in one shot.
// Overlap validation happens in the service layer before this is called; the
// replace itself runs inside the caller's transaction.
func (r *Repository) ReplaceForWorker(ctx context.Context, companyID int64, workerID *int64, intervals []domain.ScheduleInterval) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("weekly_schedules").
		Where(squirrel.Eq{"company_id": companyID, "worker_id": workerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceForWorker - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceForWorker - execute delete: %v", ErrExecQuery, err)
	}

	if len(intervals) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("weekly_schedules").
		Columns("company_id", "worker_id", "weekday", "start_time", "end_time")
	for _, iv := range intervals {
		insertBuilder = insertBuilder.Values(companyID, workerID, int(iv.Weekday), iv.StartTime, iv.EndTime)
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceForWorker - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceForWorker - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetWorkerIDs lists the workers that have their own schedule rows in the
// company. Feeds the whole-company calendar aggregate.
func (r *Repository) GetWorkerIDs(ctx context.Context, companyID int64) ([]int64, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("DISTINCT worker_id").
		From("weekly_schedules").
		Where(squirrel.Eq{"company_id": companyID}).
		Where(squirrel.NotEq{"worker_id": nil}).
		OrderBy("worker_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkerIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkerIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: GetWorkerIDs - scan worker_id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWorkerIDs - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

// GetWorkerSettings returns the worker's scheduling settings, or defaults
// when no row exists.
func (r *Repository) GetWorkerSettings(ctx context.Context, companyID, workerID int64) (*domain.WorkerSettings, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("worker_id", "company_id", "slot_granularity_minutes").
		From("worker_settings").
		Where(squirrel.Eq{"company_id": companyID, "worker_id": workerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkerSettings - build select query: %v", ErrBuildQuery, err)
	}

	var settings domain.WorkerSettings
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&settings.WorkerID,
		&settings.CompanyID,
		&settings.SlotGranularityMinutes,
	)
	if err == sql.ErrNoRows {
		return &domain.WorkerSettings{
			WorkerID:               workerID,
			CompanyID:              companyID,
			SlotGranularityMinutes: domain.DefaultSlotGranularityMinutes,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkerSettings - scan settings: %v", ErrScanRow, err)
	}

	return &settings, nil
}

// UpsertWorkerSettings writes the worker's scheduling settings.
func (r *Repository) UpsertWorkerSettings(ctx context.Context, settings *domain.WorkerSettings) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("worker_settings").
		Columns("worker_id", "company_id", "slot_granularity_minutes").
		Values(settings.WorkerID, settings.CompanyID, settings.SlotGranularityMinutes).
		Suffix("ON CONFLICT (company_id, worker_id) DO UPDATE SET slot_granularity_minutes = EXCLUDED.slot_granularity_minutes").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpsertWorkerSettings - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpsertWorkerSettings - execute upsert: %v", ErrExecQuery, err)
	}
	return nil
}

func scanIntervals(rows *sql.Rows) ([]domain.ScheduleInterval, error) {
	intervals := make([]domain.ScheduleInterval, 0)

	for rows.Next() {
		var (
			iv                   domain.ScheduleInterval
			weekday              int
			createdAt, updatedAt sql.NullTime
		)
		err := rows.Scan(
			&iv.ID,
			&iv.CompanyID,
			&iv.WorkerID,
			&weekday,
			&iv.StartTime,
			&iv.EndTime,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanIntervals - scan row: %v", ErrScanRow, err)
		}

		iv.Weekday = time.Weekday(weekday)
		iv.CreatedAt = createdAt.Time
		iv.UpdatedAt = updatedAt.Time
		intervals = append(intervals, iv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanIntervals - rows error: %v", ErrScanRow, err)
	}

	return intervals, nil
}
