package appointment

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/citaplan/scheduling-service/internal/domain"
	"github.com/citaplan/scheduling-service/pkg/psqlbuilder"
	"github.com/citaplan/scheduling-service/pkg/txmanager"
	"github.com/citaplan/scheduling-service/pkg/types"
)

// FeedChannel is the pg_notify channel carrying appointment mutations.
// Listeners receive one JSON payload per committed insert/update.
const FeedChannel = "appointment_events"

var appointmentColumns = []string{
	"id",
	"company_id",
	"worker_id",
	"service_id",
	"contact_phone",
	"contact_email",
	"appointment_date",
	"start_time",
	"end_time",
	"status",
	"payment_type",
	"price",
	"cancellation_reason",
	"annulment_reason",
	"observations",
	"service_name",
	"cancel_token",
	"created_at",
	"updated_at",
}

// Repository persists appointments.
type Repository struct {
	db txmanager.Executor
}

// NewRepository creates an appointment repository over db.
func NewRepository(db txmanager.Executor) *Repository {
	return &Repository{db: db}
}

// Create inserts a new appointment and emits an insert feed event.
// Callers that need slot re-validation run this inside a serializable
// transaction together with GetConfirmedForWorkerDate.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"company_id",
			"worker_id",
			"service_id",
			"contact_phone",
			"contact_email",
			"appointment_date",
			"start_time",
			"end_time",
			"status",
			"price",
			"observations",
			"service_name",
			"cancel_token",
		).
		Values(
			appt.CompanyID,
			appt.WorkerID,
			appt.ServiceID,
			appt.ContactPhone,
			appt.ContactEmail,
			appt.Date,
			appt.StartTime,
			appt.EndTime,
			appt.Status,
			appt.Price,
			appt.Observations,
			appt.ServiceName,
			appt.CancelToken,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&appt.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	if err := r.notify(ctx, executor, "insert", appt.ID, appt.WorkerID); err != nil {
		return nil, err
	}

	return appt, nil
}

// GetByID fetches one appointment by primary key.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, false)
}

// GetByIDForUpdate fetches one appointment locking the row. Only meaningful
// inside a transaction; used by the move/reopen paths.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Appointment, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, txmanager.IsInTransaction(ctx))
}

// GetByCancelToken fetches the appointment behind a capability token.
func (r *Repository) GetByCancelToken(ctx context.Context, token string) (*domain.Appointment, error) {
	return r.getOne(ctx, squirrel.Eq{"cancel_token": token}, false)
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq, forUpdate bool) (*domain.Appointment, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(where)
	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - scan appointment: %v", ErrScanRow, err)
	}
	return appt, nil
}

// GetConfirmedForWorkerDate returns the confirmed appointments of one worker
// on one date, ordered by start time. Inside a transaction the rows are
// locked with FOR UPDATE so concurrent bookings of the same worker+date
// serialize.
func (r *Repository) GetConfirmedForWorkerDate(ctx context.Context, workerID int64, date time.Time) ([]*domain.Appointment, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{
			"worker_id":        workerID,
			"appointment_date": domain.DateOnly(date),
			"status":           domain.StatusConfirmed,
		}).
		OrderBy("start_time ASC")

	if txmanager.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetConfirmedForWorkerDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetConfirmedForWorkerDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// GetWithFilter returns company appointments narrowed by the filter.
func (r *Repository) GetWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"company_id": filter.CompanyID})

	if filter.WorkerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"worker_id": *filter.WorkerID})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"appointment_date": domain.DateOnly(*filter.StartDate)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"appointment_date": domain.DateOnly(*filter.EndDate)})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if filter.ConfirmedOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": domain.StatusConfirmed})
	}

	// Single-date queries feed calendar/slot views and sort chronologically;
	// history queries show newest first.
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate) {
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("appointment_date DESC, start_time DESC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// UpdateStatus applies a status change and its reason/payment side effects in
// one row update. Reopening clears both reasons.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus, reason *string, paymentType *domain.PaymentType) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	switch status {
	case domain.StatusCancelled:
		updateBuilder = updateBuilder.Set("cancellation_reason", reason)
	case domain.StatusAnnulled:
		updateBuilder = updateBuilder.Set("annulment_reason", reason)
	case domain.StatusCompleted:
		updateBuilder = updateBuilder.Set("payment_type", paymentType)
	case domain.StatusConfirmed:
		updateBuilder = updateBuilder.
			Set("cancellation_reason", nil).
			Set("annulment_reason", nil)
	}

	return r.execUpdate(ctx, executor, updateBuilder, "UpdateStatus", id)
}

// UpdateSchedule rewrites date/start/end/observations in place (a move).
// Status is untouched.
func (r *Repository) UpdateSchedule(ctx context.Context, id int64, date time.Time, start, end types.TimeString, observations *string) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("appointments").
		Set("appointment_date", domain.DateOnly(date)).
		Set("start_time", start).
		Set("end_time", end).
		Set("observations", observations).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	return r.execUpdate(ctx, executor, updateBuilder, "UpdateSchedule", id)
}

func (r *Repository) execUpdate(ctx context.Context, executor txmanager.Executor, updateBuilder squirrel.UpdateBuilder, op string, id int64) error {
	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	// Deletion never happens for appointments, so the feed only carries
	// insert and update events.
	workerID, err := r.workerIDOf(ctx, executor, id)
	if err != nil {
		return err
	}
	return r.notify(ctx, executor, "update", id, workerID)
}

func (r *Repository) workerIDOf(ctx context.Context, executor txmanager.Executor, id int64) (int64, error) {
	query, args, err := psqlbuilder.Select("worker_id").
		From("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: workerIDOf - build select query: %v", ErrBuildQuery, err)
	}

	var workerID int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&workerID); err != nil {
		return 0, fmt.Errorf("%w: workerIDOf - scan: %v", ErrScanRow, err)
	}
	return workerID, nil
}

// notify publishes a feed event. Inside a transaction Postgres delivers the
// notification only on commit, so listeners never see rolled-back mutations.
func (r *Repository) notify(ctx context.Context, executor txmanager.Executor, eventType string, id, workerID int64) error {
	payload, err := json.Marshal(map[string]interface{}{
		"event_type":     eventType,
		"appointment_id": id,
		"worker_id":      workerID,
	})
	if err != nil {
		return fmt.Errorf("%w: notify - marshal payload: %v", ErrExecQuery, err)
	}

	if _, err := executor.ExecContext(ctx, "SELECT pg_notify($1, $2)", FeedChannel, string(payload)); err != nil {
		return fmt.Errorf("%w: notify - pg_notify: %v", ErrExecQuery, err)
	}
	return nil
}

// GetConfirmedStartingBetween returns confirmed appointments starting inside
// [from, to) on from's date. Used by the reminder job.
func (r *Repository) GetConfirmedStartingBetween(ctx context.Context, from, to time.Time) ([]*domain.Appointment, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		Where(squirrel.Eq{"appointment_date": domain.DateOnly(from)}).
		Where(squirrel.GtOrEq{"start_time": types.NewTimeString(from)}).
		Where(squirrel.Lt{"start_time": types.NewTimeString(to)}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetConfirmedStartingBetween - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetConfirmedStartingBetween - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		appt                 domain.Appointment
		paymentType          sql.NullString
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&appt.ID,
		&appt.CompanyID,
		&appt.WorkerID,
		&appt.ServiceID,
		&appt.ContactPhone,
		&appt.ContactEmail,
		&appt.Date,
		&appt.StartTime,
		&appt.EndTime,
		&appt.Status,
		&paymentType,
		&appt.Price,
		&appt.CancellationReason,
		&appt.AnnulmentReason,
		&appt.Observations,
		&appt.ServiceName,
		&appt.CancelToken,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if paymentType.Valid {
		pt := domain.PaymentType(paymentType.String)
		appt.PaymentType = &pt
	}
	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}

func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}
