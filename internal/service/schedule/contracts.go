package schedule

import (
	"context"
	"time"

	"github.com/citaplan/scheduling-service/internal/domain"
)

// ScheduleRepository persists weekly schedules and worker settings.
type ScheduleRepository interface {
	GetForWorker(ctx context.Context, companyID, workerID int64) ([]domain.ScheduleInterval, error)
	GetCompanyDefault(ctx context.Context, companyID int64) ([]domain.ScheduleInterval, error)
	ReplaceForWorker(ctx context.Context, companyID int64, workerID *int64, intervals []domain.ScheduleInterval) error
	GetWorkerSettings(ctx context.Context, companyID, workerID int64) (*domain.WorkerSettings, error)
	UpsertWorkerSettings(ctx context.Context, settings *domain.WorkerSettings) error
}

// OverrideRepository persists holidays and leave requests.
type OverrideRepository interface {
	CreateHoliday(ctx context.Context, h *domain.Holiday) (*domain.Holiday, error)
	DeleteHoliday(ctx context.Context, companyID, id int64) error
	GetHolidaysInRange(ctx context.Context, companyID int64, start, end time.Time) ([]domain.Holiday, error)
	CreateLeaveRequest(ctx context.Context, l *domain.LeaveRequest) (*domain.LeaveRequest, error)
	GetLeaveByID(ctx context.Context, id int64) (*domain.LeaveRequest, error)
	UpdateLeaveStatus(ctx context.Context, id int64, status domain.LeaveStatus, rejectionReason *string) error
	ListLeaveRequests(ctx context.Context, companyID int64, status *domain.LeaveStatus) ([]domain.LeaveRequest, error)
}

// TransactionManager wraps the schedule replacement so validation, delete
// and insert act on one snapshot.
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger is the logging surface the service needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
