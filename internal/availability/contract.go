package availability

import (
	"context"
	"time"

	"github.com/citaplan/scheduling-service/internal/domain"
)

// ScheduleRepository supplies weekly schedules.
type ScheduleRepository interface {
	GetForWorker(ctx context.Context, companyID, workerID int64) ([]domain.ScheduleInterval, error)
	GetCompanyDefault(ctx context.Context, companyID int64) ([]domain.ScheduleInterval, error)
	GetWorkerIDs(ctx context.Context, companyID int64) ([]int64, error)
}

// OverrideRepository supplies date overrides.
type OverrideRepository interface {
	GetHolidaysInRange(ctx context.Context, companyID int64, start, end time.Time) ([]domain.Holiday, error)
	GetApprovedLeaveInRange(ctx context.Context, companyID int64, workerID *int64, start, end time.Time) ([]domain.LeaveRequest, error)
}

// Logger is the logging surface the resolver needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
