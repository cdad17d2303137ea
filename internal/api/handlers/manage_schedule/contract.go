package manage_schedule

import (
	"context"

	"github.com/citaplan/scheduling-service/internal/domain"
)

type ScheduleService interface {
	GetWorkerSchedule(ctx context.Context, companyID, workerID int64) ([]domain.ScheduleInterval, error)
	ReplaceSchedule(ctx context.Context, companyID int64, workerID *int64, intervals []domain.ScheduleInterval) error
	GetWorkerSettings(ctx context.Context, companyID, workerID int64) (*domain.WorkerSettings, error)
	UpdateGranularity(ctx context.Context, companyID, workerID int64, minutes int) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
