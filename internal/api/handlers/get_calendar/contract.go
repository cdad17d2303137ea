package get_calendar

import (
	"context"
	"time"

	"github.com/citaplan/scheduling-service/internal/domain"
)

type CalendarMaterializer interface {
	FetchRange(ctx context.Context, companyID int64, workerID *int64, start, end time.Time) ([]domain.CalendarEvent, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
