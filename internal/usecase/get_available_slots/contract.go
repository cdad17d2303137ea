package get_available_slots

import (
	"context"
	"time"

	"github.com/citaplan/scheduling-service/internal/availability"
	"github.com/citaplan/scheduling-service/internal/domain"
)

// AvailabilityResolver resolves the requested day into open intervals.
type AvailabilityResolver interface {
	ResolveDay(ctx context.Context, companyID, workerID int64, date time.Time) (*availability.DayAvailability, error)
}

// AppointmentRepository supplies the confirmed appointments blocking slots.
type AppointmentRepository interface {
	GetConfirmedForWorkerDate(ctx context.Context, workerID int64, date time.Time) ([]*domain.Appointment, error)
}

// ServiceRepository supplies the service whose duration sizes the slots.
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// SettingsRepository supplies the worker's slot granularity.
type SettingsRepository interface {
	GetWorkerSettings(ctx context.Context, companyID, workerID int64) (*domain.WorkerSettings, error)
}

// SlotCache keeps generated slot lists hot for a short TTL. nil-safe wiring
// is the caller's problem; the usecase treats cache errors as misses.
type SlotCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
}

// TimeProvider abstracts the clock (swapped out in tests).
type TimeProvider interface {
	Now() time.Time
}

// Logger is the logging surface the usecase needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider is the production clock.
type RealTimeProvider struct{}

// Now returns the current time.
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
