package conflicts

import (
	"context"
	"time"

	"github.com/citaplan/scheduling-service/internal/availability"
	"github.com/citaplan/scheduling-service/internal/domain"
)

// AvailabilityResolver resolves the day the candidate wants to book.
type AvailabilityResolver interface {
	ResolveDay(ctx context.Context, companyID, workerID int64, date time.Time) (*availability.DayAvailability, error)
}

// AppointmentRepository supplies the confirmed appointments the candidate
// must not overlap. Inside a transaction the rows come back locked.
type AppointmentRepository interface {
	GetConfirmedForWorkerDate(ctx context.Context, workerID int64, date time.Time) ([]*domain.Appointment, error)
}

// BlacklistRepository checks the candidate's contact data on creation.
type BlacklistRepository interface {
	FindActiveMatch(ctx context.Context, companyID int64, phone string, email *string) ([]domain.BlacklistEntry, error)
}

// TimeProvider abstracts the clock for the past-time check.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider is the production clock.
type RealTimeProvider struct{}

// Now returns the current time.
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger is the logging surface the guard needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}
