package create_appointment

import (
	"context"
	"time"

	"github.com/citaplan/scheduling-service/internal/domain"
	"github.com/citaplan/scheduling-service/internal/service/conflicts"
	"github.com/citaplan/scheduling-service/pkg/types"
)

// AppointmentRepository persists the created appointment.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
}

// ServiceRepository supplies the booked service and its phases.
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// ConflictGuard runs the full pre-booking check chain.
type ConflictGuard interface {
	Check(ctx context.Context, candidate conflicts.Candidate) ([]string, error)
}

// PhaseExpander derives the authoritative end time from the service phases.
type PhaseExpander interface {
	EffectiveEndTime(service *domain.Service, startTime types.TimeString) (types.TimeString, error)
}

// Mailer sends the confirmation message. Failures must not fail the booking.
type Mailer interface {
	SendConfirmation(appt *domain.Appointment) error
}

// TransactionManager runs the guard and the insert atomically.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
