package move_appointment

import (
	"context"
	"time"

	"github.com/citaplan/scheduling-service/internal/domain"
	"github.com/citaplan/scheduling-service/internal/service/conflicts"
	"github.com/citaplan/scheduling-service/pkg/types"
)

// AppointmentRepository loads and reschedules appointments.
type AppointmentRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Appointment, error)
	UpdateSchedule(ctx context.Context, id int64, date time.Time, start, end types.TimeString, observations *string) error
}

// ServiceRepository supplies the service so the end time can be recomputed.
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// ConflictGuard re-runs the conflict chain at the target slot.
type ConflictGuard interface {
	Check(ctx context.Context, candidate conflicts.Candidate) ([]string, error)
}

// PhaseExpander derives the authoritative end time from the service phases.
type PhaseExpander interface {
	EffectiveEndTime(service *domain.Service, startTime types.TimeString) (types.TimeString, error)
}

// TransactionManager runs the guard and the update atomically.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger is the logging surface the usecase needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
