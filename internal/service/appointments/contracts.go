package appointments

import (
	"context"

	"github.com/citaplan/scheduling-service/internal/domain"
	"github.com/citaplan/scheduling-service/internal/service/conflicts"
)

// AppointmentRepository is the storage surface of the lifecycle service.
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByCancelToken(ctx context.Context, token string) (*domain.Appointment, error)
	GetWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus, reason *string, paymentType *domain.PaymentType) error
}

// ConflictGuard re-validates the slot when a terminal appointment reopens.
type ConflictGuard interface {
	Check(ctx context.Context, candidate conflicts.Candidate) ([]string, error)
}

// TransactionManager wraps transitions that must read and write atomically.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger is the logging surface the service needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
