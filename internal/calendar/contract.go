package calendar

import (
	"context"
	"time"

	"github.com/citaplan/scheduling-service/internal/availability"
	"github.com/citaplan/scheduling-service/internal/domain"
	"github.com/citaplan/scheduling-service/internal/infra/changefeed"
)

// AppointmentRepository supplies the appointments to materialize.
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

// ServiceRepository supplies services for phase expansion.
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// AvailabilityResolver supplies blocked days and open intervals for the
// background layer.
type AvailabilityResolver interface {
	ResolveRange(ctx context.Context, companyID, workerID int64, start, end time.Time) ([]availability.DayAvailability, error)
	ResolveRangeForCompany(ctx context.Context, companyID int64, start, end time.Time) ([]availability.DayAvailability, error)
}

// PhaseExpander turns one appointment into its calendar blocks.
type PhaseExpander interface {
	Expand(appointment *domain.Appointment, service *domain.Service) ([]domain.CalendarEvent, error)
}

// FeedSubscriber delivers appointment mutations for live patching.
type FeedSubscriber interface {
	Subscribe(ctx context.Context, workerID *int64) <-chan changefeed.Event
}

// Logger is the logging surface the calendar needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
