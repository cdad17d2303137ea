package transition_appointment

import (
	"context"

	"github.com/citaplan/scheduling-service/internal/service/appointments/models"
)

type AppointmentLifecycle interface {
	Cancel(ctx context.Context, companyID, id int64, reason *string) (*models.AppointmentResponse, error)
	Complete(ctx context.Context, companyID, id int64, paymentType string) (*models.AppointmentResponse, error)
	Annul(ctx context.Context, companyID, id int64, reason *string) (*models.AppointmentResponse, error)
	Reopen(ctx context.Context, companyID, id int64) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
