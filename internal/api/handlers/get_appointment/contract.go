package get_appointment

import (
	"context"

	"github.com/citaplan/scheduling-service/internal/service/appointments/models"
)

type AppointmentReader interface {
	GetByID(ctx context.Context, companyID, id int64) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
