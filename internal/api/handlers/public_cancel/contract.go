package public_cancel

import (
	"context"

	"github.com/citaplan/scheduling-service/internal/service/appointments/models"
)

type AppointmentCanceller interface {
	GetByCancelToken(ctx context.Context, token string) (*models.AppointmentResponse, error)
	CancelByToken(ctx context.Context, token string, reason *string) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
