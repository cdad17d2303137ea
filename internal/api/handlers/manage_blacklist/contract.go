package manage_blacklist

import (
	"context"

	"github.com/citaplan/scheduling-service/internal/domain"
)

type BlacklistService interface {
	Add(ctx context.Context, companyID int64, phone, email, reason *string) (*domain.BlacklistEntry, error)
	Remove(ctx context.Context, companyID, id int64) error
	List(ctx context.Context, companyID int64, activeOnly bool) ([]domain.BlacklistEntry, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
