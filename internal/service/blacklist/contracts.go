package blacklist

import (
	"context"

	"github.com/citaplan/scheduling-service/internal/domain"
)

// BlacklistRepository persists company blacklists.
type BlacklistRepository interface {
	Create(ctx context.Context, entry *domain.BlacklistEntry) (*domain.BlacklistEntry, error)
	Deactivate(ctx context.Context, companyID, id int64) error
	ListByCompany(ctx context.Context, companyID int64, activeOnly bool) ([]domain.BlacklistEntry, error)
}

// TransactionManager keeps the duplicate check and the insert atomic.
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger is the logging surface the service needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
