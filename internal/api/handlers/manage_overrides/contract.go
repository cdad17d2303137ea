package manage_overrides

import (
	"context"
	"time"

	"github.com/citaplan/scheduling-service/internal/domain"
)

type OverrideService interface {
	CreateHoliday(ctx context.Context, companyID int64, date time.Time, name *string) (*domain.Holiday, error)
	DeleteHoliday(ctx context.Context, companyID, id int64) error
	ListHolidays(ctx context.Context, companyID int64, start, end time.Time) ([]domain.Holiday, error)
	RequestLeave(ctx context.Context, companyID, workerID int64, startDate, endDate time.Time, reason *string) (*domain.LeaveRequest, error)
	ApproveLeave(ctx context.Context, companyID, id int64) error
	RejectLeave(ctx context.Context, companyID, id int64, reason *string) error
	ListLeaveRequests(ctx context.Context, companyID int64, status *domain.LeaveStatus) ([]domain.LeaveRequest, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
