package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/citaplan/scheduling-service/internal/domain"
	overrideRepo "github.com/citaplan/scheduling-service/internal/infra/storage/override"
)

// Service manages weekly schedules, per-worker settings, holidays and the
// leave request lifecycle.
type Service struct {
	scheduleRepo ScheduleRepository
	overrideRepo OverrideRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService creates the schedule management service.
func NewService(
	scheduleRepo ScheduleRepository,
	overrideRepo OverrideRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		overrideRepo: overrideRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetWorkerSchedule returns the worker's weekly intervals, falling back to
// the company default when the worker has none.
func (s *Service) GetWorkerSchedule(ctx context.Context, companyID, workerID int64) ([]domain.ScheduleInterval, error) {
	intervals, err := s.scheduleRepo.GetForWorker(ctx, companyID, workerID)
	if err != nil {
		s.logger.Error("GetWorkerSchedule: repository error for worker=%d: %v", workerID, err)
		return nil, fmt.Errorf("%w: GetWorkerSchedule - repository error: %v", ErrInternal, err)
	}
	if len(intervals) > 0 {
		return intervals, nil
	}

	fallback, err := s.scheduleRepo.GetCompanyDefault(ctx, companyID)
	if err != nil {
		s.logger.Error("GetWorkerSchedule: fallback error for company=%d: %v", companyID, err)
		return nil, fmt.Errorf("%w: GetWorkerSchedule - fallback error: %v", ErrInternal, err)
	}
	return fallback, nil
}

// ReplaceSchedule swaps the full weekly schedule of a worker, or of the
// company fallback when workerID is nil. Overlapping intervals are rejected
// before anything is written, never silently merged.
func (s *Service) ReplaceSchedule(ctx context.Context, companyID int64, workerID *int64, intervals []domain.ScheduleInterval) error {
	for i := range intervals {
		if err := intervals[i].StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: interval %d start: %v", ErrInvalidInput, i, err)
		}
		if err := intervals[i].EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: interval %d end: %v", ErrInvalidInput, i, err)
		}
		if !intervals[i].EndTime.IsAfter(intervals[i].StartTime) {
			return fmt.Errorf("%w: interval %d end %s not after start %s",
				ErrInvalidInput, i, intervals[i].EndTime, intervals[i].StartTime)
		}
	}

	if err := domain.ValidateIntervalsNoOverlap(intervals); err != nil {
		s.logger.Warn("ReplaceSchedule: overlap rejected for company=%d: %v", companyID, err)
		return fmt.Errorf("%w: %v", ErrScheduleOverlap, err)
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.scheduleRepo.ReplaceForWorker(txCtx, companyID, workerID, intervals)
	})
	if err != nil {
		s.logger.Error("ReplaceSchedule: replace failed for company=%d: %v", companyID, err)
		return fmt.Errorf("%w: ReplaceSchedule - replace failed: %v", ErrInternal, err)
	}

	s.logger.Info("ReplaceSchedule: company=%d worker=%v now has %d intervals", companyID, workerID, len(intervals))
	return nil
}

// GetWorkerSettings returns the worker's scheduling knobs, defaults included.
func (s *Service) GetWorkerSettings(ctx context.Context, companyID, workerID int64) (*domain.WorkerSettings, error) {
	settings, err := s.scheduleRepo.GetWorkerSettings(ctx, companyID, workerID)
	if err != nil {
		s.logger.Error("GetWorkerSettings: repository error for worker=%d: %v", workerID, err)
		return nil, fmt.Errorf("%w: GetWorkerSettings - repository error: %v", ErrInternal, err)
	}
	return settings, nil
}

// UpdateGranularity sets the worker's slot step.
func (s *Service) UpdateGranularity(ctx context.Context, companyID, workerID int64, minutes int) error {
	if minutes < domain.MinSlotGranularityMinutes || minutes > domain.MaxSlotGranularityMinutes {
		return fmt.Errorf("%w: granularity %d out of range [%d, %d]",
			ErrInvalidInput, minutes, domain.MinSlotGranularityMinutes, domain.MaxSlotGranularityMinutes)
	}

	settings := &domain.WorkerSettings{
		WorkerID:               workerID,
		CompanyID:              companyID,
		SlotGranularityMinutes: minutes,
	}
	if err := s.scheduleRepo.UpsertWorkerSettings(ctx, settings); err != nil {
		s.logger.Error("UpdateGranularity: upsert failed for worker=%d: %v", workerID, err)
		return fmt.Errorf("%w: UpdateGranularity - upsert failed: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateGranularity: worker=%d now steps every %d minutes", workerID, minutes)
	return nil
}

// CreateHoliday blocks one date for the whole company.
func (s *Service) CreateHoliday(ctx context.Context, companyID int64, date time.Time, name *string) (*domain.Holiday, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	holiday, err := s.overrideRepo.CreateHoliday(ctx, &domain.Holiday{
		CompanyID: companyID,
		Date:      domain.DateOnly(date),
		Name:      name,
	})
	if err != nil {
		s.logger.Error("CreateHoliday: create failed for company=%d: %v", companyID, err)
		return nil, fmt.Errorf("%w: CreateHoliday - create failed: %v", ErrInternal, err)
	}

	s.logger.Info("CreateHoliday: company=%d blocked %s", companyID, holiday.Date.Format(domain.DateFormat))
	return holiday, nil
}

// DeleteHoliday unblocks a company holiday.
func (s *Service) DeleteHoliday(ctx context.Context, companyID, id int64) error {
	err := s.overrideRepo.DeleteHoliday(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, overrideRepo.ErrHolidayNotFound) {
			return ErrHolidayNotFound
		}
		s.logger.Error("DeleteHoliday: delete failed for holiday=%d: %v", id, err)
		return fmt.Errorf("%w: DeleteHoliday - delete failed: %v", ErrInternal, err)
	}
	return nil
}

// ListHolidays returns the company's holidays within a range.
func (s *Service) ListHolidays(ctx context.Context, companyID int64, start, end time.Time) ([]domain.Holiday, error) {
	holidays, err := s.overrideRepo.GetHolidaysInRange(ctx, companyID, start, end)
	if err != nil {
		s.logger.Error("ListHolidays: repository error for company=%d: %v", companyID, err)
		return nil, fmt.Errorf("%w: ListHolidays - repository error: %v", ErrInternal, err)
	}
	return holidays, nil
}

// RequestLeave files a pending leave request for a worker.
func (s *Service) RequestLeave(ctx context.Context, companyID, workerID int64, startDate, endDate time.Time, reason *string) (*domain.LeaveRequest, error) {
	if startDate.IsZero() || endDate.IsZero() {
		return nil, fmt.Errorf("%w: start and end dates are required", ErrInvalidInput)
	}
	if domain.DateOnly(endDate).Before(domain.DateOnly(startDate)) {
		return nil, fmt.Errorf("%w: end date before start date", ErrInvalidInput)
	}

	leave, err := s.overrideRepo.CreateLeaveRequest(ctx, &domain.LeaveRequest{
		CompanyID: companyID,
		WorkerID:  workerID,
		StartDate: domain.DateOnly(startDate),
		EndDate:   domain.DateOnly(endDate),
		Status:    domain.LeavePending,
		Reason:    reason,
	})
	if err != nil {
		s.logger.Error("RequestLeave: create failed for worker=%d: %v", workerID, err)
		return nil, fmt.Errorf("%w: RequestLeave - create failed: %v", ErrInternal, err)
	}

	s.logger.Info("RequestLeave: worker=%d requested %s to %s",
		workerID, leave.StartDate.Format(domain.DateFormat), leave.EndDate.Format(domain.DateFormat))
	return leave, nil
}

// ApproveLeave moves a pending request to approved, blocking its dates.
func (s *Service) ApproveLeave(ctx context.Context, companyID, id int64) error {
	return s.decideLeave(ctx, companyID, id, domain.LeaveApproved, nil)
}

// RejectLeave moves a pending request to rejected. The reason is mandatory,
// the worker sees it.
func (s *Service) RejectLeave(ctx context.Context, companyID, id int64, reason *string) error {
	if reason == nil || *reason == "" {
		return ErrRejectionReasonRequired
	}
	return s.decideLeave(ctx, companyID, id, domain.LeaveRejected, reason)
}

// ListLeaveRequests returns the company's leave requests, optionally by status.
func (s *Service) ListLeaveRequests(ctx context.Context, companyID int64, status *domain.LeaveStatus) ([]domain.LeaveRequest, error) {
	leaves, err := s.overrideRepo.ListLeaveRequests(ctx, companyID, status)
	if err != nil {
		s.logger.Error("ListLeaveRequests: repository error for company=%d: %v", companyID, err)
		return nil, fmt.Errorf("%w: ListLeaveRequests - repository error: %v", ErrInternal, err)
	}
	return leaves, nil
}

func (s *Service) decideLeave(ctx context.Context, companyID, id int64, to domain.LeaveStatus, rejectionReason *string) error {
	leave, err := s.overrideRepo.GetLeaveByID(ctx, id)
	if err != nil {
		if errors.Is(err, overrideRepo.ErrLeaveNotFound) {
			return ErrLeaveNotFound
		}
		s.logger.Error("decideLeave: repository error for leave=%d: %v", id, err)
		return fmt.Errorf("%w: decideLeave - repository error: %v", ErrInternal, err)
	}
	if leave.CompanyID != companyID {
		return ErrLeaveNotFound
	}
	if leave.Status != domain.LeavePending {
		s.logger.Warn("decideLeave: leave=%d already %s", id, leave.Status)
		return ErrLeaveAlreadyDecided
	}

	if err := s.overrideRepo.UpdateLeaveStatus(ctx, id, to, rejectionReason); err != nil {
		s.logger.Error("decideLeave: update failed for leave=%d: %v", id, err)
		return fmt.Errorf("%w: decideLeave - update failed: %v", ErrInternal, err)
	}

	s.logger.Info("decideLeave: leave=%d is now %s", id, to)
	return nil
}
