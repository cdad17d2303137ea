package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/citaplan/scheduling-service/internal/domain"
)

// DayAvailability is the resolved availability of one worker on one date:
// either blocked (with a reason tag, and the leave note when one exists) or
// a list of open intervals sorted by start time.
type DayAvailability struct {
	Date        time.Time
	WorkerID    int64
	Blocked     bool
	Reason      domain.BlockReason // set when Blocked
	LeaveReason *string            // original leave note, surfaced for display
	Intervals   []domain.ScheduleInterval
}

// Resolver turns weekly schedules and date overrides into per-date open
// intervals. Any single blocking source (holiday, approved leave, empty
// weekday schedule) blocks the whole date.
type Resolver struct {
	scheduleRepo ScheduleRepository
	overrideRepo OverrideRepository
	logger       Logger
}

// NewResolver creates an availability resolver.
func NewResolver(scheduleRepo ScheduleRepository, overrideRepo OverrideRepository, logger Logger) *Resolver {
	return &Resolver{
		scheduleRepo: scheduleRepo,
		overrideRepo: overrideRepo,
		logger:       logger,
	}
}

// ResolveDay resolves one worker's availability for one date.
func (r *Resolver) ResolveDay(ctx context.Context, companyID, workerID int64, date time.Time) (*DayAvailability, error) {
	days, err := r.ResolveRange(ctx, companyID, workerID, date, date)
	if err != nil {
		return nil, err
	}
	return &days[0], nil
}

// ResolveRange resolves one worker's availability for every date in
// [start, end], inclusive.
func (r *Resolver) ResolveRange(ctx context.Context, companyID, workerID int64, start, end time.Time) ([]DayAvailability, error) {
	intervals, err := r.workerSchedule(ctx, companyID, workerID)
	if err != nil {
		return nil, err
	}

	holidays, err := r.overrideRepo.GetHolidaysInRange(ctx, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("availability: holidays for company=%d: %w", companyID, err)
	}

	leaves, err := r.overrideRepo.GetApprovedLeaveInRange(ctx, companyID, &workerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("availability: leave for worker=%d: %w", workerID, err)
	}

	return resolveDays(workerID, start, end, intervals, holidays, leaves), nil
}

// ResolveRangeForCompany resolves every scheduled worker of the company
// independently. Intervals of different workers are never merged; the
// aggregate calendar needs each worker's blocks individually addressable.
func (r *Resolver) ResolveRangeForCompany(ctx context.Context, companyID int64, start, end time.Time) ([]DayAvailability, error) {
	workerIDs, err := r.scheduleRepo.GetWorkerIDs(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("availability: workers of company=%d: %w", companyID, err)
	}

	all := make([]DayAvailability, 0, len(workerIDs))
	for _, workerID := range workerIDs {
		days, err := r.ResolveRange(ctx, companyID, workerID, start, end)
		if err != nil {
			return nil, err
		}
		all = append(all, days...)
	}

	return all, nil
}

// workerSchedule returns the worker's own intervals, falling back to the
// company-wide schedule when the worker has none at all.
func (r *Resolver) workerSchedule(ctx context.Context, companyID, workerID int64) ([]domain.ScheduleInterval, error) {
	intervals, err := r.scheduleRepo.GetForWorker(ctx, companyID, workerID)
	if err != nil {
		return nil, fmt.Errorf("availability: schedule for worker=%d: %w", workerID, err)
	}
	if len(intervals) > 0 {
		return intervals, nil
	}

	fallback, err := r.scheduleRepo.GetCompanyDefault(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("availability: company schedule for company=%d: %w", companyID, err)
	}
	if len(fallback) > 0 {
		r.logger.Info("availability: worker=%d has no own schedule, using company=%d fallback", workerID, companyID)
	}
	return fallback, nil
}

// resolveDays is the pure core of the resolver.
func resolveDays(
	workerID int64,
	start, end time.Time,
	intervals []domain.ScheduleInterval,
	holidays []domain.Holiday,
	leaves []domain.LeaveRequest,
) []DayAvailability {
	holidayDates := make(map[time.Time]bool, len(holidays))
	for _, h := range holidays {
		holidayDates[domain.DateOnly(h.Date)] = true
	}

	byWeekday := make(map[time.Weekday][]domain.ScheduleInterval)
	for _, iv := range intervals {
		byWeekday[iv.Weekday] = append(byWeekday[iv.Weekday], iv)
	}

	days := make([]DayAvailability, 0)
	for date := domain.DateOnly(start); !date.After(domain.DateOnly(end)); date = date.AddDate(0, 0, 1) {
		days = append(days, resolveDay(workerID, date, byWeekday, holidayDates, leaves))
	}
	return days
}

func resolveDay(
	workerID int64,
	date time.Time,
	byWeekday map[time.Weekday][]domain.ScheduleInterval,
	holidayDates map[time.Time]bool,
	leaves []domain.LeaveRequest,
) DayAvailability {
	day := DayAvailability{Date: date, WorkerID: workerID}

	if holidayDates[date] {
		day.Blocked = true
		day.Reason = domain.BlockHoliday
		return day
	}

	for i := range leaves {
		if leaves[i].WorkerID == workerID && leaves[i].CoversDate(date) {
			day.Blocked = true
			day.Reason = domain.BlockLeave
			day.LeaveReason = leaves[i].Reason
			return day
		}
	}

	open := byWeekday[date.Weekday()]
	if len(open) == 0 {
		// No schedule row for this weekday means a non-working day; no
		// explicit override row is required.
		day.Blocked = true
		day.Reason = domain.BlockNonWorking
		return day
	}

	day.Intervals = open // repository delivers them sorted by start time
	return day
}
