package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citaplan/scheduling-service/internal/domain"
	"github.com/citaplan/scheduling-service/pkg/ptr"
)

type stubScheduleRepo struct {
	worker  map[int64][]domain.ScheduleInterval
	company []domain.ScheduleInterval
	workers []int64
}

func (s *stubScheduleRepo) GetForWorker(_ context.Context, _, workerID int64) ([]domain.ScheduleInterval, error) {
	return s.worker[workerID], nil
}

func (s *stubScheduleRepo) GetCompanyDefault(_ context.Context, _ int64) ([]domain.ScheduleInterval, error) {
	return s.company, nil
}

func (s *stubScheduleRepo) GetWorkerIDs(_ context.Context, _ int64) ([]int64, error) {
	return s.workers, nil
}

type stubOverrideRepo struct {
	holidays []domain.Holiday
	leaves   []domain.LeaveRequest
}

func (s *stubOverrideRepo) GetHolidaysInRange(_ context.Context, _ int64, _, _ time.Time) ([]domain.Holiday, error) {
	return s.holidays, nil
}

func (s *stubOverrideRepo) GetApprovedLeaveInRange(_ context.Context, _ int64, _ *int64, _, _ time.Time) ([]domain.LeaveRequest, error) {
	return s.leaves, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// 2026-09-14 is a Monday.
var monday = date(2026, time.September, 14)

func workerWeek(workerID int64) []domain.ScheduleInterval {
	id := workerID
	return []domain.ScheduleInterval{
		{CompanyID: 1, WorkerID: &id, Weekday: time.Monday, StartTime: "09:00", EndTime: "14:00"},
		{CompanyID: 1, WorkerID: &id, Weekday: time.Monday, StartTime: "16:00", EndTime: "20:00"},
		{CompanyID: 1, WorkerID: &id, Weekday: time.Tuesday, StartTime: "09:00", EndTime: "14:00"},
	}
}

func TestResolveDayOpen(t *testing.T) {
	resolver := NewResolver(
		&stubScheduleRepo{worker: map[int64][]domain.ScheduleInterval{3: workerWeek(3)}},
		&stubOverrideRepo{},
		noopLogger{},
	)

	day, err := resolver.ResolveDay(context.Background(), 1, 3, monday)
	require.NoError(t, err)

	assert.False(t, day.Blocked)
	require.Len(t, day.Intervals, 2)
	assert.Equal(t, "09:00", day.Intervals[0].StartTime.String())
	assert.Equal(t, "16:00", day.Intervals[1].StartTime.String())
}

func TestResolveDayHolidayBlocksEveryone(t *testing.T) {
	resolver := NewResolver(
		&stubScheduleRepo{worker: map[int64][]domain.ScheduleInterval{3: workerWeek(3)}},
		&stubOverrideRepo{holidays: []domain.Holiday{{CompanyID: 1, Date: monday}}},
		noopLogger{},
	)

	day, err := resolver.ResolveDay(context.Background(), 1, 3, monday)
	require.NoError(t, err)

	assert.True(t, day.Blocked)
	assert.Equal(t, domain.BlockHoliday, day.Reason)
	assert.Empty(t, day.Intervals)
}

func TestResolveDayLeaveSurfacesReason(t *testing.T) {
	resolver := NewResolver(
		&stubScheduleRepo{worker: map[int64][]domain.ScheduleInterval{3: workerWeek(3)}},
		&stubOverrideRepo{leaves: []domain.LeaveRequest{{
			CompanyID: 1,
			WorkerID:  3,
			StartDate: monday,
			EndDate:   monday.AddDate(0, 0, 2),
			Status:    domain.LeaveApproved,
			Reason:    ptr.Ptr("formación"),
		}}},
		noopLogger{},
	)

	day, err := resolver.ResolveDay(context.Background(), 1, 3, monday.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.True(t, day.Blocked)
	assert.Equal(t, domain.BlockLeave, day.Reason)
	require.NotNil(t, day.LeaveReason)
	assert.Equal(t, "formación", *day.LeaveReason)

	// Another worker's leave does not block this one.
	other, err := resolver.ResolveDay(context.Background(), 1, 99, monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.NotEqual(t, domain.BlockLeave, other.Reason)
}

func TestResolveDayEmptyWeekdayIsNonWorking(t *testing.T) {
	resolver := NewResolver(
		&stubScheduleRepo{worker: map[int64][]domain.ScheduleInterval{3: workerWeek(3)}},
		&stubOverrideRepo{},
		noopLogger{},
	)

	// Wednesday has no rows for this worker.
	day, err := resolver.ResolveDay(context.Background(), 1, 3, monday.AddDate(0, 0, 2))
	require.NoError(t, err)

	assert.True(t, day.Blocked)
	assert.Equal(t, domain.BlockNonWorking, day.Reason)
}

func TestResolveDayFallsBackToCompanySchedule(t *testing.T) {
	resolver := NewResolver(
		&stubScheduleRepo{
			worker: map[int64][]domain.ScheduleInterval{},
			company: []domain.ScheduleInterval{
				{CompanyID: 1, Weekday: time.Monday, StartTime: "10:00", EndTime: "18:00"},
			},
		},
		&stubOverrideRepo{},
		noopLogger{},
	)

	day, err := resolver.ResolveDay(context.Background(), 1, 5, monday)
	require.NoError(t, err)

	assert.False(t, day.Blocked)
	require.Len(t, day.Intervals, 1)
	assert.Equal(t, "10:00", day.Intervals[0].StartTime.String())
}

func TestResolveRangeWalksEveryDate(t *testing.T) {
	resolver := NewResolver(
		&stubScheduleRepo{worker: map[int64][]domain.ScheduleInterval{3: workerWeek(3)}},
		&stubOverrideRepo{},
		noopLogger{},
	)

	days, err := resolver.ResolveRange(context.Background(), 1, 3, monday, monday.AddDate(0, 0, 6))
	require.NoError(t, err)
	require.Len(t, days, 7)

	assert.False(t, days[0].Blocked) // monday
	assert.False(t, days[1].Blocked) // tuesday
	for _, day := range days[2:] {
		assert.True(t, day.Blocked)
		assert.Equal(t, domain.BlockNonWorking, day.Reason)
	}
}

func TestResolveRangeForCompanyKeepsWorkersSeparate(t *testing.T) {
	resolver := NewResolver(
		&stubScheduleRepo{
			worker: map[int64][]domain.ScheduleInterval{
				3: workerWeek(3),
				4: workerWeek(4),
			},
			workers: []int64{3, 4},
		},
		&stubOverrideRepo{},
		noopLogger{},
	)

	days, err := resolver.ResolveRangeForCompany(context.Background(), 1, monday, monday)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, int64(3), days[0].WorkerID)
	assert.Equal(t, int64(4), days[1].WorkerID)
}
