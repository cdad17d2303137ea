package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citaplan/scheduling-service/internal/domain"
	overrideRepo "github.com/citaplan/scheduling-service/internal/infra/storage/override"
	"github.com/citaplan/scheduling-service/pkg/ptr"
	"github.com/citaplan/scheduling-service/pkg/types"
)

type stubScheduleRepo struct {
	worker   []domain.ScheduleInterval
	company  []domain.ScheduleInterval
	replaced []domain.ScheduleInterval
	settings *domain.WorkerSettings
	upserted *domain.WorkerSettings
}

func (s *stubScheduleRepo) GetForWorker(_ context.Context, _, _ int64) ([]domain.ScheduleInterval, error) {
	return s.worker, nil
}

func (s *stubScheduleRepo) GetCompanyDefault(_ context.Context, _ int64) ([]domain.ScheduleInterval, error) {
	return s.company, nil
}

func (s *stubScheduleRepo) ReplaceForWorker(_ context.Context, _ int64, _ *int64, intervals []domain.ScheduleInterval) error {
	s.replaced = intervals
	return nil
}

func (s *stubScheduleRepo) GetWorkerSettings(_ context.Context, companyID, workerID int64) (*domain.WorkerSettings, error) {
	if s.settings != nil {
		return s.settings, nil
	}
	return &domain.WorkerSettings{
		WorkerID:               workerID,
		CompanyID:              companyID,
		SlotGranularityMinutes: domain.DefaultSlotGranularityMinutes,
	}, nil
}

func (s *stubScheduleRepo) UpsertWorkerSettings(_ context.Context, settings *domain.WorkerSettings) error {
	s.upserted = settings
	return nil
}

type stubOverrideRepo struct {
	leave      *domain.LeaveRequest
	lastStatus domain.LeaveStatus
	lastReason *string
	updates    int
}

func (s *stubOverrideRepo) CreateHoliday(_ context.Context, h *domain.Holiday) (*domain.Holiday, error) {
	h.ID = 1
	return h, nil
}

func (s *stubOverrideRepo) DeleteHoliday(_ context.Context, _, _ int64) error { return nil }

func (s *stubOverrideRepo) GetHolidaysInRange(_ context.Context, _ int64, _, _ time.Time) ([]domain.Holiday, error) {
	return nil, nil
}

func (s *stubOverrideRepo) CreateLeaveRequest(_ context.Context, l *domain.LeaveRequest) (*domain.LeaveRequest, error) {
	l.ID = 1
	return l, nil
}

func (s *stubOverrideRepo) GetLeaveByID(_ context.Context, id int64) (*domain.LeaveRequest, error) {
	if s.leave == nil || s.leave.ID != id {
		return nil, overrideRepo.ErrLeaveNotFound
	}
	clone := *s.leave
	return &clone, nil
}

func (s *stubOverrideRepo) UpdateLeaveStatus(_ context.Context, _ int64, status domain.LeaveStatus, rejectionReason *string) error {
	s.lastStatus = status
	s.lastReason = rejectionReason
	s.updates++
	return nil
}

func (s *stubOverrideRepo) ListLeaveRequests(_ context.Context, _ int64, _ *domain.LeaveStatus) ([]domain.LeaveRequest, error) {
	return nil, nil
}

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func newTestService(schedules *stubScheduleRepo, overrides *stubOverrideRepo) *Service {
	if schedules == nil {
		schedules = &stubScheduleRepo{}
	}
	if overrides == nil {
		overrides = &stubOverrideRepo{}
	}
	return NewService(schedules, overrides, passthroughTx{}, noopLogger{})
}

func monday(start, end string) domain.ScheduleInterval {
	return domain.ScheduleInterval{
		Weekday:   time.Monday,
		StartTime: types.TimeString(start),
		EndTime:   types.TimeString(end),
	}
}

func TestGetWorkerScheduleFallsBack(t *testing.T) {
	repo := &stubScheduleRepo{
		company: []domain.ScheduleInterval{monday("09:00", "17:00")},
	}
	svc := newTestService(repo, nil)

	intervals, err := svc.GetWorkerSchedule(context.Background(), 1, 3)
	require.NoError(t, err)
	require.Len(t, intervals, 1)
	assert.Equal(t, "09:00", intervals[0].StartTime.String())
}

func TestReplaceScheduleRejectsOverlap(t *testing.T) {
	repo := &stubScheduleRepo{}
	svc := newTestService(repo, nil)

	err := svc.ReplaceSchedule(context.Background(), 1, nil, []domain.ScheduleInterval{
		monday("09:00", "14:00"),
		monday("13:00", "18:00"),
	})
	assert.ErrorIs(t, err, ErrScheduleOverlap)
	assert.Nil(t, repo.replaced)

	// Touching boundaries pass and reach storage.
	err = svc.ReplaceSchedule(context.Background(), 1, nil, []domain.ScheduleInterval{
		monday("09:00", "14:00"),
		monday("14:00", "18:00"),
	})
	require.NoError(t, err)
	assert.Len(t, repo.replaced, 2)
}

func TestReplaceScheduleRejectsMalformedIntervals(t *testing.T) {
	svc := newTestService(nil, nil)

	err := svc.ReplaceSchedule(context.Background(), 1, nil, []domain.ScheduleInterval{
		monday("14:00", "09:00"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = svc.ReplaceSchedule(context.Background(), 1, nil, []domain.ScheduleInterval{
		monday("9am", "14:00"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateGranularityBounds(t *testing.T) {
	repo := &stubScheduleRepo{}
	svc := newTestService(repo, nil)

	assert.ErrorIs(t, svc.UpdateGranularity(context.Background(), 1, 3, 3), ErrInvalidInput)
	assert.ErrorIs(t, svc.UpdateGranularity(context.Background(), 1, 3, 300), ErrInvalidInput)

	require.NoError(t, svc.UpdateGranularity(context.Background(), 1, 3, 15))
	require.NotNil(t, repo.upserted)
	assert.Equal(t, 15, repo.upserted.SlotGranularityMinutes)
}

func TestRejectLeaveRequiresReason(t *testing.T) {
	overrides := &stubOverrideRepo{leave: &domain.LeaveRequest{ID: 5, CompanyID: 1, Status: domain.LeavePending}}
	svc := newTestService(nil, overrides)

	assert.ErrorIs(t, svc.RejectLeave(context.Background(), 1, 5, nil), ErrRejectionReasonRequired)
	assert.ErrorIs(t, svc.RejectLeave(context.Background(), 1, 5, ptr.Ptr("")), ErrRejectionReasonRequired)
	assert.Zero(t, overrides.updates)

	require.NoError(t, svc.RejectLeave(context.Background(), 1, 5, ptr.Ptr("cobertura insuficiente")))
	assert.Equal(t, domain.LeaveRejected, overrides.lastStatus)
	require.NotNil(t, overrides.lastReason)
}

func TestDecideLeaveOnlyPending(t *testing.T) {
	overrides := &stubOverrideRepo{leave: &domain.LeaveRequest{ID: 5, CompanyID: 1, Status: domain.LeaveApproved}}
	svc := newTestService(nil, overrides)

	assert.ErrorIs(t, svc.ApproveLeave(context.Background(), 1, 5), ErrLeaveAlreadyDecided)
	assert.Zero(t, overrides.updates)
}

func TestDecideLeaveScopedToCompany(t *testing.T) {
	overrides := &stubOverrideRepo{leave: &domain.LeaveRequest{ID: 5, CompanyID: 2, Status: domain.LeavePending}}
	svc := newTestService(nil, overrides)

	assert.ErrorIs(t, svc.ApproveLeave(context.Background(), 1, 5), ErrLeaveNotFound)
}

func TestRequestLeaveValidatesRange(t *testing.T) {
	svc := newTestService(nil, nil)

	start := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	_, err := svc.RequestLeave(context.Background(), 1, 3, start, start.AddDate(0, 0, -1), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	leave, err := svc.RequestLeave(context.Background(), 1, 3, start, start.AddDate(0, 0, 2), ptr.Ptr("vacaciones"))
	require.NoError(t, err)
	assert.Equal(t, domain.LeavePending, leave.Status)
}
