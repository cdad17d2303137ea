package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citaplan/scheduling-service/internal/availability"
	"github.com/citaplan/scheduling-service/internal/domain"
	"github.com/citaplan/scheduling-service/internal/infra/changefeed"
	appointmentRepo "github.com/citaplan/scheduling-service/internal/infra/storage/appointment"
	"github.com/citaplan/scheduling-service/internal/phases"
	"github.com/citaplan/scheduling-service/pkg/types"
)

type stubAppointmentRepo struct {
	appointments map[int64]*domain.Appointment
	getErr       error
}

func (s *stubAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	appt, ok := s.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	clone := *appt
	return &clone, nil
}

func (s *stubAppointmentRepo) GetWithFilter(_ context.Context, _ domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	out := make([]*domain.Appointment, 0, len(s.appointments))
	for _, appt := range s.appointments {
		clone := *appt
		out = append(out, &clone)
	}
	return out, nil
}

type stubServiceRepo struct{}

func (stubServiceRepo) GetByID(_ context.Context, _ int64) (*domain.Service, error) {
	return nil, errors.New("no such service")
}

type stubResolver struct{}

func (stubResolver) ResolveRange(_ context.Context, _, workerID int64, start, _ time.Time) ([]availability.DayAvailability, error) {
	return []availability.DayAvailability{{
		WorkerID: workerID,
		Date:     start,
		Blocked:  true,
		Reason:   domain.BlockNonWorking,
	}}, nil
}

func (stubResolver) ResolveRangeForCompany(_ context.Context, _ int64, _, _ time.Time) ([]availability.DayAvailability, error) {
	return nil, nil
}

type stubFeed struct {
	events chan changefeed.Event
}

func (s *stubFeed) Subscribe(_ context.Context, _ *int64) <-chan changefeed.Event {
	return s.events
}

type quietLogger struct{}

func (quietLogger) Info(string, ...interface{})  {}
func (quietLogger) Warn(string, ...interface{})  {}
func (quietLogger) Error(string, ...interface{}) {}

var (
	rangeStart = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	rangeEnd   = time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
)

func watcherAppointment(id int64, start, end string) *domain.Appointment {
	return &domain.Appointment{
		ID:          id,
		CompanyID:   1,
		WorkerID:    3,
		ServiceID:   7,
		Date:        rangeStart,
		StartTime:   domainTime(start),
		EndTime:     domainTime(end),
		Status:      domain.StatusConfirmed,
		ServiceName: "Corte",
	}
}

func domainTime(s string) types.TimeString { return types.TimeString(s) }

func newTestWatcher(repo *stubAppointmentRepo) *Watcher {
	workerID := int64(3)
	materializer := NewMaterializer(repo, stubServiceRepo{}, stubResolver{}, phases.NewExpander(), quietLogger{})
	return NewWatcher(materializer, nil, 1, &workerID, rangeStart, rangeEnd, quietLogger{})
}

func drainOne(t *testing.T, w *Watcher) int64 {
	t.Helper()
	select {
	case id := <-w.Updates():
		return id
	default:
		t.Fatal("expected an update notification")
		return 0
	}
}

func TestWatcherReloadGroupsByAppointment(t *testing.T) {
	repo := &stubAppointmentRepo{appointments: map[int64]*domain.Appointment{
		42: watcherAppointment(42, "10:00", "11:00"),
		43: watcherAppointment(43, "12:00", "13:00"),
	}}
	w := newTestWatcher(repo)

	require.NoError(t, w.reload(context.Background()))

	require.Len(t, w.Blocks(42), 1)
	require.Len(t, w.Blocks(43), 1)
	assert.Nil(t, w.Blocks(99))

	// Snapshot carries both appointments plus the blocked-day background.
	assert.Len(t, w.Snapshot(), 3)
}

func TestWatcherPatchesOneAppointment(t *testing.T) {
	appt := watcherAppointment(42, "10:00", "11:00")
	repo := &stubAppointmentRepo{appointments: map[int64]*domain.Appointment{42: appt}}
	w := newTestWatcher(repo)
	require.NoError(t, w.reload(context.Background()))

	appt.StartTime = domainTime("15:00")
	appt.EndTime = domainTime("16:00")
	w.apply(context.Background(), changefeed.Event{Kind: changefeed.KindUpdate, AppointmentID: 42})

	blocks := w.Blocks(42)
	require.Len(t, blocks, 1)
	assert.Equal(t, rangeStart.Add(15*time.Hour), blocks[0].Start)
	assert.Equal(t, int64(42), drainOne(t, w))
}

func TestWatcherDropsCancelled(t *testing.T) {
	appt := watcherAppointment(42, "10:00", "11:00")
	repo := &stubAppointmentRepo{appointments: map[int64]*domain.Appointment{42: appt}}
	w := newTestWatcher(repo)
	require.NoError(t, w.reload(context.Background()))

	appt.Status = domain.StatusCancelled
	w.apply(context.Background(), changefeed.Event{Kind: changefeed.KindUpdate, AppointmentID: 42})

	assert.Nil(t, w.Blocks(42))
	assert.Equal(t, int64(42), drainOne(t, w))
}

func TestWatcherDeleteEventRemovesBlocks(t *testing.T) {
	repo := &stubAppointmentRepo{appointments: map[int64]*domain.Appointment{
		42: watcherAppointment(42, "10:00", "11:00"),
	}}
	w := newTestWatcher(repo)
	require.NoError(t, w.reload(context.Background()))

	w.apply(context.Background(), changefeed.Event{Kind: changefeed.KindDelete, AppointmentID: 42})

	assert.Nil(t, w.Blocks(42))
	assert.Equal(t, int64(42), drainOne(t, w))
}

func TestWatcherRunSignalsReadyAfterInitialLoad(t *testing.T) {
	repo := &stubAppointmentRepo{appointments: map[int64]*domain.Appointment{
		42: watcherAppointment(42, "10:00", "11:00"),
	}}
	feed := &stubFeed{events: make(chan changefeed.Event)}

	workerID := int64(3)
	materializer := NewMaterializer(repo, stubServiceRepo{}, stubResolver{}, phases.NewExpander(), quietLogger{})
	w := NewWatcher(materializer, feed, 1, &workerID, rangeStart, rangeEnd, quietLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Once Ready closes the snapshot is fully loaded; consumers read it
	// from the watcher instead of querying the range a second time.
	select {
	case <-w.Ready():
	case <-time.After(time.Second):
		t.Fatal("watcher never became ready")
	}
	assert.Len(t, w.Snapshot(), 2) // one appointment block plus the background

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcherKeepsStaleBlocksOnFetchError(t *testing.T) {
	repo := &stubAppointmentRepo{appointments: map[int64]*domain.Appointment{
		42: watcherAppointment(42, "10:00", "11:00"),
	}}
	w := newTestWatcher(repo)
	require.NoError(t, w.reload(context.Background()))

	repo.getErr = errors.New("connection reset")
	w.apply(context.Background(), changefeed.Event{Kind: changefeed.KindUpdate, AppointmentID: 42})

	// The last known blocks survive, and no update is announced.
	require.Len(t, w.Blocks(42), 1)
	select {
	case <-w.Updates():
		t.Fatal("no notification expected for a failed patch")
	default:
	}
}
