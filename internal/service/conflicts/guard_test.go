package conflicts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citaplan/scheduling-service/internal/availability"
	"github.com/citaplan/scheduling-service/internal/domain"
)

type stubResolver struct {
	day *availability.DayAvailability
}

func (s *stubResolver) ResolveDay(_ context.Context, _, workerID int64, date time.Time) (*availability.DayAvailability, error) {
	day := *s.day
	day.WorkerID = workerID
	day.Date = date
	return &day, nil
}

type stubAppointments struct {
	confirmed []*domain.Appointment
}

func (s *stubAppointments) GetConfirmedForWorkerDate(_ context.Context, _ int64, _ time.Time) ([]*domain.Appointment, error) {
	return s.confirmed, nil
}

type stubBlacklist struct {
	matches []domain.BlacklistEntry
	calls   int
}

func (s *stubBlacklist) FindActiveMatch(_ context.Context, _ int64, _ string, _ *string) ([]domain.BlacklistEntry, error) {
	s.calls++
	return s.matches, nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type quietLogger struct{}

func (quietLogger) Info(string, ...interface{}) {}
func (quietLogger) Warn(string, ...interface{}) {}

var openDay = &availability.DayAvailability{
	Intervals: []domain.ScheduleInterval{
		{Weekday: time.Monday, StartTime: "09:00", EndTime: "14:00"},
		{Weekday: time.Monday, StartTime: "16:00", EndTime: "20:00"},
	},
}

// 2026-09-14 is a Monday; the clock sits mid-morning.
var (
	testDate = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	testNow  = time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)
)

func newTestGuard(day *availability.DayAvailability, confirmed []*domain.Appointment, blacklist *stubBlacklist) *Guard {
	if blacklist == nil {
		blacklist = &stubBlacklist{}
	}
	return NewGuard(
		&stubResolver{day: day},
		&stubAppointments{confirmed: confirmed},
		blacklist,
		fixedClock{now: testNow},
		quietLogger{},
	)
}

func candidate() Candidate {
	return Candidate{
		CompanyID:    1,
		WorkerID:     3,
		Date:         testDate,
		StartTime:    "11:00",
		EndTime:      "12:00",
		ContactPhone: "+34600111222",
	}
}

func TestCheckAccepts(t *testing.T) {
	guard := newTestGuard(openDay, nil, nil)

	warnings, err := guard.Check(context.Background(), candidate())
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestCheckInvalidRange(t *testing.T) {
	guard := newTestGuard(openDay, nil, nil)

	c := candidate()
	c.StartTime = "12:00"
	c.EndTime = "11:00"
	_, err := guard.Check(context.Background(), c)

	rejection, ok := AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, ReasonInvalidRange, rejection.Reason)

	c = candidate()
	c.EndTime = "25:00"
	_, err = guard.Check(context.Background(), c)
	rejection, ok = AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, ReasonInvalidRange, rejection.Reason)
}

func TestCheckPastTime(t *testing.T) {
	guard := newTestGuard(openDay, nil, nil)

	c := candidate()
	c.StartTime = "09:00"
	c.EndTime = "10:00"

	// Clients hard-fail.
	_, err := guard.Check(context.Background(), c)
	rejection, ok := AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, ReasonPastTime, rejection.Reason)

	// Staff get a warning and the booking proceeds.
	c.StaffRequest = true
	warnings, err := guard.Check(context.Background(), c)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, "la cita está en el pasado", warnings[0])
}

func TestCheckDayBlocked(t *testing.T) {
	blocked := &availability.DayAvailability{Blocked: true, Reason: domain.BlockHoliday}
	guard := newTestGuard(blocked, nil, nil)

	_, err := guard.Check(context.Background(), candidate())
	rejection, ok := AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, ReasonDayBlocked, rejection.Reason)
}

func TestCheckOutsideSchedule(t *testing.T) {
	guard := newTestGuard(openDay, nil, nil)

	// Straddles the midday gap between the two intervals.
	c := candidate()
	c.StartTime = "13:30"
	c.EndTime = "16:30"
	_, err := guard.Check(context.Background(), c)

	rejection, ok := AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, ReasonOutsideSchedule, rejection.Reason)

	// Ending exactly at an interval's end is inside.
	c.StartTime = "13:00"
	c.EndTime = "14:00"
	_, err = guard.Check(context.Background(), c)
	require.NoError(t, err)
}

func TestCheckOverlap(t *testing.T) {
	confirmed := []*domain.Appointment{
		{ID: 10, StartTime: "11:30", EndTime: "12:30", Status: domain.StatusConfirmed},
	}
	guard := newTestGuard(openDay, confirmed, nil)

	_, err := guard.Check(context.Background(), candidate())
	rejection, ok := AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, ReasonOverlap, rejection.Reason)

	// Touching boundary is fine.
	c := candidate()
	c.StartTime = "10:30"
	c.EndTime = "11:30"
	_, err = guard.Check(context.Background(), c)
	require.NoError(t, err)

	// Excluding the conflicting appointment (a move) passes.
	c = candidate()
	c.ExcludeAppointmentID = 10
	_, err = guard.Check(context.Background(), c)
	require.NoError(t, err)
}

func TestCheckBlacklist(t *testing.T) {
	blacklist := &stubBlacklist{matches: []domain.BlacklistEntry{{ID: 1, Active: true}}}
	guard := newTestGuard(openDay, nil, blacklist)

	// Without CheckBlacklist the repository is never consulted (moves and
	// reopens keep working for contacts blocked after booking).
	_, err := guard.Check(context.Background(), candidate())
	require.NoError(t, err)
	assert.Zero(t, blacklist.calls)

	c := candidate()
	c.CheckBlacklist = true
	_, err = guard.Check(context.Background(), c)
	rejection, ok := AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, ReasonBlacklisted, rejection.Reason)
	assert.Equal(t, 1, blacklist.calls)
}

func TestCheckOrderOverlapBeforeBlacklist(t *testing.T) {
	confirmed := []*domain.Appointment{
		{ID: 10, StartTime: "11:00", EndTime: "12:00", Status: domain.StatusConfirmed},
	}
	blacklist := &stubBlacklist{matches: []domain.BlacklistEntry{{ID: 1, Active: true}}}
	guard := newTestGuard(openDay, confirmed, blacklist)

	c := candidate()
	c.CheckBlacklist = true
	_, err := guard.Check(context.Background(), c)

	rejection, ok := AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, ReasonOverlap, rejection.Reason)
	assert.Zero(t, blacklist.calls)
}
