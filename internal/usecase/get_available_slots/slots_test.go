package get_available_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citaplan/scheduling-service/internal/domain"
	"github.com/citaplan/scheduling-service/pkg/types"
)

var dayIntervals = []domain.ScheduleInterval{
	{Weekday: time.Monday, StartTime: "09:00", EndTime: "12:00"},
	{Weekday: time.Monday, StartTime: "15:00", EndTime: "18:00"},
}

var (
	requestDate = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	dayBefore   = time.Date(2026, 9, 13, 12, 0, 0, 0, time.UTC)
)

func starts(slots []Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.StartTime.String()
	}
	return out
}

func TestGenerateSlotsFullDay(t *testing.T) {
	slots, err := generateSlots(dayIntervals, 30, 30, nil, requestDate, dayBefore)
	require.NoError(t, err)

	// Six per interval; the last slot of each ends exactly at the
	// interval's end.
	require.Len(t, slots, 12)
	assert.Equal(t, "09:00", slots[0].StartTime.String())
	assert.Equal(t, "11:30", slots[5].StartTime.String())
	assert.Equal(t, types.TimeString("12:00"), slots[5].EndTime)
	assert.Equal(t, "15:00", slots[6].StartTime.String())
	assert.Equal(t, "17:30", slots[11].StartTime.String())
}

func TestGenerateSlotsDurationLongerThanStep(t *testing.T) {
	// 90-minute service on a 30-minute grid: the last candidates of each
	// interval no longer fit.
	slots, err := generateSlots(dayIntervals, 90, 30, nil, requestDate, dayBefore)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"09:00", "09:30", "10:00", "10:30",
		"15:00", "15:30", "16:00", "16:30",
	}, starts(slots))
}

func TestGenerateSlotsSkipsConfirmedOverlaps(t *testing.T) {
	confirmed := []*domain.Appointment{
		{StartTime: "10:00", EndTime: "11:00", Status: domain.StatusConfirmed},
	}

	slots, err := generateSlots(dayIntervals[:1], 30, 30, confirmed, requestDate, dayBefore)
	require.NoError(t, err)

	// 10:00 and 10:30 are taken; 09:30-10:00 and 11:00 touch but do not
	// overlap.
	assert.Equal(t, []string{"09:00", "09:30", "11:00", "11:30"}, starts(slots))
}

func TestGenerateSlotsSkipsPastStartsToday(t *testing.T) {
	now := time.Date(2026, 9, 14, 10, 10, 0, 0, time.UTC)

	slots, err := generateSlots(dayIntervals[:1], 30, 30, nil, requestDate, now)
	require.NoError(t, err)

	assert.Equal(t, []string{"10:30", "11:00", "11:30"}, starts(slots))
}

func TestGenerateSlotsNothingFits(t *testing.T) {
	short := []domain.ScheduleInterval{
		{Weekday: time.Monday, StartTime: "09:00", EndTime: "09:20"},
	}

	slots, err := generateSlots(short, 30, 30, nil, requestDate, dayBefore)
	require.NoError(t, err)
	assert.Empty(t, slots)
}
