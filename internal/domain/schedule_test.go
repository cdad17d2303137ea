package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/citaplan/scheduling-service/pkg/types"
)

func TestIntervalCovers(t *testing.T) {
	iv := ScheduleInterval{StartTime: "09:00", EndTime: "14:00"}

	assert.True(t, iv.Covers("09:00", "14:00"))
	assert.True(t, iv.Covers("10:00", "11:00"))
	// A span ending exactly at the interval's end fits.
	assert.True(t, iv.Covers("13:30", "14:00"))
	assert.False(t, iv.Covers("08:30", "09:30"))
	assert.False(t, iv.Covers("13:30", "14:30"))
}

func TestValidateIntervalsNoOverlap(t *testing.T) {
	monday := func(start, end string) ScheduleInterval {
		return ScheduleInterval{
			Weekday:   time.Monday,
			StartTime: types.TimeString(start),
			EndTime:   types.TimeString(end),
		}
	}

	// Touching boundaries on the same day are fine.
	assert.NoError(t, ValidateIntervalsNoOverlap([]ScheduleInterval{
		monday("09:00", "14:00"),
		monday("14:00", "18:00"),
	}))

	// Disjoint shifts out of order still validate.
	assert.NoError(t, ValidateIntervalsNoOverlap([]ScheduleInterval{
		monday("16:00", "20:00"),
		monday("09:00", "13:00"),
	}))

	err := ValidateIntervalsNoOverlap([]ScheduleInterval{
		monday("09:00", "14:00"),
		monday("13:00", "18:00"),
	})
	assert.ErrorIs(t, err, ErrScheduleOverlap)

	// Same span on different weekdays never conflicts.
	tuesday := monday("09:00", "14:00")
	tuesday.Weekday = time.Tuesday
	assert.NoError(t, ValidateIntervalsNoOverlap([]ScheduleInterval{
		monday("09:00", "14:00"),
		tuesday,
	}))
}

func TestValidatePhases(t *testing.T) {
	assert.NoError(t, ValidatePhases(nil))

	assert.NoError(t, ValidatePhases([]ServicePhase{
		{Order: 2, Name: "tinte", DurationMinutes: 30},
		{Order: 1, Name: "lavado", DurationMinutes: 10},
		{Order: 3, Name: "corte", DurationMinutes: 20},
	}))

	assert.ErrorIs(t, ValidatePhases([]ServicePhase{
		{Order: 1, Name: "lavado", DurationMinutes: 10},
		{Order: 3, Name: "corte", DurationMinutes: 20},
	}), ErrInvalidPhaseOrder)

	assert.ErrorIs(t, ValidatePhases([]ServicePhase{
		{Order: 1, Name: "lavado", DurationMinutes: 10},
		{Order: 1, Name: "corte", DurationMinutes: 20},
	}), ErrInvalidPhaseOrder)

	assert.ErrorIs(t, ValidatePhases([]ServicePhase{
		{Order: 1, Name: "lavado", DurationMinutes: 0},
	}), ErrInvalidPhaseOrder)
}

func TestEffectiveDurationMinutes(t *testing.T) {
	flat := &Service{DurationMinutes: 45}
	assert.Equal(t, 45, flat.EffectiveDurationMinutes())

	// Phases are authoritative even when the flat duration disagrees.
	phased := &Service{
		DurationMinutes: 45,
		Phases: []ServicePhase{
			{Order: 1, DurationMinutes: 10},
			{Order: 2, DurationMinutes: 30},
			{Order: 3, DurationMinutes: 15},
		},
	}
	assert.Equal(t, 55, phased.EffectiveDurationMinutes())
}
