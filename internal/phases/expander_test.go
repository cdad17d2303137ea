package phases

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citaplan/scheduling-service/internal/domain"
	"github.com/citaplan/scheduling-service/pkg/types"
)

var tinteService = &domain.Service{
	ID:              7,
	CompanyID:       1,
	Name:            "Tinte y corte",
	DurationMinutes: 45, // deliberately wrong; phases win
	Active:          true,
	Phases: []domain.ServicePhase{
		{Order: 1, Name: "aplicación", DurationMinutes: 20, RequiresAttention: true},
		{Order: 2, Name: "reposo", DurationMinutes: 30, RequiresAttention: false},
		{Order: 3, Name: "corte", DurationMinutes: 25, RequiresAttention: true},
	},
}

func confirmedAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:           42,
		CompanyID:    1,
		WorkerID:     3,
		ServiceID:    7,
		ContactPhone: "+34600111222",
		Date:         time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		StartTime:    "10:00",
		EndTime:      "11:15",
		Status:       domain.StatusConfirmed,
		ServiceName:  "Tinte y corte",
	}
}

func TestEffectiveEndTime(t *testing.T) {
	expander := NewExpander()

	end, err := expander.EffectiveEndTime(tinteService, "10:00")
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("11:15"), end)

	flat := &domain.Service{DurationMinutes: 30}
	end, err = expander.EffectiveEndTime(flat, "10:00")
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("10:30"), end)

	_, err = expander.EffectiveEndTime(tinteService, "23:30")
	assert.Error(t, err)
}

func TestExpandPhasedService(t *testing.T) {
	expander := NewExpander()
	appt := confirmedAppointment()

	events, err := expander.Expand(appt, tinteService)
	require.NoError(t, err)
	require.Len(t, events, 3)

	day := appt.Date
	at := func(h, m int) time.Time {
		return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, day.Location())
	}

	// Back-to-back blocks covering the whole appointment span.
	assert.Equal(t, at(10, 0), events[0].Start)
	assert.Equal(t, at(10, 20), events[0].End)
	assert.Equal(t, at(10, 20), events[1].Start)
	assert.Equal(t, at(10, 50), events[1].End)
	assert.Equal(t, at(10, 50), events[2].Start)
	assert.Equal(t, at(11, 15), events[2].End)

	assert.Equal(t, domain.EventAppointment, events[0].Classification)
	assert.Equal(t, domain.EventAppointmentBreak, events[1].Classification)
	assert.Equal(t, domain.EventAppointment, events[2].Classification)

	assert.Equal(t, "aplicación", events[0].Props.PhaseName)
	assert.Equal(t, "reposo", events[1].Props.PhaseName)
	assert.Equal(t, "corte", events[2].Props.PhaseName)

	// Every block belongs to the appointment, but only the attention
	// phases are interactive; the break renders as background.
	for _, event := range events {
		assert.Equal(t, appt.ID, event.Props.AppointmentID)
		assert.Equal(t, appt.WorkerID, event.Props.WorkerID)
	}
	assert.True(t, events[0].Props.Clickable)
	assert.False(t, events[1].Props.Clickable)
	assert.True(t, events[2].Props.Clickable)

	assert.Equal(t, domain.DisplayAuto, events[0].Display)
	assert.Equal(t, domain.DisplayBackground, events[1].Display)
	assert.Equal(t, domain.DisplayAuto, events[2].Display)
}

func TestExpandPlainBlockFallbacks(t *testing.T) {
	expander := NewExpander()

	// Service without phases: one plain block over the stored span.
	appt := confirmedAppointment()
	flat := &domain.Service{ID: 7, DurationMinutes: 75}
	events, err := expander.Expand(appt, flat)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventAppointment, events[0].Classification)
	assert.Empty(t, events[0].Props.PhaseName)

	// Non-confirmed appointments never expand into phases.
	cancelled := confirmedAppointment()
	cancelled.Status = domain.StatusCancelled
	events, err = expander.Expand(cancelled, tinteService)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	// Unknown service degrades to the plain block too.
	events, err = expander.Expand(appt, nil)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
