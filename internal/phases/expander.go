package phases

import (
	"fmt"
	"time"

	"github.com/citaplan/scheduling-service/internal/domain"
	"github.com/citaplan/scheduling-service/pkg/types"
)

// Expander turns an appointment into its calendar blocks. For a phased
// service each phase becomes one back-to-back block starting at the
// appointment's start time; phases needing the worker render as regular
// clickable appointment blocks, the rest as non-interactive background
// breaks the worker is free during. Services without phases and
// non-confirmed appointments expand to a single plain block.
type Expander struct{}

// NewExpander creates a phase expander.
func NewExpander() *Expander {
	return &Expander{}
}

// EffectiveEndTime computes the end time an appointment for the given service
// must carry when it starts at startTime. The phase durations are
// authoritative; the service's flat duration only applies when no phases
// exist.
func (e *Expander) EffectiveEndTime(service *domain.Service, startTime types.TimeString) (types.TimeString, error) {
	endTime, err := startTime.AddMinutes(service.EffectiveDurationMinutes())
	if err != nil {
		return "", fmt.Errorf("phases: end time for service=%d: %w", service.ID, err)
	}
	return endTime, nil
}

// Expand materializes the appointment's calendar blocks.
func (e *Expander) Expand(appointment *domain.Appointment, service *domain.Service) ([]domain.CalendarEvent, error) {
	if !appointment.IsConfirmed() || service == nil || !service.HasPhases() {
		return []domain.CalendarEvent{e.plainBlock(appointment)}, nil
	}

	events := make([]domain.CalendarEvent, 0, len(service.Phases))
	cursor := appointment.StartTime
	for _, phase := range service.SortedPhases() {
		next, err := cursor.AddMinutes(phase.DurationMinutes)
		if err != nil {
			return nil, fmt.Errorf("phases: expand appointment=%d phase %q: %w", appointment.ID, phase.Name, err)
		}

		classification := domain.EventAppointment
		display := domain.DisplayAuto
		clickable := true
		if !phase.RequiresAttention {
			classification = domain.EventAppointmentBreak
			display = domain.DisplayBackground
			clickable = false
		}

		events = append(events, domain.CalendarEvent{
			Start:          at(appointment.Date, cursor),
			End:            at(appointment.Date, next),
			Display:        display,
			Classification: classification,
			Props: domain.EventProps{
				AppointmentID: appointment.ID,
				WorkerID:      appointment.WorkerID,
				CompanyID:     appointment.CompanyID,
				ServiceName:   appointment.ServiceName,
				Status:        appointment.Status,
				ContactPhone:  appointment.ContactPhone,
				PhaseName:     phase.Name,
				Clickable:     clickable,
			},
		})
		cursor = next
	}

	return events, nil
}

func (e *Expander) plainBlock(appointment *domain.Appointment) domain.CalendarEvent {
	return domain.CalendarEvent{
		Start:          at(appointment.Date, appointment.StartTime),
		End:            at(appointment.Date, appointment.EndTime),
		Display:        domain.DisplayAuto,
		Classification: domain.EventAppointment,
		Props: domain.EventProps{
			AppointmentID: appointment.ID,
			WorkerID:      appointment.WorkerID,
			CompanyID:     appointment.CompanyID,
			ServiceName:   appointment.ServiceName,
			Status:        appointment.Status,
			ContactPhone:  appointment.ContactPhone,
			Clickable:     true,
		},
	}
}

// at combines a date-only value with a wall-clock time string.
func at(date time.Time, t types.TimeString) time.Time {
	day := domain.DateOnly(date)
	minutes := t.TotalMinutes()
	return day.Add(time.Duration(minutes) * time.Minute)
}
