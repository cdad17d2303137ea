package get_available_slots

import (
	"time"

	"github.com/citaplan/scheduling-service/internal/domain"
	"github.com/citaplan/scheduling-service/pkg/types"
)

// generateSlots walks every open interval of the day in granularity steps
// and keeps each candidate whose whole span fits inside the interval and
// touches no confirmed appointment. A candidate ending exactly at the
// interval's end fits; a candidate merely touching an appointment's
// boundary is free.
func generateSlots(
	intervals []domain.ScheduleInterval,
	durationMinutes int,
	granularityMinutes int,
	confirmed []*domain.Appointment,
	requestDate time.Time,
	now time.Time,
) ([]Slot, error) {
	slots := make([]Slot, 0)

	// On today's date, slots whose start has already passed are gone.
	var minStart types.TimeString
	if domain.SameDay(requestDate, now) {
		minStart = types.NewTimeString(now)
	}

	for _, interval := range intervals {
		cursor := interval.StartTime
		for cursor.IsBefore(interval.EndTime) {
			slotEnd, err := cursor.AddMinutes(durationMinutes)
			if err != nil {
				break // would cross midnight, no further slot can fit
			}
			if slotEnd.IsAfter(interval.EndTime) {
				break
			}

			if !cursor.IsBefore(minStart) && !overlapsAny(confirmed, cursor, slotEnd) {
				slots = append(slots, Slot{
					StartTime:       cursor,
					EndTime:         slotEnd,
					DurationMinutes: durationMinutes,
				})
			}

			next, err := cursor.AddMinutes(granularityMinutes)
			if err != nil {
				break
			}
			cursor = next
		}
	}

	return slots, nil
}

func overlapsAny(confirmed []*domain.Appointment, start, end types.TimeString) bool {
	for _, appt := range confirmed {
		if appt.Overlaps(start, end) {
			return true
		}
	}
	return false
}
