package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/citaplan/scheduling-service/pkg/types"
)

// ScheduleInterval is one recurring working interval of a worker's week.
// A worker may have several disjoint intervals on the same weekday
// (e.g. morning and afternoon shifts). WorkerID nil means the interval
// belongs to the company-wide fallback schedule.
type ScheduleInterval struct {
	ID        int64
	CompanyID int64
	WorkerID  *int64
	Weekday   time.Weekday
	StartTime types.TimeString
	EndTime   types.TimeString
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Covers reports whether [start, end] fits entirely inside the interval.
// The end boundary is inclusive: a span ending exactly at EndTime fits.
func (s *ScheduleInterval) Covers(start, end types.TimeString) bool {
	return !start.IsBefore(s.StartTime) && !end.IsAfter(s.EndTime)
}

// ValidateIntervalsNoOverlap rejects overlapping intervals within one
// worker+weekday set. Overlaps are an explicit write-time error, never
// silently merged. Touching boundaries (one ends where the next starts)
// are allowed.
func ValidateIntervalsNoOverlap(intervals []ScheduleInterval) error {
	byDay := make(map[time.Weekday][]ScheduleInterval)
	for _, iv := range intervals {
		byDay[iv.Weekday] = append(byDay[iv.Weekday], iv)
	}

	for weekday, day := range byDay {
		sorted := make([]ScheduleInterval, len(day))
		copy(sorted, day)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].StartTime.IsBefore(sorted[j].StartTime)
		})

		for i := 1; i < len(sorted); i++ {
			if sorted[i].StartTime.IsBefore(sorted[i-1].EndTime) {
				return fmt.Errorf("%w: %s %s-%s overlaps %s-%s",
					ErrScheduleOverlap, weekday,
					sorted[i-1].StartTime, sorted[i-1].EndTime,
					sorted[i].StartTime, sorted[i].EndTime)
			}
		}
	}

	return nil
}

// WorkerSettings carries per-worker scheduling knobs.
type WorkerSettings struct {
	WorkerID               int64
	CompanyID              int64
	SlotGranularityMinutes int
}
