package manage_schedule

import (
	"fmt"
	"time"

	"github.com/citaplan/scheduling-service/internal/domain"
	"github.com/citaplan/scheduling-service/pkg/types"
)

// IntervalRequest is one weekly working interval. Weekday follows time.Weekday
// numbering, 0 is Sunday.
type IntervalRequest struct {
	Weekday   int    `json:"weekday"`
	StartTime string `json:"startTime"` // "09:00"
	EndTime   string `json:"endTime"`   // "17:00"
}

// ReplaceScheduleRequest replaces the full weekly schedule.
type ReplaceScheduleRequest struct {
	Intervals []IntervalRequest `json:"intervals"`
}

// IntervalResponse mirrors IntervalRequest in responses.
type IntervalResponse struct {
	ID        int64  `json:"id"`
	Weekday   int    `json:"weekday"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// ScheduleResponse is a worker's full weekly schedule.
type ScheduleResponse struct {
	Intervals []IntervalResponse `json:"intervals"`
}

// SettingsResponse carries the worker's scheduling knobs.
type SettingsResponse struct {
	WorkerID               int64 `json:"workerId"`
	SlotGranularityMinutes int   `json:"slotGranularityMinutes"`
}

// GranularityRequest updates the worker's slot step.
type GranularityRequest struct {
	SlotGranularityMinutes int `json:"slotGranularityMinutes"`
}

// ToDomainIntervals converts and validates the request intervals.
func (r *ReplaceScheduleRequest) ToDomainIntervals(companyID int64, workerID *int64) ([]domain.ScheduleInterval, error) {
	intervals := make([]domain.ScheduleInterval, 0, len(r.Intervals))
	for i, interval := range r.Intervals {
		if interval.Weekday < 0 || interval.Weekday > 6 {
			return nil, fmt.Errorf("interval %d: weekday %d out of range", i, interval.Weekday)
		}
		startTime, err := types.NewTimeStringFromString(interval.StartTime)
		if err != nil {
			return nil, fmt.Errorf("interval %d: %w", i, err)
		}
		endTime, err := types.NewTimeStringFromString(interval.EndTime)
		if err != nil {
			return nil, fmt.Errorf("interval %d: %w", i, err)
		}

		intervals = append(intervals, domain.ScheduleInterval{
			CompanyID: companyID,
			WorkerID:  workerID,
			Weekday:   time.Weekday(interval.Weekday),
			StartTime: startTime,
			EndTime:   endTime,
		})
	}
	return intervals, nil
}

// FromDomainIntervals converts stored intervals to the HTTP shape.
func FromDomainIntervals(intervals []domain.ScheduleInterval) *ScheduleResponse {
	out := make([]IntervalResponse, 0, len(intervals))
	for _, interval := range intervals {
		out = append(out, IntervalResponse{
			ID:        interval.ID,
			Weekday:   int(interval.Weekday),
			StartTime: interval.StartTime.String(),
			EndTime:   interval.EndTime.String(),
		})
	}
	return &ScheduleResponse{Intervals: out}
}
