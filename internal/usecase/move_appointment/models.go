package move_appointment

import (
	"time"

	"github.com/citaplan/scheduling-service/pkg/types"
)

// Request moves a confirmed appointment to a new date and start time.
type Request struct {
	AppointmentID int64
	CompanyID     int64
	Date          time.Time
	StartTime     types.TimeString
	Observations  *string // nil keeps the stored value
}

// Response is the rescheduled appointment plus any non-fatal warnings.
type Response struct {
	ID           int64            `json:"id"`
	WorkerID     int64            `json:"worker_id"`
	ServiceName  string           `json:"service_name"`
	Date         time.Time        `json:"date"`
	StartTime    types.TimeString `json:"start_time"`
	EndTime      types.TimeString `json:"end_time"`
	Status       string           `json:"status"`
	Observations *string          `json:"observations,omitempty"`
	Warnings     []string         `json:"warnings,omitempty"`
}
