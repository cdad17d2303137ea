package create_appointment

import (
	"time"

	"github.com/citaplan/scheduling-service/pkg/types"
)

// Request carries one booking attempt. StaffRequest marks bookings entered
// by company staff, which may record past appointments with a warning.
type Request struct {
	CompanyID    int64
	WorkerID     int64
	ServiceID    int64
	ContactPhone string
	ContactEmail *string
	Date         time.Time
	StartTime    types.TimeString
	Observations *string
	StaffRequest bool
}

// Response is the created appointment plus any non-fatal warnings.
type Response struct {
	ID           int64            `json:"id"`
	CompanyID    int64            `json:"company_id"`
	WorkerID     int64            `json:"worker_id"`
	ServiceID    int64            `json:"service_id"`
	ServiceName  string           `json:"service_name"`
	ContactPhone string           `json:"contact_phone"`
	ContactEmail *string          `json:"contact_email,omitempty"`
	Date         time.Time        `json:"date"`
	StartTime    types.TimeString `json:"start_time"`
	EndTime      types.TimeString `json:"end_time"`
	Status       string           `json:"status"`
	Price        float64          `json:"price"`
	Observations *string          `json:"observations,omitempty"`
	CancelToken  string           `json:"cancel_token"`
	Warnings     []string         `json:"warnings,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}
