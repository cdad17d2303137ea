package get_calendar

import (
	"time"

	"github.com/citaplan/scheduling-service/internal/domain"
)

// EventResponse is one rendered calendar block.
type EventResponse struct {
	Start          string             `json:"start"`
	End            string             `json:"end"`
	Display        string             `json:"display"`
	Classification string             `json:"classification"`
	Props          EventPropsResponse `json:"props"`
}

// EventPropsResponse carries the block's rendering metadata.
type EventPropsResponse struct {
	AppointmentID int64  `json:"appointmentId,omitempty"`
	WorkerID      int64  `json:"workerId"`
	ServiceName   string `json:"serviceName,omitempty"`
	Status        string `json:"status,omitempty"`
	ContactPhone  string `json:"contactPhone,omitempty"`
	PhaseName     string `json:"phaseName,omitempty"`
	Clickable     bool   `json:"clickable"`
	BlockReason   string `json:"blockReason,omitempty"`
	LeaveReason   string `json:"leaveReason,omitempty"`
}

// CalendarResponse is the full event set of the requested range.
type CalendarResponse struct {
	Events []EventResponse `json:"events"`
}

// FromDomainEvents converts the materialized events to the HTTP shape.
func FromDomainEvents(events []domain.CalendarEvent) *CalendarResponse {
	out := make([]EventResponse, 0, len(events))
	for _, event := range events {
		out = append(out, EventResponse{
			Start:          event.Start.Format(time.RFC3339),
			End:            event.End.Format(time.RFC3339),
			Display:        string(event.Display),
			Classification: string(event.Classification),
			Props: EventPropsResponse{
				AppointmentID: event.Props.AppointmentID,
				WorkerID:      event.Props.WorkerID,
				ServiceName:   event.Props.ServiceName,
				Status:        string(event.Props.Status),
				ContactPhone:  event.Props.ContactPhone,
				PhaseName:     event.Props.PhaseName,
				Clickable:     event.Props.Clickable,
				BlockReason:   string(event.Props.BlockReason),
				LeaveReason:   event.Props.LeaveReason,
			},
		})
	}
	return &CalendarResponse{Events: out}
}
