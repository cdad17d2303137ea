package domain

import "time"

// EventDisplay controls how a calendar event is rendered.
type EventDisplay string

const (
	DisplayAuto       EventDisplay = "auto"       // regular, laid out block
	DisplayBackground EventDisplay = "background" // non-interactive shading
)

// EventClassification tags the source and nature of a calendar event.
type EventClassification string

const (
	EventAppointment      EventClassification = "appointment"
	EventAppointmentBreak EventClassification = "appointment_break"
	EventHoliday          EventClassification = "holiday"
	EventLeave            EventClassification = "leave"
	EventNonWorking       EventClassification = "non_working"
)

// CalendarEvent is a derived, never-persisted rendering block. The event set
// is regenerated from appointments, schedules and overrides on every fetch
// and patched in place on change-feed events.
type CalendarEvent struct {
	Start          time.Time
	End            time.Time
	Display        EventDisplay
	Classification EventClassification
	Props          EventProps
}

// EventProps carries the metadata consumers need to render and to open the
// appointment detail from a clickable block.
type EventProps struct {
	AppointmentID int64 // 0 for background blocks
	WorkerID      int64
	CompanyID     int64
	ServiceName   string
	Status        AppointmentStatus
	ContactPhone  string
	PhaseName     string
	Clickable     bool
	BlockReason   BlockReason // set on background blocks
	LeaveReason   string      // original leave note, when present
}
