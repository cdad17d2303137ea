package domain

import "time"

// BlockReason tags why a date is blocked for a worker.
type BlockReason string

const (
	BlockHoliday    BlockReason = "holiday"
	BlockLeave      BlockReason = "leave"
	BlockNonWorking BlockReason = "non_working"
)

// Holiday is a company-wide non-working date. It blocks every worker of the
// company regardless of their weekly schedule.
type Holiday struct {
	ID        int64
	CompanyID int64
	Date      time.Time // date only
	Name      *string
	CreatedAt time.Time
}

// LeaveStatus is the lifecycle state of a leave request.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

// LeaveRequest is a worker's request for a leave period. Only approved
// requests block availability; rejection requires a reason.
type LeaveRequest struct {
	ID              int64
	CompanyID       int64
	WorkerID        int64
	StartDate       time.Time // inclusive
	EndDate         time.Time // inclusive
	Status          LeaveStatus
	Reason          *string // requester's note, surfaced on blocked days
	RejectionReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CoversDate reports whether the leave range includes the given date.
func (l *LeaveRequest) CoversDate(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(l.StartDate)) && !d.After(DateOnly(l.EndDate))
}

// DateOnly strips the clock part of t, keeping its location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two instants fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
