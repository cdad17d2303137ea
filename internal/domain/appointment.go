package domain

import (
	"time"

	"github.com/citaplan/scheduling-service/pkg/types"
)

// AppointmentStatus represents the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
	StatusAnnulled  AppointmentStatus = "annulled"
)

// PaymentType is how a completed appointment was paid.
type PaymentType string

const (
	PaymentCard  PaymentType = "tarjeta"
	PaymentCash  PaymentType = "efectivo"
	PaymentBizum PaymentType = "bizum"
	PaymentOther PaymentType = "otros"
)

// ValidPaymentType reports whether p is one of the accepted payment types.
func ValidPaymentType(p PaymentType) bool {
	switch p {
	case PaymentCard, PaymentCash, PaymentBizum, PaymentOther:
		return true
	}
	return false
}

// transitions is the closed set of legal status changes.
// Reopening (back to confirmed) additionally requires the slot to still be
// free; that check lives in the conflict guard, not here.
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusConfirmed: {StatusCancelled, StatusCompleted},
	StatusCompleted: {StatusAnnulled, StatusConfirmed},
	StatusCancelled: {StatusConfirmed},
	StatusAnnulled:  {StatusConfirmed},
}

// CanTransition reports whether from → to is a legal status change.
func CanTransition(from, to AppointmentStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Appointment represents one booked slot on a worker's calendar.
// Appointments are never hard-deleted; terminal states are kept for audit.
type Appointment struct {
	ID           int64
	CompanyID    int64
	WorkerID     int64
	ServiceID    int64
	ContactPhone string
	ContactEmail *string

	Date      time.Time        // date only, time part zeroed
	StartTime types.TimeString // "HH:MM"
	EndTime   types.TimeString // "HH:MM", always > StartTime

	Status      AppointmentStatus
	PaymentType *PaymentType
	Price       float64

	CancellationReason *string
	AnnulmentReason    *string
	Observations       *string

	// Denormalized service data for history and emails
	ServiceName string

	// CancelToken backs the login-free cancellation link handed to the client.
	CancelToken string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsConfirmed reports whether the appointment currently holds its slot.
// Only confirmed appointments block the calendar.
func (a *Appointment) IsConfirmed() bool {
	return a.Status == StatusConfirmed
}

// CanTransitionTo reports whether the appointment may move to the given status.
func (a *Appointment) CanTransitionTo(to AppointmentStatus) bool {
	return CanTransition(a.Status, to)
}

// Overlaps reports whether the appointment's span intersects [start, end) on
// the same date. Touching boundaries do not overlap.
func (a *Appointment) Overlaps(start, end types.TimeString) bool {
	return a.StartTime.IsBefore(end) && a.EndTime.IsAfter(start)
}

// AppointmentsFilter narrows company appointment queries.
type AppointmentsFilter struct {
	CompanyID     int64
	WorkerID      *int64             // nil = all workers
	StartDate     *time.Time         // nil = unbounded
	EndDate       *time.Time         // nil = unbounded
	Status        *AppointmentStatus // nil = any
	ConfirmedOnly bool               // shorthand used by slot/conflict queries
}
