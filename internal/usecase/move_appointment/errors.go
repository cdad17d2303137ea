package move_appointment

import "errors"

var (
	// ErrAppointmentNotFound is returned when the appointment does not exist
	// or belongs to another company
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrNotConfirmed is returned when the appointment is not in a state
	// that holds a slot; only confirmed appointments can be moved
	ErrNotConfirmed = errors.New("appointment is not confirmed")

	// ErrInvalidInput is returned on malformed input data
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal is returned on internal usecase failures
	ErrInternal = errors.New("usecase: internal error")
)
