package appointments

import "errors"

var (
	// ErrAppointmentNotFound is returned when the appointment does not exist
	// or belongs to another company
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrIllegalTransition is returned when the requested status change is
	// not in the lifecycle graph
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrInvalidPaymentType is returned when completing with an unknown
	// payment type
	ErrInvalidPaymentType = errors.New("invalid payment type")

	// ErrInvalidInput is returned on malformed input data
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal is returned on internal service failures
	ErrInternal = errors.New("service: internal error")
)
