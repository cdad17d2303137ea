package get_available_slots

import "errors"

var (
	// ErrServiceNotFound is returned when the service does not exist or
	// belongs to another company
	ErrServiceNotFound = errors.New("service not found")

	// ErrServiceInactive is returned when the service is disabled
	ErrServiceInactive = errors.New("service is inactive")

	// ErrInvalidDate is returned when the requested date is in the past
	ErrInvalidDate = errors.New("invalid slot date")

	// ErrInvalidInput is returned on malformed input data
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal is returned on internal usecase failures
	ErrInternal = errors.New("usecase: internal error")
)
