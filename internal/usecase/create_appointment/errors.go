package create_appointment

import "errors"

var (
	// ErrServiceNotFound is returned when the service does not exist or
	// belongs to another company
	ErrServiceNotFound = errors.New("service not found")

	// ErrServiceInactive is returned when the service is disabled
	ErrServiceInactive = errors.New("service is inactive")

	// ErrInvalidInput is returned on malformed input data
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal is returned on internal usecase failures
	ErrInternal = errors.New("usecase: internal error")
)
