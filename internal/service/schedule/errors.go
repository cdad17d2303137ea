package schedule

import "errors"

var (
	// ErrScheduleOverlap is returned when submitted intervals overlap within
	// one weekday
	ErrScheduleOverlap = errors.New("schedule intervals overlap")

	// ErrLeaveNotFound is returned when the leave request does not exist or
	// belongs to another company
	ErrLeaveNotFound = errors.New("leave request not found")

	// ErrLeaveAlreadyDecided is returned when approving or rejecting a
	// request that already left the pending state
	ErrLeaveAlreadyDecided = errors.New("leave request already decided")

	// ErrRejectionReasonRequired is returned when a rejection arrives
	// without a reason
	ErrRejectionReasonRequired = errors.New("a reason is required to reject a leave request")

	// ErrHolidayNotFound is returned when the holiday does not exist
	ErrHolidayNotFound = errors.New("holiday not found")

	// ErrInvalidInput is returned on malformed input data
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal is returned on internal service failures
	ErrInternal = errors.New("service: internal error")
)
