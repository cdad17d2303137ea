package override

import "errors"

var (
	// ErrHolidayNotFound is returned when the holiday does not exist
	ErrHolidayNotFound = errors.New("override.repository: holiday not found")

	// ErrLeaveNotFound is returned when the leave request does not exist
	ErrLeaveNotFound = errors.New("override.repository: leave request not found")

	// ErrBuildQuery is returned when building the SQL query fails
	ErrBuildQuery = errors.New("override.repository: failed to build query")

	// ErrExecQuery is returned when executing the SQL query fails
	ErrExecQuery = errors.New("override.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails
	ErrScanRow = errors.New("override.repository: failed to scan row")
)
