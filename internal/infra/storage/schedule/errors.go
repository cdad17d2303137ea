package schedule

import "errors"

var (
	// ErrScheduleNotFound is returned when no schedule rows match
	ErrScheduleNotFound = errors.New("schedule.repository: schedule not found")

	// ErrBuildQuery is returned when building the SQL query fails
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery is returned when executing the SQL query fails
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
