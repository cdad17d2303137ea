package blacklist

import "errors"

var (
	// ErrEntryNotFound is returned when the blacklist entry does not exist
	ErrEntryNotFound = errors.New("blacklist.repository: entry not found")

	// ErrDuplicateContact is returned when an active entry already carries
	// the same phone or email within the company
	ErrDuplicateContact = errors.New("blacklist.repository: duplicate active contact")

	// ErrBuildQuery is returned when building the SQL query fails
	ErrBuildQuery = errors.New("blacklist.repository: failed to build query")

	// ErrExecQuery is returned when executing the SQL query fails
	ErrExecQuery = errors.New("blacklist.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails
	ErrScanRow = errors.New("blacklist.repository: failed to scan row")
)
