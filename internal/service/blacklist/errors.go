package blacklist

import "errors"

var (
	// ErrEntryNotFound is returned when the entry does not exist
	ErrEntryNotFound = errors.New("blacklist entry not found")

	// ErrDuplicateContact is returned when an active entry already covers
	// the same phone or email
	ErrDuplicateContact = errors.New("contact is already blacklisted")

	// ErrContactRequired is returned when neither phone nor email is given
	ErrContactRequired = errors.New("a phone or an email is required")

	// ErrInvalidInput is returned on malformed input data
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal is returned on internal service failures
	ErrInternal = errors.New("service: internal error")
)
