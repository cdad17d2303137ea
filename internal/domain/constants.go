package domain

import "errors"

// Default configuration values
const (
	DefaultSlotGranularityMinutes = 30
)

// Business validation constants
const (
	MinSlotGranularityMinutes = 5
	MaxSlotGranularityMinutes = 240
	MaxReasonLength           = 500
	MaxObservationsLength     = 1000
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Shared domain invariant errors. Writes that would break a model invariant
// fail with one of these before reaching storage.
var (
	// ErrScheduleOverlap is returned when weekly intervals of one
	// worker+weekday overlap
	ErrScheduleOverlap = errors.New("domain: schedule intervals overlap")

	// ErrInvalidPhaseOrder is returned when phase orders are not unique and
	// contiguous starting at 1
	ErrInvalidPhaseOrder = errors.New("domain: invalid phase order")

	// ErrIllegalTransition is returned on a status change outside the
	// state machine
	ErrIllegalTransition = errors.New("domain: illegal status transition")
)
