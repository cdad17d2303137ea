package conflicts

import (
	"errors"
	"fmt"
)

// RejectionReason tags why a candidate booking was refused.
type RejectionReason string

const (
	ReasonPastTime        RejectionReason = "past_time"
	ReasonInvalidRange    RejectionReason = "invalid_range"
	ReasonDayBlocked      RejectionReason = "day_blocked"
	ReasonOutsideSchedule RejectionReason = "outside_schedule"
	ReasonOverlap         RejectionReason = "overlap"
	ReasonBlacklisted     RejectionReason = "blacklisted"
)

// Rejection is a typed refusal of a candidate booking. It is an error so
// callers can pass it up unchanged, and carries the machine-readable reason
// the API layer maps to a status code and message.
type Rejection struct {
	Reason RejectionReason
	Detail string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("conflicts: rejected (%s): %s", r.Reason, r.Detail)
}

func reject(reason RejectionReason, format string, v ...interface{}) *Rejection {
	return &Rejection{Reason: reason, Detail: fmt.Sprintf(format, v...)}
}

// AsRejection unwraps err into a Rejection when one is in its chain.
func AsRejection(err error) (*Rejection, bool) {
	var rejection *Rejection
	if errors.As(err, &rejection) {
		return rejection, true
	}
	return nil, false
}
