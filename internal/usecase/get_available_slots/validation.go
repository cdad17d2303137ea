package get_available_slots

import (
	"fmt"
	"time"

	"github.com/citaplan/scheduling-service/internal/domain"
)

// validateRequest checks the request's shape.
func validateRequest(req *Request) error {
	if req.CompanyID <= 0 {
		return fmt.Errorf("%w: companyID must be positive", ErrInvalidInput)
	}

	if req.WorkerID <= 0 {
		return fmt.Errorf("%w: workerID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// isDateInPast reports whether date falls before today.
func isDateInPast(date, now time.Time) bool {
	return domain.DateOnly(date).Before(domain.DateOnly(now))
}
