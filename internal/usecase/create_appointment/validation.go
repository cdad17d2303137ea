package create_appointment

import (
	"fmt"
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{9,15}$`)

// validateRequest checks the request's shape. The conflict guard owns every
// check that needs data; only local shape checks live here.
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

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}

	phone := strings.ReplaceAll(req.ContactPhone, " ", "")
	if !phonePattern.MatchString(phone) {
		return fmt.Errorf("%w: contactPhone %q is not a valid phone number", ErrInvalidInput, req.ContactPhone)
	}

	if req.ContactEmail != nil && !strings.Contains(*req.ContactEmail, "@") {
		return fmt.Errorf("%w: contactEmail %q is not a valid email", ErrInvalidInput, *req.ContactEmail)
	}

	return nil
}
