package manage_overrides

import (
	"github.com/citaplan/scheduling-service/internal/domain"
)

// CreateHolidayRequest blocks one date for the whole company.
type CreateHolidayRequest struct {
	Date string  `json:"date"` // "2025-12-25"
	Name *string `json:"name,omitempty"`
}

// HolidayResponse is one company holiday.
type HolidayResponse struct {
	ID   int64   `json:"id"`
	Date string  `json:"date"`
	Name *string `json:"name,omitempty"`
}

// RequestLeaveRequest files a leave request for a worker.
type RequestLeaveRequest struct {
	WorkerID  int64   `json:"workerId"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	Reason    *string `json:"reason,omitempty"`
}

// RejectLeaveRequest rejects a pending leave request.
type RejectLeaveRequest struct {
	Reason *string `json:"reason"`
}

// LeaveResponse is one leave request.
type LeaveResponse struct {
	ID              int64   `json:"id"`
	WorkerID        int64   `json:"workerId"`
	StartDate       string  `json:"startDate"`
	EndDate         string  `json:"endDate"`
	Status          string  `json:"status"`
	Reason          *string `json:"reason,omitempty"`
	RejectionReason *string `json:"rejectionReason,omitempty"`
}

// FromDomainHoliday converts a holiday to the HTTP shape.
func FromDomainHoliday(h *domain.Holiday) *HolidayResponse {
	return &HolidayResponse{
		ID:   h.ID,
		Date: h.Date.Format(domain.DateFormat),
		Name: h.Name,
	}
}

// FromDomainHolidays converts a slice of holidays.
func FromDomainHolidays(holidays []domain.Holiday) []HolidayResponse {
	out := make([]HolidayResponse, 0, len(holidays))
	for i := range holidays {
		out = append(out, *FromDomainHoliday(&holidays[i]))
	}
	return out
}

// FromDomainLeave converts a leave request to the HTTP shape.
func FromDomainLeave(l *domain.LeaveRequest) *LeaveResponse {
	return &LeaveResponse{
		ID:              l.ID,
		WorkerID:        l.WorkerID,
		StartDate:       l.StartDate.Format(domain.DateFormat),
		EndDate:         l.EndDate.Format(domain.DateFormat),
		Status:          string(l.Status),
		Reason:          l.Reason,
		RejectionReason: l.RejectionReason,
	}
}

// FromDomainLeaves converts a slice of leave requests.
func FromDomainLeaves(leaves []domain.LeaveRequest) []LeaveResponse {
	out := make([]LeaveResponse, 0, len(leaves))
	for i := range leaves {
		out = append(out, *FromDomainLeave(&leaves[i]))
	}
	return out
}
