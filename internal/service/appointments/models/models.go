package models

import (
	"fmt"
	"time"

	"github.com/citaplan/scheduling-service/internal/domain"
	"github.com/citaplan/scheduling-service/pkg/types"
)

// AppointmentResponse is the transport shape of one appointment.
type AppointmentResponse struct {
	ID                 int64            `json:"id"`
	CompanyID          int64            `json:"company_id"`
	WorkerID           int64            `json:"worker_id"`
	ServiceID          int64            `json:"service_id"`
	ServiceName        string           `json:"service_name"`
	ContactPhone       string           `json:"contact_phone"`
	ContactEmail       *string          `json:"contact_email,omitempty"`
	Date               time.Time        `json:"date"`
	StartTime          types.TimeString `json:"start_time"`
	EndTime            types.TimeString `json:"end_time"`
	Status             string           `json:"status"`
	PaymentType        *string          `json:"payment_type,omitempty"`
	Price              float64          `json:"price"`
	CancellationReason *string          `json:"cancellation_reason,omitempty"`
	AnnulmentReason    *string          `json:"annulment_reason,omitempty"`
	Observations       *string          `json:"observations,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// AppointmentListResponse is a list of appointments plus its size.
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// ListRequest filters a company's appointment listing.
type ListRequest struct {
	CompanyID int64
	WorkerID  *int64
	StartDate *time.Time
	EndDate   *time.Time
	Status    *string
}

// ToDomainFilter converts the request to the repository filter.
func (r *ListRequest) ToDomainFilter() (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{
		CompanyID: r.CompanyID,
		WorkerID:  r.WorkerID,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return domain.AppointmentsFilter{}, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// ToDomainStatus parses a transport status value.
func ToDomainStatus(s string) (domain.AppointmentStatus, error) {
	switch status := domain.AppointmentStatus(s); status {
	case domain.StatusConfirmed, domain.StatusCancelled, domain.StatusCompleted, domain.StatusAnnulled:
		return status, nil
	default:
		return "", fmt.Errorf("unknown appointment status %q", s)
	}
}

// FromDomain converts a domain appointment to its transport shape.
func FromDomain(appt *domain.Appointment) *AppointmentResponse {
	var paymentType *string
	if appt.PaymentType != nil {
		pt := string(*appt.PaymentType)
		paymentType = &pt
	}

	return &AppointmentResponse{
		ID:                 appt.ID,
		CompanyID:          appt.CompanyID,
		WorkerID:           appt.WorkerID,
		ServiceID:          appt.ServiceID,
		ServiceName:        appt.ServiceName,
		ContactPhone:       appt.ContactPhone,
		ContactEmail:       appt.ContactEmail,
		Date:               appt.Date,
		StartTime:          appt.StartTime,
		EndTime:            appt.EndTime,
		Status:             string(appt.Status),
		PaymentType:        paymentType,
		Price:              appt.Price,
		CancellationReason: appt.CancellationReason,
		AnnulmentReason:    appt.AnnulmentReason,
		Observations:       appt.Observations,
		CreatedAt:          appt.CreatedAt,
		UpdatedAt:          appt.UpdatedAt,
	}
}

// FromDomainList converts a slice of domain appointments.
func FromDomainList(appts []*domain.Appointment) *AppointmentListResponse {
	list := make([]AppointmentResponse, 0, len(appts))
	for _, appt := range appts {
		list = append(list, *FromDomain(appt))
	}
	return &AppointmentListResponse{Appointments: list, Total: len(list)}
}
