package create_appointment

import (
	"time"

	"github.com/citaplan/scheduling-service/internal/domain"
	createAppointment "github.com/citaplan/scheduling-service/internal/usecase/create_appointment"
	"github.com/citaplan/scheduling-service/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	WorkerID     int64   `json:"workerId"`
	ServiceID    int64   `json:"serviceId"`
	ContactPhone string  `json:"contactPhone"`
	ContactEmail *string `json:"contactEmail,omitempty"`
	Date         string  `json:"date"`      // "2025-10-15"
	StartTime    string  `json:"startTime"` // "10:00"
	Observations *string `json:"observations,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID           int64    `json:"id"`
	CompanyID    int64    `json:"companyId"`
	WorkerID     int64    `json:"workerId"`
	ServiceID    int64    `json:"serviceId"`
	ServiceName  string   `json:"serviceName"`
	ContactPhone string   `json:"contactPhone"`
	ContactEmail *string  `json:"contactEmail,omitempty"`
	Date         string   `json:"date"`
	StartTime    string   `json:"startTime"`
	EndTime      string   `json:"endTime"`
	Status       string   `json:"status"`
	Price        float64  `json:"price"`
	Observations *string  `json:"observations,omitempty"`
	CancelToken  string   `json:"cancelToken"`
	Warnings     []string `json:"warnings,omitempty"`
	CreatedAt    string   `json:"createdAt"`
}

// ToUseCaseRequest converts the HTTP request, parsing date and time.
func (r *CreateAppointmentRequest) ToUseCaseRequest(companyID int64, staffRequest bool) (*createAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		CompanyID:    companyID,
		WorkerID:     r.WorkerID,
		ServiceID:    r.ServiceID,
		ContactPhone: r.ContactPhone,
		ContactEmail: r.ContactEmail,
		Date:         date,
		StartTime:    startTime,
		Observations: r.Observations,
		StaffRequest: staffRequest,
	}, nil
}

// FromUseCaseResponse converts the usecase response to the HTTP shape.
func FromUseCaseResponse(result *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:           result.ID,
		CompanyID:    result.CompanyID,
		WorkerID:     result.WorkerID,
		ServiceID:    result.ServiceID,
		ServiceName:  result.ServiceName,
		ContactPhone: result.ContactPhone,
		ContactEmail: result.ContactEmail,
		Date:         result.Date.Format(domain.DateFormat),
		StartTime:    result.StartTime.String(),
		EndTime:      result.EndTime.String(),
		Status:       result.Status,
		Price:        result.Price,
		Observations: result.Observations,
		CancelToken:  result.CancelToken,
		Warnings:     result.Warnings,
		CreatedAt:    result.CreatedAt.Format(time.RFC3339),
	}
}
