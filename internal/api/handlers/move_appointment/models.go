package move_appointment

import (
	"time"

	"github.com/citaplan/scheduling-service/internal/domain"
	moveAppointment "github.com/citaplan/scheduling-service/internal/usecase/move_appointment"
	"github.com/citaplan/scheduling-service/pkg/types"
)

// MoveAppointmentRequest HTTP request model
type MoveAppointmentRequest struct {
	Date         string  `json:"date"`      // "2025-10-15"
	StartTime    string  `json:"startTime"` // "10:00"
	Observations *string `json:"observations,omitempty"`
}

// MoveAppointmentResponse HTTP response model
type MoveAppointmentResponse struct {
	ID           int64    `json:"id"`
	WorkerID     int64    `json:"workerId"`
	ServiceName  string   `json:"serviceName"`
	Date         string   `json:"date"`
	StartTime    string   `json:"startTime"`
	EndTime      string   `json:"endTime"`
	Status       string   `json:"status"`
	Observations *string  `json:"observations,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
}

// ToUseCaseRequest converts the HTTP request, parsing date and time.
func (r *MoveAppointmentRequest) ToUseCaseRequest(companyID, appointmentID int64) (*moveAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &moveAppointment.Request{
		AppointmentID: appointmentID,
		CompanyID:     companyID,
		Date:          date,
		StartTime:     startTime,
		Observations:  r.Observations,
	}, nil
}

// FromUseCaseResponse converts the usecase response to the HTTP shape.
func FromUseCaseResponse(result *moveAppointment.Response) *MoveAppointmentResponse {
	return &MoveAppointmentResponse{
		ID:           result.ID,
		WorkerID:     result.WorkerID,
		ServiceName:  result.ServiceName,
		Date:         result.Date.Format(domain.DateFormat),
		StartTime:    result.StartTime.String(),
		EndTime:      result.EndTime.String(),
		Status:       result.Status,
		Observations: result.Observations,
		Warnings:     result.Warnings,
	}
}
