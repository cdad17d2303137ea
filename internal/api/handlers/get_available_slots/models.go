package get_available_slots

import (
	"github.com/citaplan/scheduling-service/internal/domain"
	getAvailableSlots "github.com/citaplan/scheduling-service/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date        string         `json:"date"`
	WorkerID    int64          `json:"workerId"`
	ServiceID   int64          `json:"serviceId"`
	Blocked     bool           `json:"blocked"`
	BlockReason string         `json:"blockReason,omitempty"`
	Slots       []SlotResponse `json:"slots"`
}

// SlotResponse one bookable slot
type SlotResponse struct {
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
}

// FromUseCaseResponse converts the usecase response to the HTTP shape.
func FromUseCaseResponse(result *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, 0, len(result.Slots))
	for _, slot := range result.Slots {
		slots = append(slots, SlotResponse{
			StartTime:       slot.StartTime.String(),
			EndTime:         slot.EndTime.String(),
			DurationMinutes: slot.DurationMinutes,
		})
	}

	return &AvailableSlotsResponse{
		Date:        result.Date.Format(domain.DateFormat),
		WorkerID:    result.WorkerID,
		ServiceID:   result.ServiceID,
		Blocked:     result.Blocked,
		BlockReason: string(result.BlockReason),
		Slots:       slots,
	}
}
