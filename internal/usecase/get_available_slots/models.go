package get_available_slots

import (
	"time"

	"github.com/citaplan/scheduling-service/internal/domain"
	"github.com/citaplan/scheduling-service/pkg/types"
)

// Request asks for the bookable slots of one worker, one service, one date.
type Request struct {
	CompanyID int64
	WorkerID  int64
	ServiceID int64
	Date      time.Time // date only, clock part ignored
}

// Response lists the free slots of the requested day. An empty list with
// Blocked set tells the caller why the whole day is unavailable.
type Response struct {
	Date        time.Time          `json:"date"`
	WorkerID    int64              `json:"worker_id"`
	ServiceID   int64              `json:"service_id"`
	Blocked     bool               `json:"blocked"`
	BlockReason domain.BlockReason `json:"block_reason,omitempty"`
	Slots       []Slot             `json:"slots"`
}

// Slot is one bookable start time sized by the service duration.
type Slot struct {
	StartTime       types.TimeString `json:"start_time"`
	EndTime         types.TimeString `json:"end_time"`
	DurationMinutes int              `json:"duration_minutes"`
}
