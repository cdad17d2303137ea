package get_calendar

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/citaplan/scheduling-service/internal/api/handlers"
	"github.com/citaplan/scheduling-service/internal/calendar"
	"github.com/citaplan/scheduling-service/internal/domain"
)

const msgStreamingUnsupported = "el servidor no soporta streaming"

// StreamHandler pushes live calendar patches over server-sent events. The
// browser keeps the connection open while the agenda view is on screen and
// applies patches per appointment instead of polling the range.
type StreamHandler struct {
	materializer *calendar.Materializer
	feed         calendar.FeedSubscriber
	logger       Logger
}

func NewStreamHandler(materializer *calendar.Materializer, feed calendar.FeedSubscriber, logger Logger) *StreamHandler {
	return &StreamHandler{
		materializer: materializer,
		feed:         feed,
		logger:       logger,
	}
}

// patchMessage is one SSE payload. An empty Events slice means the
// appointment no longer occupies the range and its blocks must be removed.
type patchMessage struct {
	AppointmentID int64           `json:"appointmentId"`
	Events        []EventResponse `json:"events"`
}

// Handle GET /api/v1/companies/{companyId}/calendar/stream
// Same query params as the range fetch. First message is the full snapshot,
// every following message patches a single appointment.
func (h *StreamHandler) Handle(w http.ResponseWriter, r *http.Request) {
	companyID, err := strconv.ParseInt(mux.Vars(r)["companyId"], 10, 64)
	if err != nil || companyID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidCompanyID)
		return
	}

	query := r.URL.Query()
	start, err := time.Parse(domain.DateFormat, query.Get("start"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidRange)
		return
	}
	end, err := time.Parse(domain.DateFormat, query.Get("end"))
	if err != nil || end.Before(start) {
		handlers.RespondBadRequest(w, msgInvalidRange)
		return
	}

	var workerID *int64
	if raw := query.Get("workerId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			handlers.RespondBadRequest(w, msgInvalidWorkerID)
			return
		}
		workerID = &parsed
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		handlers.RespondError(w, http.StatusInternalServerError, msgStreamingUnsupported)
		return
	}

	watcher := calendar.NewWatcher(h.materializer, h.feed, companyID, workerID, start, end, h.logger)

	ctx := r.Context()
	done := make(chan error, 1)
	go func() {
		done <- watcher.Run(ctx)
	}()

	// The watcher's initial load doubles as the snapshot; no second range
	// query per connection.
	select {
	case <-watcher.Ready():
	case err := <-done:
		h.logger.Error("GET /calendar/stream - initial load failed for company=%d: %v", companyID, err)
		handlers.RespondInternalError(w)
		return
	case <-ctx.Done():
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	h.writeEvent(w, "snapshot", FromDomainEvents(watcher.Snapshot()))
	flusher.Flush()

	h.logger.Info("GET /calendar/stream - company=%d connected", companyID)

	for {
		select {
		case <-ctx.Done():
			return
		case err := <-done:
			if err != nil && ctx.Err() == nil {
				h.logger.Error("GET /calendar/stream - watcher stopped for company=%d: %v", companyID, err)
			}
			return
		case id := <-watcher.Updates():
			blocks := watcher.Blocks(id)
			patch := patchMessage{AppointmentID: id, Events: FromDomainEvents(blocks).Events}
			h.writeEvent(w, "patch", patch)
			flusher.Flush()
		}
	}
}

func (h *StreamHandler) writeEvent(w http.ResponseWriter, name string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("GET /calendar/stream - marshal %s failed: %v", name, err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
}
