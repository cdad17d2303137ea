package get_calendar

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/citaplan/scheduling-service/internal/api/handlers"
	"github.com/citaplan/scheduling-service/internal/domain"
)

const (
	msgInvalidCompanyID = "identificador de empresa no válido"
	msgInvalidWorkerID  = "identificador de profesional no válido"
	msgInvalidRange     = "rango de fechas no válido, se espera start y end en formato YYYY-MM-DD"
)

type Handler struct {
	materializer CalendarMaterializer
	logger       Logger
}

func NewHandler(materializer CalendarMaterializer, logger Logger) *Handler {
	return &Handler{
		materializer: materializer,
		logger:       logger,
	}
}

// Handle GET /api/v1/companies/{companyId}/calendar
// Query params: start, end (inclusive dates), workerId (optional; absent
// means every worker of the company)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
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

	events, err := h.materializer.FetchRange(r.Context(), companyID, workerID, start, end)
	if err != nil {
		h.logger.Error("GET /calendar - failed for company=%d: %v", companyID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /calendar - %d events for company=%d", len(events), companyID)
	handlers.RespondJSON(w, http.StatusOK, FromDomainEvents(events))
}
