package list_appointments

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/citaplan/scheduling-service/internal/api/handlers"
	"github.com/citaplan/scheduling-service/internal/domain"
	"github.com/citaplan/scheduling-service/internal/service/appointments"
	"github.com/citaplan/scheduling-service/internal/service/appointments/models"
)

const (
	msgInvalidID     = "identificador no válido"
	msgInvalidFilter = "parámetros de filtrado no válidos"
)

type Handler struct {
	service AppointmentLister
	logger  Logger
}

func NewHandler(service AppointmentLister, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/companies/{companyId}/appointments
// Query params: workerId, startDate, endDate, status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	companyID, err := strconv.ParseInt(mux.Vars(r)["companyId"], 10, 64)
	if err != nil || companyID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	req, err := parseFilter(r, companyID)
	if err != nil {
		h.logger.Warn("GET /appointments - invalid filter: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		if errors.Is(err, appointments.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidFilter)
			return
		}
		h.logger.Error("GET /appointments - failed for company=%d: %v", companyID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func parseFilter(r *http.Request, companyID int64) (*models.ListRequest, error) {
	req := &models.ListRequest{CompanyID: companyID}
	query := r.URL.Query()

	if raw := query.Get("workerId"); raw != "" {
		workerID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		req.WorkerID = &workerID
	}

	if raw := query.Get("startDate"); raw != "" {
		startDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		req.StartDate = &startDate
	}

	if raw := query.Get("endDate"); raw != "" {
		endDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		req.EndDate = &endDate
	}

	if raw := query.Get("status"); raw != "" {
		req.Status = &raw
	}

	return req, nil
}
