package get_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/citaplan/scheduling-service/internal/api/handlers"
	"github.com/citaplan/scheduling-service/internal/service/appointments"
)

const (
	msgInvalidID           = "identificador no válido"
	msgAppointmentNotFound = "cita no encontrada"
)

type Handler struct {
	service AppointmentReader
	logger  Logger
}

func NewHandler(service AppointmentReader, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/companies/{companyId}/appointments/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	companyID, err := strconv.ParseInt(vars["companyId"], 10, 64)
	if err != nil || companyID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil || id <= 0 {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	result, err := h.service.GetByID(r.Context(), companyID, id)
	if err != nil {
		if errors.Is(err, appointments.ErrAppointmentNotFound) {
			handlers.RespondNotFound(w, msgAppointmentNotFound)
			return
		}
		h.logger.Error("GET /appointments/%d - failed: %v", id, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
