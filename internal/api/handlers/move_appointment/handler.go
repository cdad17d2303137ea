package move_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/citaplan/scheduling-service/internal/api/handlers"
	"github.com/citaplan/scheduling-service/internal/service/conflicts"
	moveAppointment "github.com/citaplan/scheduling-service/internal/usecase/move_appointment"
)

const (
	msgInvalidRequestBody  = "cuerpo de la petición no válido"
	msgInvalidID           = "identificador no válido"
	msgInvalidDateTime     = "formato de fecha u hora no válido, se espera YYYY-MM-DD y HH:MM"
	msgAppointmentNotFound = "cita no encontrada"
	msgNotConfirmed        = "solo se pueden mover citas confirmadas"
	msgDayBlocked          = "el día seleccionado no está disponible"
	msgOutsideSchedule     = "el horario seleccionado está fuera de la jornada laboral"
	msgSlotTaken           = "el horario seleccionado ya está ocupado"
)

type Handler struct {
	useCase MoveAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase MoveAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/companies/{companyId}/appointments/{id}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	companyID, err := strconv.ParseInt(vars["companyId"], 10, 64)
	if err != nil || companyID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}
	appointmentID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil || appointmentID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	var req MoveAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /appointments/%d/schedule - invalid request body: %v", appointmentID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(companyID, appointmentID)
	if err != nil {
		h.logger.Warn("PUT /appointments/%d/schedule - failed to parse request: %v", appointmentID, err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		h.respondError(w, appointmentID, err)
		return
	}

	h.logger.Info("PUT /appointments/%d/schedule - moved to %s %s", result.ID, req.Date, req.StartTime)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

func (h *Handler) respondError(w http.ResponseWriter, appointmentID int64, err error) {
	if rejection, ok := conflicts.AsRejection(err); ok {
		h.logger.Warn("PUT /appointments/%d/schedule - rejected (%s)", appointmentID, rejection.Reason)
		switch rejection.Reason {
		case conflicts.ReasonInvalidRange, conflicts.ReasonPastTime:
			handlers.RespondBadRequest(w, msgInvalidDateTime)
		case conflicts.ReasonDayBlocked:
			handlers.RespondError(w, http.StatusConflict, msgDayBlocked)
		case conflicts.ReasonOutsideSchedule:
			handlers.RespondError(w, http.StatusConflict, msgOutsideSchedule)
		case conflicts.ReasonOverlap:
			handlers.RespondError(w, http.StatusConflict, msgSlotTaken)
		default:
			handlers.RespondInternalError(w)
		}
		return
	}

	switch {
	case errors.Is(err, moveAppointment.ErrAppointmentNotFound):
		handlers.RespondNotFound(w, msgAppointmentNotFound)

	case errors.Is(err, moveAppointment.ErrNotConfirmed):
		handlers.RespondError(w, http.StatusConflict, msgNotConfirmed)

	case errors.Is(err, moveAppointment.ErrInvalidInput):
		handlers.RespondBadRequest(w, msgInvalidRequestBody)

	default:
		h.logger.Error("PUT /appointments/%d/schedule - failed: %v", appointmentID, err)
		handlers.RespondInternalError(w)
	}
}
