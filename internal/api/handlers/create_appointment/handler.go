package create_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/citaplan/scheduling-service/internal/api/handlers"
	"github.com/citaplan/scheduling-service/internal/service/conflicts"
	createAppointment "github.com/citaplan/scheduling-service/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "cuerpo de la petición no válido"
	msgInvalidCompanyID   = "identificador de empresa no válido"
	msgInvalidDateTime    = "formato de fecha u hora no válido, se espera YYYY-MM-DD y HH:MM"
	msgServiceNotFound    = "servicio no encontrado"
	msgServiceInactive    = "el servicio no está disponible"
	msgPastTime           = "no se puede reservar una cita en el pasado"
	msgDayBlocked         = "el día seleccionado no está disponible"
	msgOutsideSchedule    = "el horario seleccionado está fuera de la jornada laboral"
	msgSlotTaken          = "el horario seleccionado ya está ocupado"
	msgBlacklisted        = "no es posible completar la reserva con estos datos de contacto"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/companies/{companyId}/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, true)
}

// HandlePublic POST /public/companies/{companyId}/appointments
// Same operation without the staff relaxations: past times hard-fail.
func (h *Handler) HandlePublic(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, false)
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, staffRequest bool) {
	companyID, err := strconv.ParseInt(mux.Vars(r)["companyId"], 10, 64)
	if err != nil || companyID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidCompanyID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(companyID, staffRequest)
	if err != nil {
		h.logger.Warn("POST /appointments - failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		h.respondError(w, req, err)
		return
	}

	h.logger.Info("POST /appointments - created appointment id=%d, company=%d", result.ID, companyID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

func (h *Handler) respondError(w http.ResponseWriter, req CreateAppointmentRequest, err error) {
	if rejection, ok := conflicts.AsRejection(err); ok {
		h.logger.Warn("POST /appointments - rejected (%s): worker=%d, date=%s", rejection.Reason, req.WorkerID, req.Date)
		switch rejection.Reason {
		case conflicts.ReasonPastTime:
			handlers.RespondBadRequest(w, msgPastTime)
		case conflicts.ReasonInvalidRange:
			handlers.RespondBadRequest(w, msgInvalidDateTime)
		case conflicts.ReasonDayBlocked:
			handlers.RespondError(w, http.StatusConflict, msgDayBlocked)
		case conflicts.ReasonOutsideSchedule:
			handlers.RespondError(w, http.StatusConflict, msgOutsideSchedule)
		case conflicts.ReasonOverlap:
			handlers.RespondError(w, http.StatusConflict, msgSlotTaken)
		case conflicts.ReasonBlacklisted:
			handlers.RespondForbidden(w, msgBlacklisted)
		default:
			handlers.RespondInternalError(w)
		}
		return
	}

	switch {
	case errors.Is(err, createAppointment.ErrServiceNotFound):
		h.logger.Warn("POST /appointments - service not found: service=%d", req.ServiceID)
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, createAppointment.ErrServiceInactive):
		handlers.RespondBadRequest(w, msgServiceInactive)

	case errors.Is(err, createAppointment.ErrInvalidInput):
		h.logger.Warn("POST /appointments - invalid input: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)

	default:
		h.logger.Error("POST /appointments - failed to create appointment: %v", err)
		handlers.RespondInternalError(w)
	}
}
