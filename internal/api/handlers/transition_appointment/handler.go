package transition_appointment

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/citaplan/scheduling-service/internal/api/handlers"
	"github.com/citaplan/scheduling-service/internal/service/appointments"
	"github.com/citaplan/scheduling-service/internal/service/conflicts"
)

const (
	msgInvalidRequestBody  = "cuerpo de la petición no válido"
	msgInvalidID           = "identificador no válido"
	msgAppointmentNotFound = "cita no encontrada"
	msgIllegalTransition   = "el estado actual de la cita no permite esta operación"
	msgInvalidPaymentType  = "forma de pago no válida (tarjeta, efectivo, bizum, otros)"
	msgSlotTaken           = "el horario de la cita ya está ocupado, no se puede reabrir"
)

// ReasonRequest carries the optional reason of a cancel or annul.
type ReasonRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// CompleteRequest carries the payment of a completion.
type CompleteRequest struct {
	PaymentType string `json:"paymentType"`
}

// Handler drives the four lifecycle endpoints of an appointment.
type Handler struct {
	service AppointmentLifecycle
	logger  Logger
}

func NewHandler(service AppointmentLifecycle, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleCancel POST /api/v1/companies/{companyId}/appointments/{id}/cancel
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	companyID, id, ok := pathIDs(w, r)
	if !ok {
		return
	}

	// The reason body is optional on cancellation.
	var req ReasonRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Cancel(r.Context(), companyID, id, req.Reason)
	if err != nil {
		h.respondError(w, "cancel", id, err)
		return
	}

	h.logger.Info("POST /appointments/%d/cancel - cancelled", id)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleComplete POST /api/v1/companies/{companyId}/appointments/{id}/complete
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	companyID, id, ok := pathIDs(w, r)
	if !ok {
		return
	}

	var req CompleteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Complete(r.Context(), companyID, id, req.PaymentType)
	if err != nil {
		h.respondError(w, "complete", id, err)
		return
	}

	h.logger.Info("POST /appointments/%d/complete - completed, payment=%s", id, req.PaymentType)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleAnnul POST /api/v1/companies/{companyId}/appointments/{id}/annul
func (h *Handler) HandleAnnul(w http.ResponseWriter, r *http.Request) {
	companyID, id, ok := pathIDs(w, r)
	if !ok {
		return
	}

	var req ReasonRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Annul(r.Context(), companyID, id, req.Reason)
	if err != nil {
		h.respondError(w, "annul", id, err)
		return
	}

	h.logger.Info("POST /appointments/%d/annul - annulled", id)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleReopen POST /api/v1/companies/{companyId}/appointments/{id}/reopen
func (h *Handler) HandleReopen(w http.ResponseWriter, r *http.Request) {
	companyID, id, ok := pathIDs(w, r)
	if !ok {
		return
	}

	result, err := h.service.Reopen(r.Context(), companyID, id)
	if err != nil {
		h.respondError(w, "reopen", id, err)
		return
	}

	h.logger.Info("POST /appointments/%d/reopen - reopened", id)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, id int64, err error) {
	if rejection, ok := conflicts.AsRejection(err); ok {
		h.logger.Warn("appointments/%d/%s - rejected (%s)", id, op, rejection.Reason)
		handlers.RespondError(w, http.StatusConflict, msgSlotTaken)
		return
	}

	switch {
	case errors.Is(err, appointments.ErrAppointmentNotFound):
		handlers.RespondNotFound(w, msgAppointmentNotFound)

	case errors.Is(err, appointments.ErrIllegalTransition):
		h.logger.Warn("appointments/%d/%s - illegal transition: %v", id, op, err)
		handlers.RespondError(w, http.StatusConflict, msgIllegalTransition)

	case errors.Is(err, appointments.ErrInvalidPaymentType):
		handlers.RespondBadRequest(w, msgInvalidPaymentType)

	case errors.Is(err, appointments.ErrInvalidInput):
		handlers.RespondBadRequest(w, msgInvalidRequestBody)

	default:
		h.logger.Error("appointments/%d/%s - failed: %v", id, op, err)
		handlers.RespondInternalError(w)
	}
}

func pathIDs(w http.ResponseWriter, r *http.Request) (companyID, id int64, ok bool) {
	vars := mux.Vars(r)
	companyID, err := strconv.ParseInt(vars["companyId"], 10, 64)
	if err != nil || companyID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidID)
		return 0, 0, false
	}
	id, err = strconv.ParseInt(vars["id"], 10, 64)
	if err != nil || id <= 0 {
		handlers.RespondBadRequest(w, msgInvalidID)
		return 0, 0, false
	}
	return companyID, id, true
}
