package public_cancel

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/citaplan/scheduling-service/internal/api/handlers"
	"github.com/citaplan/scheduling-service/internal/service/appointments"
)

const (
	msgInvalidRequestBody  = "cuerpo de la petición no válido"
	msgAppointmentNotFound = "cita no encontrada"
	msgAlreadyResolved     = "la cita ya no se puede anular"
)

// CancelRequest carries the client's optional cancellation reason.
type CancelRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// Handler serves the login-free cancellation flow behind the emailed link.
// The token is the only credential; no identity headers are required.
type Handler struct {
	service AppointmentCanceller
	logger  Logger
}

func NewHandler(service AppointmentCanceller, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleGet GET /public/appointments/{token}
// Shows the appointment the token points at so the client can confirm.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	result, err := h.service.GetByCancelToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, appointments.ErrAppointmentNotFound) || errors.Is(err, appointments.ErrInvalidInput) {
			handlers.RespondNotFound(w, msgAppointmentNotFound)
			return
		}
		h.logger.Error("GET /public/appointments - failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleCancel POST /public/appointments/{token}/cancel
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	var req CancelRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CancelByToken(r.Context(), token, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound), errors.Is(err, appointments.ErrInvalidInput):
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, appointments.ErrIllegalTransition):
			handlers.RespondError(w, http.StatusConflict, msgAlreadyResolved)

		default:
			h.logger.Error("POST /public/appointments/cancel - failed: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /public/appointments/cancel - appointment id=%d cancelled by client", result.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
