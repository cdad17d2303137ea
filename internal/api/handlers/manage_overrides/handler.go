package manage_overrides

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/citaplan/scheduling-service/internal/api/handlers"
	"github.com/citaplan/scheduling-service/internal/domain"
	scheduleService "github.com/citaplan/scheduling-service/internal/service/schedule"
)

const (
	msgInvalidRequestBody = "cuerpo de la petición no válido"
	msgInvalidID          = "identificador no válido"
	msgInvalidDate        = "formato de fecha no válido, se espera YYYY-MM-DD"
	msgInvalidRange       = "rango de fechas no válido"
	msgHolidayNotFound    = "día festivo no encontrado"
	msgLeaveNotFound      = "solicitud de ausencia no encontrada"
	msgLeaveDecided       = "la solicitud de ausencia ya fue resuelta"
	msgReasonRequired     = "se requiere un motivo para rechazar la solicitud"
	msgInvalidStatus      = "estado de solicitud no válido"
)

type Handler struct {
	service OverrideService
	logger  Logger
}

func NewHandler(service OverrideService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleCreateHoliday POST /api/v1/companies/{companyId}/holidays
func (h *Handler) HandleCreateHoliday(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyID(w, r)
	if !ok {
		return
	}

	var req CreateHolidayRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	holiday, err := h.service.CreateHoliday(r.Context(), companyID, date, req.Name)
	if err != nil {
		if errors.Is(err, scheduleService.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		h.logger.Error("POST /holidays - failed for company=%d: %v", companyID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /holidays - company=%d blocked %s", companyID, req.Date)
	handlers.RespondJSON(w, http.StatusCreated, FromDomainHoliday(holiday))
}

// HandleDeleteHoliday DELETE /api/v1/companies/{companyId}/holidays/{id}
func (h *Handler) HandleDeleteHoliday(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyID(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	if err := h.service.DeleteHoliday(r.Context(), companyID, id); err != nil {
		if errors.Is(err, scheduleService.ErrHolidayNotFound) {
			handlers.RespondNotFound(w, msgHolidayNotFound)
			return
		}
		h.logger.Error("DELETE /holidays/%d - failed: %v", id, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

// HandleListHolidays GET /api/v1/companies/{companyId}/holidays
// Query params: start, end (inclusive dates)
func (h *Handler) HandleListHolidays(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyID(w, r)
	if !ok {
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

	holidays, err := h.service.ListHolidays(r.Context(), companyID, start, end)
	if err != nil {
		h.logger.Error("GET /holidays - failed for company=%d: %v", companyID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomainHolidays(holidays))
}

// HandleRequestLeave POST /api/v1/companies/{companyId}/leave-requests
func (h *Handler) HandleRequestLeave(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyID(w, r)
	if !ok {
		return
	}

	var req RequestLeaveRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.WorkerID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	startDate, err := time.Parse(domain.DateFormat, req.StartDate)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	endDate, err := time.Parse(domain.DateFormat, req.EndDate)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	leave, err := h.service.RequestLeave(r.Context(), companyID, req.WorkerID, startDate, endDate, req.Reason)
	if err != nil {
		if errors.Is(err, scheduleService.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidRange)
			return
		}
		h.logger.Error("POST /leave-requests - failed for worker=%d: %v", req.WorkerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /leave-requests - worker=%d filed id=%d", req.WorkerID, leave.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomainLeave(leave))
}

// HandleApproveLeave POST /api/v1/companies/{companyId}/leave-requests/{id}/approve
func (h *Handler) HandleApproveLeave(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "approve")
}

// HandleRejectLeave POST /api/v1/companies/{companyId}/leave-requests/{id}/reject
func (h *Handler) HandleRejectLeave(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "reject")
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, op string) {
	companyID, ok := companyID(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	if op == "approve" {
		err = h.service.ApproveLeave(r.Context(), companyID, id)
	} else {
		var req RejectLeaveRequest
		if decodeErr := handlers.DecodeJSON(r, &req); decodeErr != nil {
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
		err = h.service.RejectLeave(r.Context(), companyID, id, req.Reason)
	}

	if err != nil {
		switch {
		case errors.Is(err, scheduleService.ErrLeaveNotFound):
			handlers.RespondNotFound(w, msgLeaveNotFound)

		case errors.Is(err, scheduleService.ErrLeaveAlreadyDecided):
			handlers.RespondError(w, http.StatusConflict, msgLeaveDecided)

		case errors.Is(err, scheduleService.ErrRejectionReasonRequired):
			handlers.RespondBadRequest(w, msgReasonRequired)

		default:
			h.logger.Error("POST /leave-requests/%d/%s - failed: %v", id, op, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /leave-requests/%d/%s - done", id, op)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

// HandleListLeave GET /api/v1/companies/{companyId}/leave-requests
// Query params: status (optional)
func (h *Handler) HandleListLeave(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyID(w, r)
	if !ok {
		return
	}

	var status *domain.LeaveStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed := domain.LeaveStatus(raw)
		switch parsed {
		case domain.LeavePending, domain.LeaveApproved, domain.LeaveRejected:
			status = &parsed
		default:
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}
	}

	leaves, err := h.service.ListLeaveRequests(r.Context(), companyID, status)
	if err != nil {
		h.logger.Error("GET /leave-requests - failed for company=%d: %v", companyID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomainLeaves(leaves))
}

func companyID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["companyId"], 10, 64)
	if err != nil || id <= 0 {
		handlers.RespondBadRequest(w, msgInvalidID)
		return 0, false
	}
	return id, true
}
