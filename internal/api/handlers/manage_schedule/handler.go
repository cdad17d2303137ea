package manage_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/citaplan/scheduling-service/internal/api/handlers"
	scheduleService "github.com/citaplan/scheduling-service/internal/service/schedule"
)

const (
	msgInvalidRequestBody = "cuerpo de la petición no válido"
	msgInvalidID          = "identificador no válido"
	msgScheduleOverlap    = "los intervalos del horario se solapan"
	msgInvalidIntervals   = "intervalos de horario no válidos"
	msgInvalidGranularity = "granularidad de huecos no válida"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleGet GET /api/v1/companies/{companyId}/workers/{workerId}/schedule
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	companyID, workerID, ok := pathIDs(w, r)
	if !ok {
		return
	}

	intervals, err := h.service.GetWorkerSchedule(r.Context(), companyID, workerID)
	if err != nil {
		h.logger.Error("GET /workers/%d/schedule - failed: %v", workerID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomainIntervals(intervals))
}

// HandleReplace PUT /api/v1/companies/{companyId}/workers/{workerId}/schedule
// With workerId "company" the company-wide fallback schedule is replaced.
func (h *Handler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	companyID, err := strconv.ParseInt(vars["companyId"], 10, 64)
	if err != nil || companyID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	var workerID *int64
	if raw := vars["workerId"]; raw != "company" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			handlers.RespondBadRequest(w, msgInvalidID)
			return
		}
		workerID = &parsed
	}

	var req ReplaceScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	intervals, err := req.ToDomainIntervals(companyID, workerID)
	if err != nil {
		h.logger.Warn("PUT schedule - invalid intervals: %v", err)
		handlers.RespondBadRequest(w, msgInvalidIntervals)
		return
	}

	if err := h.service.ReplaceSchedule(r.Context(), companyID, workerID, intervals); err != nil {
		switch {
		case errors.Is(err, scheduleService.ErrScheduleOverlap):
			handlers.RespondError(w, http.StatusConflict, msgScheduleOverlap)

		case errors.Is(err, scheduleService.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidIntervals)

		default:
			h.logger.Error("PUT schedule - failed for company=%d: %v", companyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT schedule - company=%d worker=%v replaced with %d intervals", companyID, workerID, len(intervals))
	handlers.RespondJSON(w, http.StatusOK, FromDomainIntervals(intervals))
}

// HandleGetSettings GET /api/v1/companies/{companyId}/workers/{workerId}/settings
func (h *Handler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	companyID, workerID, ok := pathIDs(w, r)
	if !ok {
		return
	}

	settings, err := h.service.GetWorkerSettings(r.Context(), companyID, workerID)
	if err != nil {
		h.logger.Error("GET /workers/%d/settings - failed: %v", workerID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, SettingsResponse{
		WorkerID:               settings.WorkerID,
		SlotGranularityMinutes: settings.SlotGranularityMinutes,
	})
}

// HandleUpdateGranularity PUT /api/v1/companies/{companyId}/workers/{workerId}/settings
func (h *Handler) HandleUpdateGranularity(w http.ResponseWriter, r *http.Request) {
	companyID, workerID, ok := pathIDs(w, r)
	if !ok {
		return
	}

	var req GranularityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.UpdateGranularity(r.Context(), companyID, workerID, req.SlotGranularityMinutes); err != nil {
		if errors.Is(err, scheduleService.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidGranularity)
			return
		}
		h.logger.Error("PUT /workers/%d/settings - failed: %v", workerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /workers/%d/settings - granularity=%d", workerID, req.SlotGranularityMinutes)
	handlers.RespondJSON(w, http.StatusOK, SettingsResponse{
		WorkerID:               workerID,
		SlotGranularityMinutes: req.SlotGranularityMinutes,
	})
}

func pathIDs(w http.ResponseWriter, r *http.Request) (companyID, workerID int64, ok bool) {
	vars := mux.Vars(r)
	companyID, err := strconv.ParseInt(vars["companyId"], 10, 64)
	if err != nil || companyID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidID)
		return 0, 0, false
	}
	workerID, err = strconv.ParseInt(vars["workerId"], 10, 64)
	if err != nil || workerID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidID)
		return 0, 0, false
	}
	return companyID, workerID, true
}
