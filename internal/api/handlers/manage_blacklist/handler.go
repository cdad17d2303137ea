package manage_blacklist

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/citaplan/scheduling-service/internal/api/handlers"
	"github.com/citaplan/scheduling-service/internal/domain"
	blacklistService "github.com/citaplan/scheduling-service/internal/service/blacklist"
)

const (
	msgInvalidRequestBody = "cuerpo de la petición no válido"
	msgInvalidID          = "identificador no válido"
	msgContactRequired    = "se requiere un teléfono o un correo electrónico"
	msgDuplicateContact   = "el contacto ya está en la lista de bloqueo"
	msgEntryNotFound      = "entrada de la lista de bloqueo no encontrada"
)

// AddEntryRequest blocks a contact.
type AddEntryRequest struct {
	Phone  *string `json:"phone,omitempty"`
	Email  *string `json:"email,omitempty"`
	Reason *string `json:"reason,omitempty"`
}

// EntryResponse is one blacklist entry.
type EntryResponse struct {
	ID        int64   `json:"id"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
	Reason    *string `json:"reason,omitempty"`
	Active    bool    `json:"active"`
	CreatedAt string  `json:"createdAt"`
}

type Handler struct {
	service BlacklistService
	logger  Logger
}

func NewHandler(service BlacklistService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleAdd POST /api/v1/companies/{companyId}/blacklist
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyID(w, r)
	if !ok {
		return
	}

	var req AddEntryRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	entry, err := h.service.Add(r.Context(), companyID, req.Phone, req.Email, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, blacklistService.ErrContactRequired):
			handlers.RespondBadRequest(w, msgContactRequired)

		case errors.Is(err, blacklistService.ErrDuplicateContact):
			handlers.RespondError(w, http.StatusConflict, msgDuplicateContact)

		default:
			h.logger.Error("POST /blacklist - failed for company=%d: %v", companyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /blacklist - company=%d added entry id=%d", companyID, entry.ID)
	handlers.RespondJSON(w, http.StatusCreated, fromDomain(entry))
}

// HandleRemove DELETE /api/v1/companies/{companyId}/blacklist/{id}
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyID(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	if err := h.service.Remove(r.Context(), companyID, id); err != nil {
		if errors.Is(err, blacklistService.ErrEntryNotFound) {
			handlers.RespondNotFound(w, msgEntryNotFound)
			return
		}
		h.logger.Error("DELETE /blacklist/%d - failed: %v", id, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

// HandleList GET /api/v1/companies/{companyId}/blacklist
// Query params: all=true includes deactivated entries
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyID(w, r)
	if !ok {
		return
	}

	activeOnly := r.URL.Query().Get("all") != "true"
	entries, err := h.service.List(r.Context(), companyID, activeOnly)
	if err != nil {
		h.logger.Error("GET /blacklist - failed for company=%d: %v", companyID, err)
		handlers.RespondInternalError(w)
		return
	}

	out := make([]EntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, *fromDomain(&entries[i]))
	}
	handlers.RespondJSON(w, http.StatusOK, out)
}

func fromDomain(entry *domain.BlacklistEntry) *EntryResponse {
	return &EntryResponse{
		ID:        entry.ID,
		Phone:     entry.Phone,
		Email:     entry.Email,
		Reason:    entry.Reason,
		Active:    entry.Active,
		CreatedAt: entry.CreatedAt.Format(time.RFC3339),
	}
}

func companyID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["companyId"], 10, 64)
	if err != nil || id <= 0 {
		handlers.RespondBadRequest(w, msgInvalidID)
		return 0, false
	}
	return id, true
}
