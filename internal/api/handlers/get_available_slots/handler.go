package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/citaplan/scheduling-service/internal/api/handlers"
	"github.com/citaplan/scheduling-service/internal/domain"
	getAvailableSlots "github.com/citaplan/scheduling-service/internal/usecase/get_available_slots"
)

const (
	msgInvalidCompanyID = "identificador de empresa no válido"
	msgInvalidWorkerID  = "identificador de profesional no válido"
	msgInvalidServiceID = "identificador de servicio no válido"
	msgMissingDate      = "la fecha es obligatoria"
	msgInvalidDate      = "formato de fecha no válido, se espera YYYY-MM-DD"
	msgPastDate         = "no se pueden consultar huecos de fechas pasadas"
	msgServiceNotFound  = "servicio no encontrado"
	msgServiceInactive  = "el servicio no está disponible"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/companies/{companyId}/workers/{workerId}/slots
// Query params: serviceId, date
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	companyID, err := strconv.ParseInt(vars["companyId"], 10, 64)
	if err != nil || companyID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidCompanyID)
		return
	}
	workerID, err := strconv.ParseInt(vars["workerId"], 10, 64)
	if err != nil || workerID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidWorkerID)
		return
	}

	query := r.URL.Query()
	serviceID, err := strconv.ParseInt(query.Get("serviceId"), 10, 64)
	if err != nil || serviceID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	rawDate := query.Get("date")
	if rawDate == "" {
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	date, err := time.Parse(domain.DateFormat, rawDate)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		CompanyID: companyID,
		WorkerID:  workerID,
		ServiceID: serviceID,
		Date:      date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceInactive):
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /workers/%d/slots - failed: %v", workerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /workers/%d/slots - %d slots for %s", workerID, len(result.Slots), rawDate)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
