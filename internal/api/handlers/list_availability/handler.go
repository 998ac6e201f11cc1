package list_availability

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SalonScheduling/internal/api/handlers"
	listAvailability "github.com/m04kA/SMC-SalonScheduling/internal/usecase/list_availability"
)

const (
	route = "GET /staff/{staffId}/availability"

	msgInvalidStaffID   = "invalid staff id"
	msgInvalidServiceID = "serviceId query parameter must be a positive integer"
	msgInvalidDate      = "date query parameter must be YYYY-MM-DD"
)

type Handler struct {
	useCase ListAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase ListAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/staff/{staffId}/availability?serviceId=&date=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, err := handlers.PathID(r, "staffId")
	if err != nil {
		h.logger.Warn("%s - %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	serviceID, err := strconv.ParseInt(r.URL.Query().Get("serviceId"), 10, 64)
	if err != nil || serviceID <= 0 {
		h.logger.Warn("%s - invalid serviceId: %q", route, r.URL.Query().Get("serviceId"))
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	date, err := handlers.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("%s - invalid date: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &listAvailability.Request{
		StaffID:   staffID,
		ServiceID: serviceID,
		Date:      date,
	})
	if err != nil {
		handlers.RespondDomainError(w, h.logger, route, err)
		return
	}

	h.logger.Info("%s - staff_id=%d, service_id=%d, slots=%d", route, staffID, serviceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
