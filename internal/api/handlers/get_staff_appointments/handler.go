package get_staff_appointments

import (
	"net/http"

	"github.com/m04kA/SMC-SalonScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduling/internal/api/middleware"
)

const (
	route = "GET /staff/{staffId}/appointments"

	msgInvalidStaffID = "invalid staff id"
	msgInvalidParams  = "invalid query parameters"
	msgMissingUser    = "missing user"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/staff/{staffId}/appointments
// Query params: startDate, endDate, status, includeInactive (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	staffID, err := handlers.PathID(r, "staffId")
	if err != nil {
		h.logger.Warn("%s - %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	filter, err := ToFilter(staffID, r.URL.Query())
	if err != nil {
		h.logger.Warn("%s - invalid parameters: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListByStaff(r.Context(), actor, filter)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, route, err)
		return
	}

	h.logger.Info("%s - staff_id=%d, count=%d", route, staffID, len(result))
	handlers.RespondJSON(w, http.StatusOK, handlers.NewAppointmentsResponse(result))
}
