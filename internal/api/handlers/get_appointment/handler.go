package get_appointment

import (
	"net/http"

	"github.com/m04kA/SMC-SalonScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduling/internal/api/middleware"
)

const (
	route = "GET /appointments/{appointmentId}"

	msgInvalidAppointmentID = "invalid appointment id"
	msgMissingUser          = "missing user"
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

// Handle GET /api/v1/appointments/{appointmentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	appointmentID, err := handlers.PathID(r, "appointmentId")
	if err != nil {
		h.logger.Warn("%s - %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	result, err := h.service.GetByID(r.Context(), actor, appointmentID)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, route, err)
		return
	}

	h.logger.Info("%s - appointment_id=%d retrieved", route, appointmentID)
	handlers.RespondJSON(w, http.StatusOK, FromServiceResponse(result))
}
