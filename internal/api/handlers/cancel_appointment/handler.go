package cancel_appointment

import (
	"net/http"

	"github.com/m04kA/SMC-SalonScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduling/internal/api/middleware"
)

const (
	route = "PATCH /appointments/{appointmentId}/cancel"

	msgInvalidAppointmentID = "invalid appointment id"
	msgInvalidRequestBody   = "invalid request body"
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

// Handle PATCH /api/v1/appointments/{appointmentId}/cancel
// Повторная отмена возвращает 200 с текущим состоянием
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

	var req CancelRequest
	if err := handlers.DecodeOptionalJSON(r, &req); err != nil {
		h.logger.Warn("%s - invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Cancel(r.Context(), actor, appointmentID, req.Reason)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, route, err)
		return
	}

	h.logger.Info("%s - appointment_id=%d cancelled by user_id=%d", route, appointmentID, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, handlers.NewAppointmentResponse(result))
}
