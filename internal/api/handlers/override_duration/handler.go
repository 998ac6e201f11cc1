package override_duration

import (
	"net/http"

	"github.com/m04kA/SMC-SalonScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduling/internal/api/middleware"
	overrideDuration "github.com/m04kA/SMC-SalonScheduling/internal/usecase/override_duration"
)

const (
	route = "PATCH /appointments/{appointmentId}/duration"

	msgInvalidAppointmentID = "invalid appointment id"
	msgInvalidRequestBody   = "invalid request body"
	msgMissingUser          = "missing user"
)

type Handler struct {
	useCase OverrideDurationUseCase
	logger  Logger
}

func NewHandler(useCase OverrideDurationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/duration
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

	var req OverrideDurationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &overrideDuration.Request{
		Actor:           actor,
		AppointmentID:   appointmentID,
		DurationMinutes: req.DurationMinutes,
		Note:            req.Note,
	})
	if err != nil {
		handlers.RespondDomainError(w, h.logger, route, err)
		return
	}

	h.logger.Info("%s - appointment_id=%d duration=%d", route, appointmentID, result.DurationMinutes)
	handlers.RespondJSON(w, http.StatusOK, handlers.NewAppointmentResponse(result))
}
