package reschedule_appointment

import (
	"net/http"

	"github.com/m04kA/SMC-SalonScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduling/internal/api/middleware"
)

const (
	route = "PATCH /appointments/{appointmentId}/reschedule"

	msgInvalidAppointmentID = "invalid appointment id"
	msgInvalidRequestBody   = "invalid request body"
	msgInvalidDateTime      = "date must be YYYY-MM-DD and startTime must be HH:MM"
	msgMissingUser          = "missing user"
)

type Handler struct {
	useCase RescheduleUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/reschedule
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

	var req RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actor, appointmentID)
	if err != nil {
		h.logger.Warn("%s - failed to parse request: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, route, err)
		return
	}

	h.logger.Info("%s - appointment_id=%d rescheduled", route, appointmentID)
	handlers.RespondJSON(w, http.StatusOK, handlers.NewAppointmentResponse(result))
}
