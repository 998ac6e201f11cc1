package create_appointment

import (
	"net/http"

	"github.com/m04kA/SMC-SalonScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduling/internal/api/middleware"
)

const (
	route = "POST /appointments"

	msgInvalidRequestBody = "invalid request body"
	msgInvalidDateTime    = "date must be YYYY-MM-DD and startTime must be HH:MM"
	msgMissingUser        = "missing user"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("%s - missing actor", route)
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actor)
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

	h.logger.Info("%s - appointment created: id=%d, customer_id=%d, staff_id=%d",
		route, result.ID, result.CustomerID, result.StaffID)
	handlers.RespondJSON(w, http.StatusCreated, handlers.NewAppointmentResponse(result))
}
