package get_customer_appointments

import (
	"net/http"

	"github.com/m04kA/SMC-SalonScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduling/internal/api/middleware"
)

const (
	route = "GET /customers/{customerId}/appointments"

	msgInvalidCustomerID = "invalid customer id"
	msgInvalidStatus     = "unknown status"
	msgMissingUser       = "missing user"
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

// Handle GET /api/v1/customers/{customerId}/appointments?status=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	customerID, err := handlers.PathID(r, "customerId")
	if err != nil {
		h.logger.Warn("%s - %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidCustomerID)
		return
	}

	status, err := handlers.ParseOptionalStatus(r.URL.Query().Get("status"))
	if err != nil {
		h.logger.Warn("%s - %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidStatus)
		return
	}

	result, err := h.service.ListByCustomer(r.Context(), actor, customerID, status)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, route, err)
		return
	}

	h.logger.Info("%s - customer_id=%d, count=%d", route, customerID, len(result))
	handlers.RespondJSON(w, http.StatusOK, handlers.NewAppointmentsResponse(result))
}
