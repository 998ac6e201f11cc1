package get_appointment

import (
	"github.com/m04kA/SMC-SalonScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/appointments"
)

// AppointmentDetailsResponse запись вместе с журналом изменений
type AppointmentDetailsResponse struct {
	*handlers.AppointmentResponse
	History []*handlers.HistoryEntryResponse `json:"history"`
}

// FromServiceResponse конвертирует ответ сервиса в HTTP response
func FromServiceResponse(d *appointments.AppointmentDetails) *AppointmentDetailsResponse {
	return &AppointmentDetailsResponse{
		AppointmentResponse: handlers.NewAppointmentResponse(d.Appointment),
		History:             handlers.NewHistoryResponse(d.History),
	}
}
