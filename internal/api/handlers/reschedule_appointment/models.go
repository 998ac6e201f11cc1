package reschedule_appointment

import (
	"fmt"

	"github.com/m04kA/SMC-SalonScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	rescheduleAppointment "github.com/m04kA/SMC-SalonScheduling/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SMC-SalonScheduling/pkg/types"
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	Date      string `json:"date"`      // "2025-10-15"
	StartTime string `json:"startTime"` // "10:00"
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleRequest) ToUseCaseRequest(actor domain.Actor, appointmentID int64) (*rescheduleAppointment.Request, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}

	return &rescheduleAppointment.Request{
		Actor:         actor,
		AppointmentID: appointmentID,
		NewDate:       date,
		NewStartTime:  startTime,
	}, nil
}
