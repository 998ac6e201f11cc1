package create_appointment

import (
	"fmt"

	"github.com/m04kA/SMC-SalonScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	createAppointment "github.com/m04kA/SMC-SalonScheduling/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-SalonScheduling/pkg/types"
)

// CreateAppointmentRequest HTTP request model
// Длительность и цена не принимаются: они берутся из услуги
type CreateAppointmentRequest struct {
	CustomerID *int64  `json:"customerId,omitempty"` // По умолчанию текущий пользователь
	ServiceID  int64   `json:"serviceId"`
	StaffID    int64   `json:"staffId"`
	Date       string  `json:"date"`      // "2025-10-15"
	StartTime  string  `json:"startTime"` // "10:00"
	Notes      *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(actor domain.Actor) (*createAppointment.Request, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}

	customerID := actor.UserID
	if r.CustomerID != nil {
		customerID = *r.CustomerID
	}

	return &createAppointment.Request{
		Actor:      actor,
		CustomerID: customerID,
		ServiceID:  r.ServiceID,
		StaffID:    r.StaffID,
		Date:       date,
		StartTime:  startTime,
		Notes:      r.Notes,
	}, nil
}
