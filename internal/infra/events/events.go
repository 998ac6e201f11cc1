package events

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

// Event конверт события об изменении записи
type Event struct {
	ID          string             `json:"eventId"`
	Type        string             `json:"eventType"`
	OccurredAt  time.Time          `json:"occurredAt"`
	Appointment AppointmentPayload `json:"appointment"`
}

// AppointmentPayload снимок записи после изменения
type AppointmentPayload struct {
	ID                 int64      `json:"id"`
	CustomerID         int64      `json:"customerId"`
	ServiceID          int64      `json:"serviceId"`
	StaffID            int64      `json:"staffId"`
	Date               string     `json:"date"`
	StartTime          string     `json:"startTime"`
	DurationMinutes    int        `json:"durationMinutes"`
	Status             string     `json:"status"`
	Price              float64    `json:"price"`
	PaymentStatus      string     `json:"paymentStatus"`
	Notes              *string    `json:"notes,omitempty"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

func newPayload(a *domain.Appointment) AppointmentPayload {
	return AppointmentPayload{
		ID:                 a.ID,
		CustomerID:         a.CustomerID,
		ServiceID:          a.ServiceID,
		StaffID:            a.StaffID,
		Date:               a.Date.Format(domain.DateFormat),
		StartTime:          a.StartTime.String(),
		DurationMinutes:    a.DurationMinutes,
		Status:             string(a.Status),
		Price:              a.Price,
		PaymentStatus:      string(a.PaymentStatus),
		Notes:              a.Notes,
		CancellationReason: a.CancellationReason,
		CancelledAt:        a.CancelledAt,
		UpdatedAt:          a.UpdatedAt,
	}
}
