package handlers

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

// AppointmentResponse HTTP модель записи
type AppointmentResponse struct {
	ID                 int64   `json:"id"`
	CustomerID         int64   `json:"customerId"`
	ServiceID          int64   `json:"serviceId"`
	StaffID            int64   `json:"staffId"`
	Date               string  `json:"date"`
	StartTime          string  `json:"startTime"`
	EndTime            string  `json:"endTime"`
	DurationMinutes    int     `json:"durationMinutes"`
	Status             string  `json:"status"`
	Price              float64 `json:"price"`
	PaymentStatus      string  `json:"paymentStatus"`
	Notes              *string `json:"notes,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`
	CreatedAt          string  `json:"createdAt"`
	UpdatedAt          string  `json:"updatedAt"`
}

// HistoryEntryResponse HTTP модель записи журнала
type HistoryEntryResponse struct {
	FromStatus *string `json:"fromStatus,omitempty"`
	ToStatus   string  `json:"toStatus"`
	ChangedBy  int64   `json:"changedBy"`
	Note       *string `json:"note,omitempty"`
	ChangedAt  string  `json:"changedAt"`
}

// NewAppointmentResponse конвертирует доменную запись в HTTP модель
func NewAppointmentResponse(a *domain.Appointment) *AppointmentResponse {
	resp := &AppointmentResponse{
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
		CreatedAt:          a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          a.UpdatedAt.Format(time.RFC3339),
	}

	if end, err := a.EndTime(); err == nil {
		resp.EndTime = end.String()
	}
	if a.CancelledAt != nil {
		cancelledAt := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}

	return resp
}

// NewAppointmentsResponse конвертирует список записей
func NewAppointmentsResponse(list []*domain.Appointment) []*AppointmentResponse {
	result := make([]*AppointmentResponse, 0, len(list))
	for _, a := range list {
		result = append(result, NewAppointmentResponse(a))
	}
	return result
}

// NewHistoryResponse конвертирует журнал изменений
func NewHistoryResponse(history []*domain.StatusHistoryEntry) []*HistoryEntryResponse {
	result := make([]*HistoryEntryResponse, 0, len(history))
	for _, e := range history {
		entry := &HistoryEntryResponse{
			ToStatus:  string(e.ToStatus),
			ChangedBy: e.ChangedBy,
			Note:      e.Note,
			ChangedAt: e.ChangedAt.Format(time.RFC3339),
		}
		if e.FromStatus != nil {
			from := string(*e.FromStatus)
			entry.FromStatus = &from
		}
		result = append(result, entry)
	}
	return result
}
