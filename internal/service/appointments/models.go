package appointments

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/pkg/types"
)

// BookInput данные для создания записи
// Service и Availability уже получены из каталога
type BookInput struct {
	Actor        domain.Actor
	CustomerID   int64
	Service      *domain.Service
	Availability *domain.StaffAvailability
	Date         time.Time
	StartTime    types.TimeString
	Notes        *string
}

// RescheduleInput данные для переноса записи
type RescheduleInput struct {
	Actor         domain.Actor
	AppointmentID int64
	NewDate       time.Time
	NewStartTime  types.TimeString
	Availability  *domain.StaffAvailability
}

// OverrideDurationInput данные для изменения длительности записи мастером
type OverrideDurationInput struct {
	Actor           domain.Actor
	AppointmentID   int64
	DurationMinutes int
	Note            string
	Availability    *domain.StaffAvailability
}

// AppointmentDetails запись вместе с журналом изменений
type AppointmentDetails struct {
	Appointment *domain.Appointment
	History     []*domain.StatusHistoryEntry
}
