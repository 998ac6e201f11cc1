package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/pkg/types"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusPending    AppointmentStatus = "pending"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
	StatusNoShow     AppointmentStatus = "no_show"
)

// AllStatuses lists every known status. Keep in sync with the switches below.
var AllStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// ParseStatus converts a raw string into a known status
func ParseStatus(s string) (AppointmentStatus, error) {
	status := AppointmentStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrValidation, s)
	}
	return status, nil
}

// IsValid returns true for a known status
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// IsOccupying returns true if an appointment in this status blocks its time interval
func (s AppointmentStatus) IsOccupying() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress:
		return true
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return false
	default:
		panic(fmt.Sprintf("domain: unhandled appointment status %q", s))
	}
}

// IsTerminal returns true if no transition leads out of this status
func (s AppointmentStatus) IsTerminal() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress:
		return false
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	default:
		panic(fmt.Sprintf("domain: unhandled appointment status %q", s))
	}
}

// CanTransitionTo reports whether the edge s -> target exists.
// The no_show edge additionally requires the scheduled start to have passed;
// that check needs a clock and is done by the lifecycle service.
func (s AppointmentStatus) CanTransitionTo(target AppointmentStatus) bool {
	if !target.IsValid() {
		return false
	}

	switch s {
	case StatusPending:
		return target == StatusConfirmed || target == StatusCancelled
	case StatusConfirmed:
		return target == StatusInProgress || target == StatusCancelled || target == StatusNoShow
	case StatusInProgress:
		return target == StatusCompleted || target == StatusNoShow
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return false
	default:
		panic(fmt.Sprintf("domain: unhandled appointment status %q", s))
	}
}

// PaymentStatus is owned by payment collaborators; the core only sets the default
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentPartial   PaymentStatus = "partial"
	PaymentRefunded  PaymentStatus = "refunded"
	PaymentCancelled PaymentStatus = "cancelled"
)

// Appointment represents a booked service with a staff member
type Appointment struct {
	ID              int64
	CustomerID      int64
	ServiceID       int64
	StaffID         int64
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          AppointmentStatus

	// Copied from the service at creation time
	Price         float64
	PaymentStatus PaymentStatus
	Notes         *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment occupies its slot
func (a *Appointment) IsActive() bool {
	return a.Status.IsOccupying()
}

// EndTime returns StartTime + DurationMinutes
func (a *Appointment) EndTime() (types.TimeString, error) {
	return a.StartTime.AddMinutes(a.DurationMinutes)
}

// StartsAt returns the absolute start instant in the salon's location
func (a *Appointment) StartsAt(loc *time.Location) time.Time {
	return a.StartTime.On(a.Date, loc)
}

// StatusHistoryEntry is one row of the appointment audit trail.
// FromStatus is nil for the creation entry.
type StatusHistoryEntry struct {
	ID            int64
	AppointmentID int64
	FromStatus    *AppointmentStatus
	ToStatus      AppointmentStatus
	ChangedBy     int64
	Note          *string
	ChangedAt     time.Time
}

// StaffAppointmentsFilter фильтр для получения записей мастера
type StaffAppointmentsFilter struct {
	StaffID         int64              // Обязательный параметр
	StartDate       *time.Time         // Начало периода (опционально)
	EndDate         *time.Time         // Конец периода (опционально)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли завершенные, отмененные и no-show
}

// Event types emitted after a committed change
const (
	EventAppointmentCreated            = "appointment.created"
	EventAppointmentStatusChanged      = "appointment.status_changed"
	EventAppointmentRescheduled        = "appointment.rescheduled"
	EventAppointmentDurationOverridden = "appointment.duration_overridden"
)
