package domain

// Default configuration values
const (
	DefaultSlotIntervalMinutes = 30
	DefaultMaxAdvanceDays      = 90
	DefaultTimezone            = "UTC"
)

// Business validation constants
const (
	MinSlotIntervalMinutes      = 5
	MaxSlotIntervalMinutes      = 240
	MaxAdvanceDays              = 365
	MaxDurationMinutes          = 24 * 60
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxOverrideNoteLength       = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, занимающие слот
// Используется для выборки записей при проверке пересечений
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
}

// InactiveStatuses статусы, не занимающие слот
var InactiveStatuses = []AppointmentStatus{
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}
