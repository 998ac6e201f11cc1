package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduling/pkg/types"
)

// Service is a bookable salon service. Read-only for this core.
type Service struct {
	ID              int64
	Name            string
	Category        string
	DurationMinutes int
	Price           float64
	Active          bool
}

// StaffAvailability describes a staff member's weekly working hours
// in the salon's local time
type StaffAvailability struct {
	StaffID     int64
	WorkingDays []time.Weekday
	DayStart    types.TimeString
	DayEnd      types.TimeString
	Active      bool
}

// WorksOn returns true if the given weekday is a working day
func (s *StaffAvailability) WorksOn(day time.Weekday) bool {
	for _, d := range s.WorkingDays {
		if d == day {
			return true
		}
	}
	return false
}
