// Package calendar generates candidate appointment start times from staff working hours.
// Pure functions: no storage, no clock.
package calendar

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/pkg/types"
)

// GenerateSlots returns evenly spaced start times from DayStart up to the latest
// start such that start + durationMinutes <= DayEnd.
// A non-working day yields an empty sequence, not an error.
func GenerateSlots(
	avail *domain.StaffAvailability,
	date time.Time,
	durationMinutes int,
	intervalMinutes int,
) ([]types.TimeString, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %d", domain.ErrValidation, durationMinutes)
	}
	if intervalMinutes <= 0 {
		return nil, fmt.Errorf("%w: slot interval must be positive, got %d", domain.ErrValidation, intervalMinutes)
	}

	dayStart, dayEnd, err := workingBounds(avail)
	if err != nil {
		return nil, err
	}

	slots := make([]types.TimeString, 0)
	if !avail.WorksOn(date.Weekday()) {
		return slots, nil
	}

	for start := dayStart; start+durationMinutes <= dayEnd; start += intervalMinutes {
		slot, err := types.NewTimeStringFromMinutes(start)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	return slots, nil
}

// FitsWorkingHours checks that [start, start+durationMinutes) lies inside the
// working hours of the given date. Start does not have to be on the slot grid.
func FitsWorkingHours(
	avail *domain.StaffAvailability,
	date time.Time,
	start types.TimeString,
	durationMinutes int,
) error {
	if durationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %d", domain.ErrValidation, durationMinutes)
	}

	startMin := start.Minutes()
	if startMin < 0 {
		return fmt.Errorf("%w: invalid start time %q", domain.ErrValidation, start)
	}

	dayStart, dayEnd, err := workingBounds(avail)
	if err != nil {
		return err
	}

	if !avail.WorksOn(date.Weekday()) {
		return fmt.Errorf("%w: %s is not a working day", domain.ErrValidation, date.Weekday())
	}
	if startMin < dayStart {
		return fmt.Errorf("%w: start %s is before working hours start %s", domain.ErrValidation, start, avail.DayStart)
	}
	if startMin+durationMinutes > dayEnd {
		return fmt.Errorf("%w: appointment starting at %s for %d minutes ends after %s",
			domain.ErrValidation, start, durationMinutes, avail.DayEnd)
	}

	return nil
}

func workingBounds(avail *domain.StaffAvailability) (int, int, error) {
	if avail == nil {
		return 0, 0, fmt.Errorf("%w: staff availability is required", domain.ErrValidation)
	}

	dayStart := avail.DayStart.Minutes()
	dayEnd := avail.DayEnd.Minutes()
	if dayStart < 0 || dayEnd < 0 {
		return 0, 0, fmt.Errorf("%w: malformed working hours %q-%q", domain.ErrValidation, avail.DayStart, avail.DayEnd)
	}
	if dayStart >= dayEnd {
		return 0, 0, fmt.Errorf("%w: working hours end %s is not after start %s", domain.ErrValidation, avail.DayEnd, avail.DayStart)
	}

	return dayStart, dayEnd, nil
}
