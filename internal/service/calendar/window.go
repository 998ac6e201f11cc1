package calendar

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/pkg/types"
)

// CheckBookingWindow rejects a start instant that has already passed in loc
// or a date more than maxAdvanceDays after today in loc.
// maxAdvanceDays = 0 disables the upper bound.
func CheckBookingWindow(
	date time.Time,
	start types.TimeString,
	now time.Time,
	loc *time.Location,
	maxAdvanceDays int,
) error {
	if start.Minutes() < 0 {
		return fmt.Errorf("%w: invalid start time %q", domain.ErrValidation, start)
	}

	startsAt := start.On(date, loc)
	if startsAt.Before(now) {
		return fmt.Errorf("%w: %s %s is in the past", domain.ErrValidation, date.Format(domain.DateFormat), start)
	}

	return checkAdvance(date, now, loc, maxAdvanceDays)
}

// CheckDate is CheckBookingWindow for a whole day: yesterday and earlier are rejected
func CheckDate(date, now time.Time, loc *time.Location, maxAdvanceDays int) error {
	if dateOnly(date, loc).Before(Today(now, loc)) {
		return fmt.Errorf("%w: %s is in the past", domain.ErrValidation, date.Format(domain.DateFormat))
	}
	return checkAdvance(date, now, loc, maxAdvanceDays)
}

// Today returns midnight of the current day in loc
func Today(now time.Time, loc *time.Location) time.Time {
	return dateOnly(now.In(loc), loc)
}

func checkAdvance(date, now time.Time, loc *time.Location, maxAdvanceDays int) error {
	if maxAdvanceDays == 0 {
		return nil
	}

	maxDate := Today(now, loc).AddDate(0, 0, maxAdvanceDays)
	if dateOnly(date, loc).After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", domain.ErrValidation, maxAdvanceDays)
	}
	return nil
}

func dateOnly(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
