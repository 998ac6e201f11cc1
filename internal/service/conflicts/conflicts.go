// Package conflicts classifies candidate intervals against existing appointments.
package conflicts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/pkg/types"
)

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Intervals touching at an endpoint do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// FindConflicts returns occupying appointments overlapping [start, start+durationMinutes).
// existing must already be scoped to one staff member and date.
// An appointment with id == excludeID is ignored (reschedule of itself).
func FindConflicts(
	start types.TimeString,
	durationMinutes int,
	existing []*domain.Appointment,
	excludeID *int64,
) ([]domain.ConflictingAppointment, error) {
	startMin := start.Minutes()
	if startMin < 0 {
		return nil, fmt.Errorf("%w: invalid start time %q", domain.ErrValidation, start)
	}
	endMin := startMin + durationMinutes

	result := make([]domain.ConflictingAppointment, 0)
	for _, a := range existing {
		if !a.IsActive() {
			continue
		}
		if excludeID != nil && a.ID == *excludeID {
			continue
		}

		aStart := a.StartTime.Minutes()
		if aStart < 0 {
			return nil, fmt.Errorf("%w: appointment id=%d has malformed start %q", domain.ErrInternal, a.ID, a.StartTime)
		}
		aEnd := aStart + a.DurationMinutes

		if Overlaps(startMin, endMin, aStart, aEnd) {
			end, _ := a.EndTime()
			result = append(result, domain.ConflictingAppointment{
				ID:    a.ID,
				Date:  a.Date,
				Start: a.StartTime,
				End:   end,
			})
		}
	}

	return result, nil
}

// AnnotateAvailability marks each candidate slot as available or conflicting
func AnnotateAvailability(
	slots []types.TimeString,
	existing []*domain.Appointment,
	durationMinutes int,
) ([]domain.SlotAvailability, error) {
	result := make([]domain.SlotAvailability, 0, len(slots))

	for _, slot := range slots {
		found, err := FindConflicts(slot, durationMinutes, existing, nil)
		if err != nil {
			return nil, err
		}

		ids := make([]int64, 0, len(found))
		for _, c := range found {
			ids = append(ids, c.ID)
		}

		result = append(result, domain.SlotAvailability{
			Start:                     slot,
			Available:                 len(ids) == 0,
			ConflictingAppointmentIDs: ids,
		})
	}

	return result, nil
}

// Detector runs the single-slot check against storage
type Detector struct {
	repo AppointmentRepository
}

func NewDetector(repo AppointmentRepository) *Detector {
	return &Detector{repo: repo}
}

// Check returns *domain.SlotConflictError when the interval is taken.
// Call it inside the write transaction so the loaded rows stay locked until commit.
func (d *Detector) Check(
	ctx context.Context,
	staffID int64,
	date time.Time,
	start types.TimeString,
	durationMinutes int,
	excludeID *int64,
) error {
	existing, err := d.repo.ListActiveByStaffAndDate(ctx, staffID, date)
	if err != nil {
		return fmt.Errorf("%w: Check - list appointments: %v", domain.ErrInternal, err)
	}

	found, err := FindConflicts(start, durationMinutes, existing, excludeID)
	if err != nil {
		return err
	}
	if len(found) > 0 {
		return &domain.SlotConflictError{Conflicts: found}
	}

	return nil
}

// IsSlotAvailable is Check reduced to a boolean
func (d *Detector) IsSlotAvailable(
	ctx context.Context,
	staffID int64,
	date time.Time,
	start types.TimeString,
	durationMinutes int,
	excludeID *int64,
) (bool, error) {
	err := d.Check(ctx, staffID, date, start, durationMinutes, excludeID)
	if err == nil {
		return true, nil
	}
	var conflict *domain.SlotConflictError
	if errors.As(err, &conflict) {
		return false, nil
	}
	return false, err
}
