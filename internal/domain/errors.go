package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/pkg/types"
)

var (
	// ErrNotFound service, staff or appointment is missing
	ErrNotFound = errors.New("not found")

	// ErrInactive service or staff is disabled
	ErrInactive = errors.New("inactive")

	// ErrValidation malformed input or a slot outside working hours
	ErrValidation = errors.New("validation error")

	// ErrInvalidTransition illegal status edge
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrSlotConflict overlap detected at commit time
	ErrSlotConflict = errors.New("slot conflict")

	// ErrUnauthorized caller lacks permission
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInternal infrastructure failure
	ErrInternal = errors.New("internal error")
)

// TransitionError names the current and the requested status
type TransitionError struct {
	From AppointmentStatus
	To   AppointmentStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// ConflictingAppointment is an active appointment overlapping the requested interval
type ConflictingAppointment struct {
	ID    int64
	Date  time.Time
	Start types.TimeString
	End   types.TimeString
}

// SlotConflictError carries enough detail for the caller to re-query availability
type SlotConflictError struct {
	Conflicts []ConflictingAppointment
}

func (e *SlotConflictError) Error() string {
	if len(e.Conflicts) == 0 {
		return ErrSlotConflict.Error()
	}
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, fmt.Sprintf("id=%d [%s,%s)", c.ID, c.Start, c.End))
	}
	return fmt.Sprintf("%s: %s", ErrSlotConflict, strings.Join(parts, ", "))
}

func (e *SlotConflictError) Is(target error) bool {
	return target == ErrSlotConflict
}

// IDs returns ids of the conflicting appointments
func (e *SlotConflictError) IDs() []int64 {
	ids := make([]int64, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		ids = append(ids, c.ID)
	}
	return ids
}
