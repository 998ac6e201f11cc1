package override_duration

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if !req.Actor.IsStaff() {
		return fmt.Errorf("%w: only staff can override duration", domain.ErrUnauthorized)
	}

	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	if req.DurationMinutes <= 0 || req.DurationMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be between 1 and %d", ErrInvalidInput, domain.MaxDurationMinutes)
	}

	if strings.TrimSpace(req.Note) == "" {
		return fmt.Errorf("%w: note is required", ErrInvalidInput)
	}

	return nil
}
