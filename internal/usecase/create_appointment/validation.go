package create_appointment

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

// validateRequest валидирует входные данные запроса и нормализует заметки
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.Notes != nil {
		notes := strings.TrimSpace(*req.Notes)
		if len(notes) > domain.MaxNotesLength {
			return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
		}
		if notes == "" {
			req.Notes = nil
		} else {
			req.Notes = &notes
		}
	}

	return nil
}
