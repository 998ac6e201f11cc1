package list_availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// dropStarted убирает слоты, время начала которых уже прошло
func dropStarted(slots []types.TimeString, date, now time.Time, loc *time.Location) []types.TimeString {
	result := make([]types.TimeString, 0, len(slots))
	for _, slot := range slots {
		if slot.On(date, loc).Before(now) {
			continue
		}
		result = append(result, slot)
	}
	return result
}
