package reschedule_appointment

import (
	"fmt"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

var (
	// ErrStaffNotFound возвращается, когда у мастера нет расписания
	ErrStaffNotFound = fmt.Errorf("reschedule_appointment: staff not found: %w", domain.ErrNotFound)

	// ErrStaffInactive возвращается, когда мастер не принимает записи
	ErrStaffInactive = fmt.Errorf("reschedule_appointment: staff is inactive: %w", domain.ErrInactive)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("reschedule_appointment: invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("reschedule_appointment: %w", domain.ErrInternal)
)
