package override_duration

import (
	"fmt"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

var (
	// ErrStaffNotFound возвращается, когда у мастера нет расписания
	ErrStaffNotFound = fmt.Errorf("override_duration: staff not found: %w", domain.ErrNotFound)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("override_duration: invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("override_duration: %w", domain.ErrInternal)
)
