package create_appointment

import (
	"fmt"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = fmt.Errorf("create_appointment: service not found: %w", domain.ErrNotFound)

	// ErrServiceInactive возвращается, когда услуга отключена
	ErrServiceInactive = fmt.Errorf("create_appointment: service is inactive: %w", domain.ErrInactive)

	// ErrStaffNotFound возвращается, когда у мастера нет расписания
	ErrStaffNotFound = fmt.Errorf("create_appointment: staff not found: %w", domain.ErrNotFound)

	// ErrStaffInactive возвращается, когда мастер не принимает записи
	ErrStaffInactive = fmt.Errorf("create_appointment: staff is inactive: %w", domain.ErrInactive)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("create_appointment: invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("create_appointment: %w", domain.ErrInternal)
)
