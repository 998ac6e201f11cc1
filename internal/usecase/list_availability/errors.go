package list_availability

import (
	"fmt"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = fmt.Errorf("list_availability: service not found: %w", domain.ErrNotFound)

	// ErrServiceInactive возвращается, когда услуга отключена
	ErrServiceInactive = fmt.Errorf("list_availability: service is inactive: %w", domain.ErrInactive)

	// ErrStaffNotFound возвращается, когда у мастера нет расписания
	ErrStaffNotFound = fmt.Errorf("list_availability: staff not found: %w", domain.ErrNotFound)

	// ErrStaffInactive возвращается, когда мастер не принимает записи
	ErrStaffInactive = fmt.Errorf("list_availability: staff is inactive: %w", domain.ErrInactive)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("list_availability: invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("list_availability: %w", domain.ErrInternal)
)
