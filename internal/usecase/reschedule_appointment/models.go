package reschedule_appointment

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/pkg/types"
)

// Request модель запроса на перенос записи
type Request struct {
	Actor         domain.Actor     // Кто выполняет запрос
	AppointmentID int64            // ID записи
	NewDate       time.Time        // Новая дата (без времени)
	NewStartTime  types.TimeString // Новое время начала
}
