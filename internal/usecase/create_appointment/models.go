package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/pkg/types"
)

// Request модель запроса на создание записи
// Длительность и цена не принимаются от клиента, они берутся из услуги
type Request struct {
	Actor      domain.Actor     // Кто выполняет запрос
	CustomerID int64            // ID клиента
	ServiceID  int64            // ID услуги
	StaffID    int64            // ID мастера
	Date       time.Time        // Дата записи (без времени)
	StartTime  types.TimeString // Время начала (например, "10:00")
	Notes      *string          // Заметки (опционально)
}
