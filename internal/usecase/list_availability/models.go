package list_availability

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduling/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	StaffID   int64     // ID мастера
	ServiceID int64     // ID услуги
	Date      time.Time // Дата (без времени)
}

// Response модель ответа со списком слотов
type Response struct {
	Date            time.Time
	StaffID         int64
	ServiceID       int64
	DurationMinutes int    // Длительность услуги
	IntervalMinutes int    // Шаг сетки слотов
	Slots           []Slot // Слоты в порядке возрастания времени
}

// Slot модель временного слота
type Slot struct {
	StartTime                 types.TimeString
	Available                 bool
	ConflictingAppointmentIDs []int64 // Пустой, если слот свободен
}
