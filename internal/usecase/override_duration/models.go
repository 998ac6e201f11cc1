package override_duration

import "github.com/m04kA/SMC-SalonScheduling/internal/domain"

// Request модель запроса на изменение длительности записи
type Request struct {
	Actor           domain.Actor // Мастер или администратор
	AppointmentID   int64        // ID записи
	DurationMinutes int          // Новая длительность
	Note            string       // Причина изменения, попадает в журнал
}
