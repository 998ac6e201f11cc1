package conflicts

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

// AppointmentRepository источник активных записей мастера на дату
// Внутри транзакции строки блокируются (FOR UPDATE)
type AppointmentRepository interface {
	ListActiveByStaffAndDate(ctx context.Context, staffID int64, date time.Time) ([]*domain.Appointment, error)
}
