package override_duration

import (
	"context"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/appointments"
)

// AppointmentService интерфейс сервиса записей
type AppointmentService interface {
	GetByID(ctx context.Context, actor domain.Actor, id int64) (*appointments.AppointmentDetails, error)
	OverrideDuration(ctx context.Context, in *appointments.OverrideDurationInput) (*domain.Appointment, error)
}

// CatalogClient интерфейс клиента каталога расписаний мастеров
type CatalogClient interface {
	GetStaffAvailability(ctx context.Context, staffID int64) (*domain.StaffAvailability, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
