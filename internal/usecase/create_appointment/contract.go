package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/appointments"
)

// AppointmentService интерфейс сервиса записей
type AppointmentService interface {
	Book(ctx context.Context, in *appointments.BookInput) (*domain.Appointment, error)
}

// CatalogClient интерфейс клиента каталога услуг и расписаний мастеров
type CatalogClient interface {
	GetService(ctx context.Context, serviceID int64) (*domain.Service, error)
	GetStaffAvailability(ctx context.Context, staffID int64) (*domain.StaffAvailability, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
