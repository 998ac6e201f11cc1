package list_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// ListActiveByStaffAndDate получает активные записи мастера на дату (без блокировки вне транзакции)
	ListActiveByStaffAndDate(ctx context.Context, staffID int64, date time.Time) ([]*domain.Appointment, error)
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
