package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	ListByCustomer(ctx context.Context, customerID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	ListByStaff(ctx context.Context, filter domain.StaffAppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	Cancel(ctx context.Context, id int64, reason *string, cancelledAt time.Time) error
	UpdateSchedule(ctx context.Context, id int64, date time.Time, start types.TimeString) error
	UpdateDuration(ctx context.Context, id int64, durationMinutes int) error
	AddHistory(ctx context.Context, entry *domain.StatusHistoryEntry) error
	ListHistory(ctx context.Context, appointmentID int64) ([]*domain.StatusHistoryEntry, error)
}

// ConflictDetector проверка интервала на пересечение с активными записями
type ConflictDetector interface {
	Check(ctx context.Context, staffID int64, date time.Time, start types.TimeString, durationMinutes int, excludeID *int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// SlotLocker взаимное исключение по ключу (мастер, дата)
// Реализации: pkg/keylock (один процесс) и redislock (несколько инстансов)
type SlotLocker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// EventPublisher публикует события после фиксации транзакции
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, a *domain.Appointment) error
}

// MetricsRecorder бизнес-метрики
type MetricsRecorder interface {
	IncAppointmentCreated()
	IncSlotConflict(operation string)
	IncTransition(from, to string)
	IncEventPublished(eventType string, err error)
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
