// Package appointments owns the appointment state machine and the atomic
// create/reschedule/cancel operations against storage.
package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/calendar"
	"github.com/m04kA/SMC-SalonScheduling/pkg/ptr"
)

const (
	defaultLockWait       = 3 * time.Second
	defaultPublishTimeout = 2 * time.Second
)

// Service сервис жизненного цикла записей
type Service struct {
	repo         AppointmentRepository
	detector     ConflictDetector
	txManager    TransactionManager
	locker       SlotLocker
	publisher    EventPublisher
	metrics      MetricsRecorder
	timeProvider TimeProvider
	location     *time.Location
	lockWait     time.Duration
	logger       Logger

	// publishTimeout ограничивает ожидание брокера после фиксации
	publishTimeout time.Duration
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	repo AppointmentRepository,
	detector ConflictDetector,
	txManager TransactionManager,
	locker SlotLocker,
	publisher EventPublisher,
	metrics MetricsRecorder,
	location *time.Location,
	lockWait time.Duration,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	if lockWait <= 0 {
		lockWait = defaultLockWait
	}
	return &Service{
		repo:         repo,
		detector:     detector,
		txManager:    txManager,
		locker:       locker,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		location:     location,
		lockWait:     lockWait,
		logger:       logger,

		publishTimeout: defaultPublishTimeout,
	}
}

// SlotKey ключ блокировки расписания мастера на дату
func SlotKey(staffID int64, date time.Time) string {
	return fmt.Sprintf("slot:%d:%s", staffID, date.Format(domain.DateFormat))
}

// Book атомарно проверяет слот и создает запись в статусе pending
// Длительность и цена берутся из услуги
func (s *Service) Book(ctx context.Context, in *BookInput) (*domain.Appointment, error) {
	if !in.Actor.CanActFor(in.CustomerID) {
		s.logger.Warn("Book: user=%d cannot book for customer=%d", in.Actor.UserID, in.CustomerID)
		return nil, fmt.Errorf("%w: cannot book on behalf of another customer", domain.ErrUnauthorized)
	}

	appointment := &domain.Appointment{
		CustomerID:      in.CustomerID,
		ServiceID:       in.Service.ID,
		StaffID:         in.Availability.StaffID,
		Date:            in.Date,
		StartTime:       in.StartTime,
		DurationMinutes: in.Service.DurationMinutes,
		Status:          domain.StatusPending,
		Price:           in.Service.Price,
		PaymentStatus:   domain.PaymentPending,
		Notes:           in.Notes,
	}

	err := s.withSlotLock(ctx, "Book", appointment.StaffID, appointment.Date, func() error {
		return s.txManager.Do(ctx, func(txCtx context.Context) error {
			if err := s.detector.Check(txCtx, appointment.StaffID, appointment.Date,
				appointment.StartTime, appointment.DurationMinutes, nil); err != nil {
				return err
			}

			if _, err := s.repo.Create(txCtx, appointment); err != nil {
				return s.mapRepoError("Book", err)
			}

			return s.addHistory(txCtx, "Book", appointment.ID, nil, domain.StatusPending, in.Actor, nil)
		})
	})
	if err != nil {
		s.logFailure("Book", "create", err)
		return nil, err
	}

	s.metrics.IncAppointmentCreated()
	s.logger.Info("Book: created appointment id=%d staff=%d date=%s start=%s duration=%d",
		appointment.ID, appointment.StaffID, appointment.Date.Format(domain.DateFormat),
		appointment.StartTime, appointment.DurationMinutes)

	s.publish(ctx, domain.EventAppointmentCreated, appointment)
	return appointment, nil
}

// Transition переводит запись в целевой статус по разрешенному ребру
// Доступно только мастерам и администраторам
func (s *Service) Transition(ctx context.Context, actor domain.Actor, id int64, target domain.AppointmentStatus) (*domain.Appointment, error) {
	if !actor.IsStaff() {
		s.logger.Warn("Transition: user=%d role=%s is not staff", actor.UserID, actor.Role)
		return nil, fmt.Errorf("%w: only staff can change appointment status", domain.ErrUnauthorized)
	}
	if !target.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, target)
	}

	var (
		result *domain.Appointment
		from   domain.AppointmentStatus
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		a, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return s.mapRepoError("Transition", err)
		}

		from = a.Status
		if err := s.checkTransition(a, target); err != nil {
			return err
		}

		if err := s.repo.UpdateStatus(txCtx, id, target); err != nil {
			return s.mapRepoError("Transition", err)
		}
		if err := s.addHistory(txCtx, "Transition", id, &from, target, actor, nil); err != nil {
			return err
		}

		a.Status = target
		a.UpdatedAt = s.timeProvider.Now()
		result = a
		return nil
	})
	if err != nil {
		s.logFailure("Transition", "transition", err)
		return nil, err
	}

	s.metrics.IncTransition(string(from), string(target))
	s.logger.Info("Transition: appointment id=%d %s -> %s by user=%d", id, from, target, actor.UserID)

	s.publish(ctx, domain.EventAppointmentStatusChanged, result)
	return result, nil
}

// Cancel отменяет запись. Повторная отмена возвращает текущее состояние без ошибки
// Клиент может отменить только свою запись
func (s *Service) Cancel(ctx context.Context, actor domain.Actor, id int64, reason *string) (*domain.Appointment, error) {
	if reason != nil {
		trimmed := strings.TrimSpace(*reason)
		if len(trimmed) > domain.MaxCancellationReasonLength {
			return nil, fmt.Errorf("%w: cancellation reason exceeds %d characters", domain.ErrValidation, domain.MaxCancellationReasonLength)
		}
		if trimmed == "" {
			reason = nil
		} else {
			reason = &trimmed
		}
	}

	var (
		result  *domain.Appointment
		from    domain.AppointmentStatus
		changed bool
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		a, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return s.mapRepoError("Cancel", err)
		}

		if !actor.CanActFor(a.CustomerID) {
			return fmt.Errorf("%w: appointment belongs to another customer", domain.ErrUnauthorized)
		}

		if a.Status == domain.StatusCancelled {
			result = a
			return nil
		}

		from = a.Status
		if !a.Status.CanTransitionTo(domain.StatusCancelled) {
			return &domain.TransitionError{From: a.Status, To: domain.StatusCancelled}
		}

		now := s.timeProvider.Now()
		if err := s.repo.Cancel(txCtx, id, reason, now); err != nil {
			return s.mapRepoError("Cancel", err)
		}
		if err := s.addHistory(txCtx, "Cancel", id, &from, domain.StatusCancelled, actor, reason); err != nil {
			return err
		}

		a.Status = domain.StatusCancelled
		a.CancellationReason = reason
		a.CancelledAt = &now
		a.UpdatedAt = now
		result = a
		changed = true
		return nil
	})
	if err != nil {
		s.logFailure("Cancel", "cancel", err)
		return nil, err
	}

	if !changed {
		s.logger.Info("Cancel: appointment id=%d already cancelled", id)
		return result, nil
	}

	s.metrics.IncTransition(string(from), string(domain.StatusCancelled))
	s.logger.Info("Cancel: appointment id=%d %s -> cancelled by user=%d", id, from, actor.UserID)

	s.publish(ctx, domain.EventAppointmentStatusChanged, result)
	return result, nil
}

// Reschedule переносит запись на новую дату и время
// Проверка слота и обновление выполняются атомарно; при конфликте запись не меняется
func (s *Service) Reschedule(ctx context.Context, in *RescheduleInput) (*domain.Appointment, error) {
	current, err := s.repo.GetByID(ctx, in.AppointmentID)
	if err != nil {
		return nil, s.mapRepoError("Reschedule", err)
	}
	if !in.Actor.CanActFor(current.CustomerID) {
		s.logger.Warn("Reschedule: user=%d cannot reschedule appointment id=%d", in.Actor.UserID, in.AppointmentID)
		return nil, fmt.Errorf("%w: appointment belongs to another customer", domain.ErrUnauthorized)
	}

	var result *domain.Appointment

	err = s.withSlotLock(ctx, "Reschedule", current.StaffID, in.NewDate, func() error {
		return s.txManager.Do(ctx, func(txCtx context.Context) error {
			a, err := s.repo.GetByID(txCtx, in.AppointmentID)
			if err != nil {
				return s.mapRepoError("Reschedule", err)
			}

			if err := checkReschedulable(a); err != nil {
				return err
			}

			if in.Availability != nil {
				if err := calendar.FitsWorkingHours(in.Availability, in.NewDate, in.NewStartTime, a.DurationMinutes); err != nil {
					return err
				}
			}

			if err := s.detector.Check(txCtx, a.StaffID, in.NewDate, in.NewStartTime, a.DurationMinutes, ptr.Ptr(a.ID)); err != nil {
				return err
			}

			if err := s.repo.UpdateSchedule(txCtx, a.ID, in.NewDate, in.NewStartTime); err != nil {
				return s.mapRepoError("Reschedule", err)
			}

			note := fmt.Sprintf("rescheduled from %s %s to %s %s",
				a.Date.Format(domain.DateFormat), a.StartTime, in.NewDate.Format(domain.DateFormat), in.NewStartTime)
			if err := s.addHistory(txCtx, "Reschedule", a.ID, &a.Status, a.Status, in.Actor, &note); err != nil {
				return err
			}

			a.Date = in.NewDate
			a.StartTime = in.NewStartTime
			a.UpdatedAt = s.timeProvider.Now()
			result = a
			return nil
		})
	})
	if err != nil {
		s.logFailure("Reschedule", "reschedule", err)
		return nil, err
	}

	s.logger.Info("Reschedule: appointment id=%d moved to %s %s", result.ID,
		result.Date.Format(domain.DateFormat), result.StartTime)

	s.publish(ctx, domain.EventAppointmentRescheduled, result)
	return result, nil
}

// OverrideDuration меняет длительность активной записи с обязательной заметкой для журнала
// Доступно только мастерам и администраторам
func (s *Service) OverrideDuration(ctx context.Context, in *OverrideDurationInput) (*domain.Appointment, error) {
	if !in.Actor.IsStaff() {
		return nil, fmt.Errorf("%w: only staff can override duration", domain.ErrUnauthorized)
	}

	note := strings.TrimSpace(in.Note)
	if note == "" {
		return nil, fmt.Errorf("%w: audit note is required", domain.ErrValidation)
	}
	if len(note) > domain.MaxOverrideNoteLength {
		return nil, fmt.Errorf("%w: note exceeds %d characters", domain.ErrValidation, domain.MaxOverrideNoteLength)
	}
	if in.DurationMinutes <= 0 || in.DurationMinutes > domain.MaxDurationMinutes {
		return nil, fmt.Errorf("%w: duration must be between 1 and %d minutes", domain.ErrValidation, domain.MaxDurationMinutes)
	}

	current, err := s.repo.GetByID(ctx, in.AppointmentID)
	if err != nil {
		return nil, s.mapRepoError("OverrideDuration", err)
	}

	var (
		result      *domain.Appointment
		oldDuration int
	)

	err = s.withSlotLock(ctx, "OverrideDuration", current.StaffID, current.Date, func() error {
		return s.txManager.Do(ctx, func(txCtx context.Context) error {
			a, err := s.repo.GetByID(txCtx, in.AppointmentID)
			if err != nil {
				return s.mapRepoError("OverrideDuration", err)
			}

			if !a.IsActive() {
				return fmt.Errorf("%w: appointment in status %s cannot be changed", domain.ErrInvalidTransition, a.Status)
			}
			if !sameDay(a.Date, current.Date) {
				return fmt.Errorf("%w: appointment was rescheduled concurrently", domain.ErrSlotConflict)
			}

			if in.Availability != nil {
				if err := calendar.FitsWorkingHours(in.Availability, a.Date, a.StartTime, in.DurationMinutes); err != nil {
					return err
				}
			}

			if err := s.detector.Check(txCtx, a.StaffID, a.Date, a.StartTime, in.DurationMinutes, ptr.Ptr(a.ID)); err != nil {
				return err
			}

			if err := s.repo.UpdateDuration(txCtx, a.ID, in.DurationMinutes); err != nil {
				return s.mapRepoError("OverrideDuration", err)
			}

			historyNote := fmt.Sprintf("duration %d -> %d minutes: %s", a.DurationMinutes, in.DurationMinutes, note)
			if err := s.addHistory(txCtx, "OverrideDuration", a.ID, &a.Status, a.Status, in.Actor, &historyNote); err != nil {
				return err
			}

			oldDuration = a.DurationMinutes
			a.DurationMinutes = in.DurationMinutes
			a.UpdatedAt = s.timeProvider.Now()
			result = a
			return nil
		})
	})
	if err != nil {
		s.logFailure("OverrideDuration", "override_duration", err)
		return nil, err
	}

	s.logger.Info("OverrideDuration: appointment id=%d duration %d -> %d by user=%d",
		result.ID, oldDuration, result.DurationMinutes, in.Actor.UserID)

	s.publish(ctx, domain.EventAppointmentDurationOverridden, result)
	return result, nil
}

// checkTransition проверяет ребро и временное условие для no_show
func (s *Service) checkTransition(a *domain.Appointment, target domain.AppointmentStatus) error {
	if !a.Status.CanTransitionTo(target) {
		return &domain.TransitionError{From: a.Status, To: target}
	}

	if target == domain.StatusNoShow {
		startsAt := a.StartsAt(s.location)
		if s.timeProvider.Now().Before(startsAt) {
			return fmt.Errorf("%w: scheduled start %s has not passed yet",
				&domain.TransitionError{From: a.Status, To: target}, startsAt.Format(time.RFC3339))
		}
	}

	return nil
}

func checkReschedulable(a *domain.Appointment) error {
	switch a.Status {
	case domain.StatusPending, domain.StatusConfirmed:
		return nil
	case domain.StatusInProgress, domain.StatusCompleted, domain.StatusCancelled, domain.StatusNoShow:
		return fmt.Errorf("%w: appointment in status %s cannot be rescheduled", domain.ErrInvalidTransition, a.Status)
	default:
		panic(fmt.Sprintf("appointments: unhandled status %q", a.Status))
	}
}

// withSlotLock держит блокировку (мастер, дата) на время проверки и записи
func (s *Service) withSlotLock(ctx context.Context, op string, staffID int64, date time.Time, fn func() error) error {
	key := SlotKey(staffID, date)

	lockCtx, cancel := context.WithTimeout(ctx, s.lockWait)
	release, err := s.locker.Lock(lockCtx, key)
	cancel()

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			// Расписание занято другой записью дольше lockWait
			return fmt.Errorf("%w: %s - schedule %s is busy", domain.ErrSlotConflict, op, key)
		}
		return fmt.Errorf("%w: %s - acquire lock %s: %v", domain.ErrInternal, op, key, err)
	}
	defer release()

	return fn()
}

func (s *Service) addHistory(
	ctx context.Context,
	op string,
	id int64,
	from *domain.AppointmentStatus,
	to domain.AppointmentStatus,
	actor domain.Actor,
	note *string,
) error {
	entry := &domain.StatusHistoryEntry{
		AppointmentID: id,
		FromStatus:    from,
		ToStatus:      to,
		ChangedBy:     actor.UserID,
		Note:          note,
	}
	if err := s.repo.AddHistory(ctx, entry); err != nil {
		return fmt.Errorf("%w: %s - add history: %v", domain.ErrInternal, op, err)
	}
	return nil
}

// mapRepoError переводит ошибки репозитория в доменную таксономию
func (s *Service) mapRepoError(op string, err error) error {
	switch {
	case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
		return fmt.Errorf("%w: %s - appointment not found", domain.ErrNotFound, op)
	case errors.Is(err, appointmentRepo.ErrOverlapConstraint),
		errors.Is(err, appointmentRepo.ErrSerializationFailure):
		return fmt.Errorf("%w: %s - rejected by storage: %v", domain.ErrSlotConflict, op, err)
	default:
		return fmt.Errorf("%w: %s - repository error: %v", domain.ErrInternal, op, err)
	}
}

func (s *Service) logFailure(op, metricOp string, err error) {
	switch {
	case errors.Is(err, domain.ErrSlotConflict):
		s.metrics.IncSlotConflict(metricOp)
		s.logger.Warn("%s: slot conflict: %v", op, err)
	case errors.Is(err, domain.ErrInternal):
		s.logger.Error("%s: %v", op, err)
	default:
		s.logger.Warn("%s: %v", op, err)
	}
}

// publish ошибки публикации только логируются и не меняют результат операции
func (s *Service) publish(ctx context.Context, eventType string, a *domain.Appointment) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()

	err := s.publisher.Publish(ctx, eventType, a)
	s.metrics.IncEventPublished(eventType, err)
	if err != nil {
		s.logger.Error("publish %s for appointment id=%d failed: %v", eventType, a.ID, err)
	}
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
