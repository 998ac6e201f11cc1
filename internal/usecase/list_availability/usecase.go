package list_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	catalogClient "github.com/m04kA/SMC-SalonScheduling/internal/integrations/catalog"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/calendar"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/conflicts"
)

// UseCase use case для получения слотов мастера на дату
// Чтение без блокировок; результат может устареть к моменту записи
type UseCase struct {
	repo            AppointmentRepository
	catalog         CatalogClient
	intervalMinutes int
	maxAdvanceDays  int
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	repo AppointmentRepository,
	catalog CatalogClient,
	intervalMinutes int,
	maxAdvanceDays int,
	location *time.Location,
	logger Logger,
) *UseCase {
	if intervalMinutes <= 0 {
		intervalMinutes = domain.DefaultSlotIntervalMinutes
	}
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		repo:            repo,
		catalog:         catalog,
		intervalMinutes: intervalMinutes,
		maxAdvanceDays:  maxAdvanceDays,
		location:        location,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ListAvailability: staff=%d, service=%d, date=%s",
		req.StaffID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ListAvailability: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	if err := calendar.CheckDate(req.Date, now, uc.location, uc.maxAdvanceDays); err != nil {
		uc.logger.Warn("ListAvailability: date validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу
	service, err := uc.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("ListAvailability: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("ListAvailability: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.Active {
		uc.logger.Warn("ListAvailability: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 3. Получаем расписание мастера
	avail, err := uc.catalog.GetStaffAvailability(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrStaffNotFound) {
			uc.logger.Warn("ListAvailability: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("ListAvailability: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff availability: %v", ErrInternal, err)
	}
	if !avail.Active {
		uc.logger.Warn("ListAvailability: staff id=%d is inactive", req.StaffID)
		return nil, ErrStaffInactive
	}

	// 4. Генерируем сетку слотов
	candidates, err := calendar.GenerateSlots(avail, req.Date, service.DurationMinutes, uc.intervalMinutes)
	if err != nil {
		uc.logger.Error("ListAvailability: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}
	candidates = dropStarted(candidates, req.Date, now, uc.location)

	response := &Response{
		Date:            req.Date,
		StaffID:         req.StaffID,
		ServiceID:       req.ServiceID,
		DurationMinutes: service.DurationMinutes,
		IntervalMinutes: uc.intervalMinutes,
		Slots:           []Slot{},
	}
	if len(candidates) == 0 {
		uc.logger.Info("ListAvailability: no slots for staff=%d on %s", req.StaffID, req.Date.Format(domain.DateFormat))
		return response, nil
	}

	// 5. Получаем активные записи мастера на дату
	existing, err := uc.repo.ListActiveByStaffAndDate(ctx, req.StaffID, req.Date)
	if err != nil {
		uc.logger.Error("ListAvailability: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 6. Размечаем занятость
	annotated, err := conflicts.AnnotateAvailability(candidates, existing, service.DurationMinutes)
	if err != nil {
		uc.logger.Error("ListAvailability: failed to annotate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to annotate slots: %v", ErrInternal, err)
	}

	for _, s := range annotated {
		response.Slots = append(response.Slots, Slot{
			StartTime:                 s.Start,
			Available:                 s.Available,
			ConflictingAppointmentIDs: s.ConflictingAppointmentIDs,
		})
	}

	uc.logger.Info("ListAvailability: generated %d slots for staff=%d, service=%d, date=%s",
		len(response.Slots), req.StaffID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return response, nil
}
