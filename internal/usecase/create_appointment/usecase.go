package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	catalogClient "github.com/m04kA/SMC-SalonScheduling/internal/integrations/catalog"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/appointments"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/calendar"
)

// UseCase use case для создания записи
type UseCase struct {
	service        AppointmentService
	catalog        CatalogClient
	maxAdvanceDays int
	location       *time.Location
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	service AppointmentService,
	catalog CatalogClient,
	maxAdvanceDays int,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		service:        service,
		catalog:        catalog,
		maxAdvanceDays: maxAdvanceDays,
		location:       location,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute выполняет use case создания записи
// Проверка слота и вставка выполняются атомарно в сервисе записей
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	uc.logger.Info("CreateAppointment: user=%d, customer=%d, service=%d, staff=%d, date=%s, time=%s",
		req.Actor.UserID, req.CustomerID, req.ServiceID, req.StaffID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу
	service, err := uc.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.Active {
		uc.logger.Warn("CreateAppointment: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 3. Получаем расписание мастера
	avail, err := uc.catalog.GetStaffAvailability(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrStaffNotFound) {
			uc.logger.Warn("CreateAppointment: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff availability: %v", ErrInternal, err)
	}
	if !avail.Active {
		uc.logger.Warn("CreateAppointment: staff id=%d is inactive", req.StaffID)
		return nil, ErrStaffInactive
	}

	// 4. Время должно укладываться в рабочие часы
	if err := calendar.FitsWorkingHours(avail, req.Date, req.StartTime, service.DurationMinutes); err != nil {
		uc.logger.Warn("CreateAppointment: %v", err)
		return nil, err
	}

	// 5. Окно записи: не в прошлом и не дальше maxAdvanceDays
	if err := calendar.CheckBookingWindow(req.Date, req.StartTime, uc.timeProvider.Now(), uc.location, uc.maxAdvanceDays); err != nil {
		uc.logger.Warn("CreateAppointment: %v", err)
		return nil, err
	}

	// 6. Атомарная проверка слота и создание записи
	created, err := uc.service.Book(ctx, &appointments.BookInput{
		Actor:        req.Actor,
		CustomerID:   req.CustomerID,
		Service:      service,
		Availability: avail,
		Date:         req.Date,
		StartTime:    req.StartTime,
		Notes:        req.Notes,
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", created.ID)
	return created, nil
}
