package reschedule_appointment

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

// UseCase use case для переноса записи
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

// Execute выполняет use case переноса записи
// Рабочие часы проверяются с длительностью, прочитанной под блокировкой
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	uc.logger.Info("RescheduleAppointment: user=%d, appointment=%d, date=%s, time=%s",
		req.Actor.UserID, req.AppointmentID, req.NewDate.Format(domain.DateFormat), req.NewStartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Окно записи
	if err := calendar.CheckBookingWindow(req.NewDate, req.NewStartTime, uc.timeProvider.Now(), uc.location, uc.maxAdvanceDays); err != nil {
		uc.logger.Warn("RescheduleAppointment: %v", err)
		return nil, err
	}

	// 3. Получаем запись, чтобы узнать мастера (заодно проверяется доступ)
	details, err := uc.service.GetByID(ctx, req.Actor, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	staffID := details.Appointment.StaffID

	// 4. Получаем расписание мастера
	avail, err := uc.catalog.GetStaffAvailability(ctx, staffID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrStaffNotFound) {
			uc.logger.Warn("RescheduleAppointment: staff id=%d not found", staffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("RescheduleAppointment: failed to get staff id=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: failed to get staff availability: %v", ErrInternal, err)
	}
	if !avail.Active {
		uc.logger.Warn("RescheduleAppointment: staff id=%d is inactive", staffID)
		return nil, ErrStaffInactive
	}

	// 5. Атомарный перенос
	result, err := uc.service.Reschedule(ctx, &appointments.RescheduleInput{
		Actor:         req.Actor,
		AppointmentID: req.AppointmentID,
		NewDate:       req.NewDate,
		NewStartTime:  req.NewStartTime,
		Availability:  avail,
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleAppointment: appointment id=%d moved to %s %s",
		result.ID, result.Date.Format(domain.DateFormat), result.StartTime)
	return result, nil
}
