package override_duration

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	catalogClient "github.com/m04kA/SMC-SalonScheduling/internal/integrations/catalog"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/appointments"
)

// UseCase use case для изменения длительности записи мастером
type UseCase struct {
	service AppointmentService
	catalog CatalogClient
	logger  Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(service AppointmentService, catalog CatalogClient, logger Logger) *UseCase {
	return &UseCase{
		service: service,
		catalog: catalog,
		logger:  logger,
	}
}

// Execute выполняет use case изменения длительности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	uc.logger.Info("OverrideDuration: user=%d, appointment=%d, duration=%d",
		req.Actor.UserID, req.AppointmentID, req.DurationMinutes)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("OverrideDuration: validation failed: %v", err)
		return nil, err
	}

	details, err := uc.service.GetByID(ctx, req.Actor, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	staffID := details.Appointment.StaffID

	avail, err := uc.catalog.GetStaffAvailability(ctx, staffID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrStaffNotFound) {
			uc.logger.Warn("OverrideDuration: staff id=%d not found", staffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("OverrideDuration: failed to get staff id=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: failed to get staff availability: %v", ErrInternal, err)
	}

	return uc.service.OverrideDuration(ctx, &appointments.OverrideDurationInput{
		Actor:           req.Actor,
		AppointmentID:   req.AppointmentID,
		DurationMinutes: req.DurationMinutes,
		Note:            req.Note,
		Availability:    avail,
	})
}
