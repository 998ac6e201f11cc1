package appointments

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

// GetByID получает запись с журналом изменений
// Клиент видит только свои записи
func (s *Service) GetByID(ctx context.Context, actor domain.Actor, id int64) (*AppointmentDetails, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		err = s.mapRepoError("GetByID", err)
		s.logFailure("GetByID", "get", err)
		return nil, err
	}

	if !actor.CanActFor(a.CustomerID) {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", actor.UserID, id)
		return nil, fmt.Errorf("%w: appointment belongs to another customer", domain.ErrUnauthorized)
	}

	history, err := s.repo.ListHistory(ctx, id)
	if err != nil {
		s.logger.Error("GetByID: failed to load history for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - history: %v", domain.ErrInternal, err)
	}

	return &AppointmentDetails{Appointment: a, History: history}, nil
}

// ListByCustomer получает записи клиента, опционально по статусу
func (s *Service) ListByCustomer(ctx context.Context, actor domain.Actor, customerID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	if !actor.CanActFor(customerID) {
		s.logger.Warn("ListByCustomer: access denied for user=%d to customer=%d", actor.UserID, customerID)
		return nil, fmt.Errorf("%w: cannot read another customer's appointments", domain.ErrUnauthorized)
	}

	list, err := s.repo.ListByCustomer(ctx, customerID, status)
	if err != nil {
		s.logger.Error("ListByCustomer: repository error for customer=%d: %v", customerID, err)
		return nil, fmt.Errorf("%w: ListByCustomer - repository error: %v", domain.ErrInternal, err)
	}

	return list, nil
}

// ListByStaff получает записи мастера с фильтрацией
// Доступно только мастерам и администраторам
func (s *Service) ListByStaff(ctx context.Context, actor domain.Actor, filter domain.StaffAppointmentsFilter) ([]*domain.Appointment, error) {
	if !actor.IsStaff() {
		return nil, fmt.Errorf("%w: only staff can list staff appointments", domain.ErrUnauthorized)
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, fmt.Errorf("%w: endDate is before startDate", domain.ErrValidation)
	}

	list, err := s.repo.ListByStaff(ctx, filter)
	if err != nil {
		s.logger.Error("ListByStaff: repository error for staff=%d: %v", filter.StaffID, err)
		return nil, fmt.Errorf("%w: ListByStaff - repository error: %v", domain.ErrInternal, err)
	}

	return list, nil
}
