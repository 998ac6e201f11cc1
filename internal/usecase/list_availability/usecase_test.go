package list_availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	catalogClient "github.com/m04kA/SMC-SalonScheduling/internal/integrations/catalog"
	"github.com/m04kA/SMC-SalonScheduling/pkg/types"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) ListActiveByStaffAndDate(ctx context.Context, staffID int64, date time.Time) ([]*domain.Appointment, error) {
	args := m.Called(ctx, staffID, date)
	list, _ := args.Get(0).([]*domain.Appointment)
	return list, args.Error(1)
}

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) GetService(ctx context.Context, serviceID int64) (*domain.Service, error) {
	args := m.Called(ctx, serviceID)
	s, _ := args.Get(0).(*domain.Service)
	return s, args.Error(1)
}

func (m *mockCatalog) GetStaffAvailability(ctx context.Context, staffID int64) (*domain.StaffAvailability, error) {
	args := m.Called(ctx, staffID)
	a, _ := args.Get(0).(*domain.StaffAvailability)
	return a, args.Error(1)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func haircut() *domain.Service {
	return &domain.Service{ID: 2, Name: "Haircut", DurationMinutes: 60, Price: 35, Active: true}
}

func workingHours() *domain.StaffAvailability {
	return &domain.StaffAvailability{
		StaffID:     3,
		WorkingDays: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		DayStart:    "09:00",
		DayEnd:      "19:00",
		Active:      true,
	}
}

func newUseCase(now time.Time) (*UseCase, *mockRepo, *mockCatalog) {
	repo := &mockRepo{}
	catalog := &mockCatalog{}
	uc := NewUseCase(repo, catalog, 30, 90, time.UTC, nopLogger{})
	uc.timeProvider = fixedTime{now: now}
	return uc, repo, catalog
}

func TestUseCase_Execute(t *testing.T) {
	uc, repo, catalog := newUseCase(monday.AddDate(0, 0, -1))

	catalog.On("GetService", mock.Anything, int64(2)).Return(haircut(), nil)
	catalog.On("GetStaffAvailability", mock.Anything, int64(3)).Return(workingHours(), nil)
	repo.On("ListActiveByStaffAndDate", mock.Anything, int64(3), monday).Return([]*domain.Appointment{
		{ID: 7, StaffID: 3, Date: monday, StartTime: "09:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
	}, nil)

	resp, err := uc.Execute(context.Background(), &Request{StaffID: 3, ServiceID: 2, Date: monday})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 19)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, 30, resp.IntervalMinutes)

	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
	assert.False(t, resp.Slots[0].Available)
	assert.Equal(t, []int64{7}, resp.Slots[0].ConflictingAppointmentIDs)

	assert.Equal(t, types.TimeString("09:30"), resp.Slots[1].StartTime)
	assert.False(t, resp.Slots[1].Available)

	assert.Equal(t, types.TimeString("10:00"), resp.Slots[2].StartTime)
	assert.True(t, resp.Slots[2].Available)
	assert.Empty(t, resp.Slots[2].ConflictingAppointmentIDs)

	assert.Equal(t, types.TimeString("18:00"), resp.Slots[18].StartTime)
	repo.AssertExpectations(t)
}

func TestUseCase_Execute_TodayDropsStartedSlots(t *testing.T) {
	uc, repo, catalog := newUseCase(monday.Add(17*time.Hour + 10*time.Minute))

	catalog.On("GetService", mock.Anything, int64(2)).Return(haircut(), nil)
	catalog.On("GetStaffAvailability", mock.Anything, int64(3)).Return(workingHours(), nil)
	repo.On("ListActiveByStaffAndDate", mock.Anything, int64(3), monday).Return([]*domain.Appointment{}, nil)

	resp, err := uc.Execute(context.Background(), &Request{StaffID: 3, ServiceID: 2, Date: monday})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, types.TimeString("17:30"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("18:00"), resp.Slots[1].StartTime)
}

func TestUseCase_Execute_NonWorkingDay(t *testing.T) {
	uc, repo, catalog := newUseCase(monday)
	sunday := monday.AddDate(0, 0, 6)

	catalog.On("GetService", mock.Anything, int64(2)).Return(haircut(), nil)
	catalog.On("GetStaffAvailability", mock.Anything, int64(3)).Return(workingHours(), nil)

	resp, err := uc.Execute(context.Background(), &Request{StaffID: 3, ServiceID: 2, Date: sunday})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	repo.AssertNotCalled(t, "ListActiveByStaffAndDate", mock.Anything, mock.Anything, mock.Anything)
}

func TestUseCase_Execute_Errors(t *testing.T) {
	inactiveService := haircut()
	inactiveService.Active = false
	inactiveStaff := workingHours()
	inactiveStaff.Active = false

	tests := []struct {
		name       string
		req        *Request
		service    *domain.Service
		serviceErr error
		staff      *domain.StaffAvailability
		staffErr   error
		repoErr    error
		wantErr    error
		wantDomain error
	}{
		{
			name:       "invalid staff id",
			req:        &Request{StaffID: 0, ServiceID: 2, Date: monday},
			wantErr:    ErrInvalidInput,
			wantDomain: domain.ErrValidation,
		},
		{
			name:       "past date",
			req:        &Request{StaffID: 3, ServiceID: 2, Date: monday.AddDate(0, 0, -2)},
			wantDomain: domain.ErrValidation,
		},
		{
			name:       "service not found",
			req:        &Request{StaffID: 3, ServiceID: 2, Date: monday},
			serviceErr: catalogClient.ErrServiceNotFound,
			wantErr:    ErrServiceNotFound,
			wantDomain: domain.ErrNotFound,
		},
		{
			name:       "service inactive",
			req:        &Request{StaffID: 3, ServiceID: 2, Date: monday},
			service:    inactiveService,
			wantErr:    ErrServiceInactive,
			wantDomain: domain.ErrInactive,
		},
		{
			name:       "staff not found",
			req:        &Request{StaffID: 3, ServiceID: 2, Date: monday},
			service:    haircut(),
			staffErr:   catalogClient.ErrStaffNotFound,
			wantErr:    ErrStaffNotFound,
			wantDomain: domain.ErrNotFound,
		},
		{
			name:       "staff inactive",
			req:        &Request{StaffID: 3, ServiceID: 2, Date: monday},
			service:    haircut(),
			staff:      inactiveStaff,
			wantErr:    ErrStaffInactive,
			wantDomain: domain.ErrInactive,
		},
		{
			name:       "catalog down",
			req:        &Request{StaffID: 3, ServiceID: 2, Date: monday},
			serviceErr: catalogClient.ErrInternal,
			wantErr:    ErrInternal,
			wantDomain: domain.ErrInternal,
		},
		{
			name:       "repository error",
			req:        &Request{StaffID: 3, ServiceID: 2, Date: monday},
			service:    haircut(),
			staff:      workingHours(),
			repoErr:    errors.New("connection reset"),
			wantErr:    ErrInternal,
			wantDomain: domain.ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, repo, catalog := newUseCase(monday.AddDate(0, 0, -1))

			catalog.On("GetService", mock.Anything, int64(2)).Return(tt.service, tt.serviceErr).Maybe()
			catalog.On("GetStaffAvailability", mock.Anything, int64(3)).Return(tt.staff, tt.staffErr).Maybe()
			repo.On("ListActiveByStaffAndDate", mock.Anything, int64(3), monday).Return(nil, tt.repoErr).Maybe()

			_, err := uc.Execute(context.Background(), tt.req)

			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.ErrorIs(t, err, tt.wantDomain)
		})
	}
}
