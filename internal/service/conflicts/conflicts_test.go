package conflicts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/pkg/ptr"
	"github.com/m04kA/SMC-SalonScheduling/pkg/types"
)

var day = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func appt(id int64, start types.TimeString, duration int, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:              id,
		StaffID:         1,
		Date:            day,
		StartTime:       start,
		DurationMinutes: duration,
		Status:          status,
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd int
		want                       bool
	}{
		{"a ends at b start", 540, 600, 600, 660, false},
		{"b ends at a start", 600, 660, 540, 600, false},
		{"partial overlap", 540, 600, 570, 630, true},
		{"a contains b", 540, 720, 600, 630, true},
		{"identical", 600, 660, 600, 660, true},
		{"disjoint", 540, 570, 600, 630, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			assert.Equal(t, tt.want, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestFindConflicts_IgnoresInactiveAndExcluded(t *testing.T) {
	existing := []*domain.Appointment{
		appt(1, "10:00", 60, domain.StatusCancelled),
		appt(2, "10:00", 60, domain.StatusCompleted),
		appt(3, "10:00", 60, domain.StatusNoShow),
		appt(4, "10:30", 60, domain.StatusPending),
	}

	found, err := FindConflicts("10:00", 60, existing, nil)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, int64(4), found[0].ID)
	assert.Equal(t, types.TimeString("11:30"), found[0].End)

	found, err = FindConflicts("10:00", 60, existing, ptr.Ptr(int64(4)))
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestAnnotateAvailability_Scenario(t *testing.T) {
	existing := []*domain.Appointment{appt(7, "09:00", 60, domain.StatusConfirmed)}

	got, err := AnnotateAvailability([]types.TimeString{"09:00", "09:30", "10:00"}, existing, 60)
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.False(t, got[0].Available)
	assert.Equal(t, []int64{7}, got[0].ConflictingAppointmentIDs)
	assert.False(t, got[1].Available)
	assert.True(t, got[2].Available)
	assert.Empty(t, got[2].ConflictingAppointmentIDs)
}

type repoMock struct {
	mock.Mock
}

func (m *repoMock) ListActiveByStaffAndDate(ctx context.Context, staffID int64, date time.Time) ([]*domain.Appointment, error) {
	args := m.Called(ctx, staffID, date)
	if v := args.Get(0); v != nil {
		return v.([]*domain.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestDetector_Check(t *testing.T) {
	ctx := context.Background()
	repo := &repoMock{}
	repo.On("ListActiveByStaffAndDate", ctx, int64(1), day).
		Return([]*domain.Appointment{appt(7, "09:00", 60, domain.StatusConfirmed)}, nil)

	d := NewDetector(repo)

	err := d.Check(ctx, 1, day, "09:30", 60, nil)
	var conflict *domain.SlotConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []int64{7}, conflict.IDs())

	ok, err := d.IsSlotAvailable(ctx, 1, day, "10:00", 60, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.IsSlotAvailable(ctx, 1, day, "09:00", 30, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = d.IsSlotAvailable(ctx, 1, day, "09:00", 60, ptr.Ptr(int64(7)))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDetector_RepositoryError(t *testing.T) {
	ctx := context.Background()
	repo := &repoMock{}
	repo.On("ListActiveByStaffAndDate", ctx, int64(1), day).Return(nil, errors.New("db down"))

	_, err := NewDetector(repo).IsSlotAvailable(ctx, 1, day, "10:00", 60, nil)
	assert.ErrorIs(t, err, domain.ErrInternal)
}
