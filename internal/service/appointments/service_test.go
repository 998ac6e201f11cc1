package appointments

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/internal/infra/lock/redislock"
	appointmentRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/conflicts"
	"github.com/m04kA/SMC-SalonScheduling/pkg/keylock"
	"github.com/m04kA/SMC-SalonScheduling/pkg/ptr"
	"github.com/m04kA/SMC-SalonScheduling/pkg/types"
)

var (
	_ SlotLocker = (*keylock.KeyLock)(nil)
	_ SlotLocker = (*redislock.Locker)(nil)
)

// 2025-03-10 is a Monday
var (
	monday    = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	dayBefore = time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)

	staffActor    = domain.Actor{UserID: 1, Role: domain.RoleStaff}
	customerActor = domain.Actor{UserID: 10, Role: domain.RoleCustomer}
	otherCustomer = domain.Actor{UserID: 11, Role: domain.RoleCustomer}
)

func workingHours() *domain.StaffAvailability {
	return &domain.StaffAvailability{
		StaffID:     3,
		WorkingDays: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		DayStart:    "09:00",
		DayEnd:      "19:00",
		Active:      true,
	}
}

func haircut() *domain.Service {
	return &domain.Service{ID: 2, Name: "Haircut", Category: "hair", DurationMinutes: 60, Price: 35, Active: true}
}

func existing(id int64, start types.TimeString, duration int, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:              id,
		CustomerID:      10,
		ServiceID:       2,
		StaffID:         3,
		Date:            monday,
		StartTime:       start,
		DurationMinutes: duration,
		Status:          status,
		Price:           35,
		PaymentStatus:   domain.PaymentPending,
	}
}

type testEnv struct {
	svc     *Service
	repo    *fakeRepo
	pub     *fakePublisher
	metrics *fakeMetrics
}

func newTestEnv(now time.Time, seed ...*domain.Appointment) *testEnv {
	repo := newFakeRepo(seed...)
	pub := &fakePublisher{}
	m := newFakeMetrics()

	svc := NewService(repo, conflicts.NewDetector(repo), fakeTx{}, keylock.New(), pub, m, time.UTC, time.Second, nopLogger{})
	svc.timeProvider = fixedTime{now: now}

	return &testEnv{svc: svc, repo: repo, pub: pub, metrics: m}
}

func bookInput(actor domain.Actor, start types.TimeString) *BookInput {
	return &BookInput{
		Actor:        actor,
		CustomerID:   10,
		Service:      haircut(),
		Availability: workingHours(),
		Date:         monday,
		StartTime:    start,
		Notes:        ptr.Ptr("first visit"),
	}
}

func TestService_Book(t *testing.T) {
	env := newTestEnv(dayBefore)

	a, err := env.svc.Book(context.Background(), bookInput(customerActor, "10:00"))

	require.NoError(t, err)
	assert.NotZero(t, a.ID)
	assert.Equal(t, domain.StatusPending, a.Status)
	assert.Equal(t, domain.PaymentPending, a.PaymentStatus)
	assert.Equal(t, 60, a.DurationMinutes)
	assert.Equal(t, 35.0, a.Price)
	assert.Equal(t, int64(3), a.StaffID)

	history, _ := env.repo.ListHistory(context.Background(), a.ID)
	require.Len(t, history, 1)
	assert.Nil(t, history[0].FromStatus)
	assert.Equal(t, domain.StatusPending, history[0].ToStatus)

	assert.Equal(t, []string{domain.EventAppointmentCreated}, env.pub.events)
	assert.Equal(t, 1, env.metrics.created)
}

func TestService_Book_Conflict(t *testing.T) {
	env := newTestEnv(dayBefore, existing(7, "10:00", 60, domain.StatusConfirmed))

	_, err := env.svc.Book(context.Background(), bookInput(customerActor, "10:30"))

	var conflict *domain.SlotConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []int64{7}, conflict.IDs())
	assert.Equal(t, types.TimeString("11:00"), conflict.Conflicts[0].End)
	assert.Empty(t, env.pub.events)
	assert.Equal(t, 1, env.metrics.conflicts["create"])
}

func TestService_Book_AdjacentAndInactiveDoNotConflict(t *testing.T) {
	env := newTestEnv(dayBefore,
		existing(7, "09:00", 60, domain.StatusConfirmed),
		existing(8, "10:00", 60, domain.StatusCancelled),
		existing(9, "11:00", 60, domain.StatusPending),
	)

	_, err := env.svc.Book(context.Background(), bookInput(customerActor, "10:00"))

	assert.NoError(t, err)
}

func TestService_Book_ForAnotherCustomer(t *testing.T) {
	env := newTestEnv(dayBefore)

	_, err := env.svc.Book(context.Background(), bookInput(otherCustomer, "10:00"))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = env.svc.Book(context.Background(), bookInput(staffActor, "10:00"))
	assert.NoError(t, err)
}

func TestService_Book_StorageConstraintIsConflict(t *testing.T) {
	env := newTestEnv(dayBefore)
	env.repo.createErr = appointmentRepo.ErrOverlapConstraint

	_, err := env.svc.Book(context.Background(), bookInput(customerActor, "10:00"))

	assert.ErrorIs(t, err, domain.ErrSlotConflict)
}

func TestService_Book_LockTimeoutIsConflict(t *testing.T) {
	env := newTestEnv(dayBefore)
	env.svc.locker = blockingLocker{}
	env.svc.lockWait = 20 * time.Millisecond

	_, err := env.svc.Book(context.Background(), bookInput(customerActor, "10:00"))

	assert.ErrorIs(t, err, domain.ErrSlotConflict)
}

func TestService_Book_ConcurrentSameSlot(t *testing.T) {
	env := newTestEnv(dayBefore)

	const callers = 20
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		succeeded  int
		conflicted int
	)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.svc.Book(context.Background(), bookInput(customerActor, "10:00"))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrSlotConflict):
				conflicted++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, callers-1, conflicted)

	active, _ := env.repo.ListActiveByStaffAndDate(context.Background(), 3, monday)
	assert.Len(t, active, 1)
}

func TestService_Book_PublishFailureIgnored(t *testing.T) {
	env := newTestEnv(dayBefore)
	env.pub.err = errors.New("broker down")

	a, err := env.svc.Book(context.Background(), bookInput(customerActor, "10:00"))

	require.NoError(t, err)
	assert.NotNil(t, a)
}

// stalledPublisher ждет, пока брокер не ответит, то есть до отмены контекста
type stalledPublisher struct {
	err         error
	hasDeadline bool
}

func (p *stalledPublisher) Publish(ctx context.Context, _ string, _ *domain.Appointment) error {
	_, p.hasDeadline = ctx.Deadline()
	<-ctx.Done()
	p.err = ctx.Err()
	return p.err
}

func TestService_Book_PublishIsBounded(t *testing.T) {
	env := newTestEnv(dayBefore)
	pub := &stalledPublisher{}
	env.svc.publisher = pub
	env.svc.publishTimeout = 20 * time.Millisecond

	started := time.Now()
	a, err := env.svc.Book(context.Background(), bookInput(customerActor, "10:00"))

	require.NoError(t, err)
	assert.NotNil(t, a)
	assert.Less(t, time.Since(started), time.Second)
	assert.True(t, pub.hasDeadline)
	assert.ErrorIs(t, pub.err, context.DeadlineExceeded)
}

func TestService_Transition(t *testing.T) {
	env := newTestEnv(dayBefore, existing(7, "10:00", 60, domain.StatusPending))

	a, err := env.svc.Transition(context.Background(), staffActor, 7, domain.StatusConfirmed)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, a.Status)
	assert.Equal(t, domain.StatusConfirmed, env.repo.get(7).Status)
	assert.Equal(t, 1, env.metrics.transitions["pending->confirmed"])
	assert.Equal(t, []string{domain.EventAppointmentStatusChanged}, env.pub.events)

	history, _ := env.repo.ListHistory(context.Background(), 7)
	require.Len(t, history, 1)
	assert.Equal(t, domain.StatusPending, *history[0].FromStatus)
	assert.Equal(t, int64(1), history[0].ChangedBy)
}

func TestService_Transition_Invalid(t *testing.T) {
	env := newTestEnv(dayBefore, existing(7, "10:00", 60, domain.StatusPending))

	_, err := env.svc.Transition(context.Background(), staffActor, 7, domain.StatusCompleted)

	var te *domain.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, domain.StatusPending, te.From)
	assert.Equal(t, domain.StatusCompleted, te.To)
	assert.Equal(t, domain.StatusPending, env.repo.get(7).Status)
	assert.Empty(t, env.pub.events)
}

func TestService_Transition_FromTerminal(t *testing.T) {
	for _, status := range domain.InactiveStatuses {
		env := newTestEnv(dayBefore, existing(7, "10:00", 60, status))
		for _, target := range domain.AllStatuses {
			_, err := env.svc.Transition(context.Background(), staffActor, 7, target)
			assert.ErrorIs(t, err, domain.ErrInvalidTransition, "%s -> %s", status, target)
		}
		assert.Equal(t, status, env.repo.get(7).Status)
	}
}

func TestService_Transition_NoShowRequiresStartPassed(t *testing.T) {
	before := time.Date(2025, 3, 10, 9, 59, 0, 0, time.UTC)
	env := newTestEnv(before, existing(7, "10:00", 60, domain.StatusConfirmed))

	_, err := env.svc.Transition(context.Background(), staffActor, 7, domain.StatusNoShow)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, domain.StatusConfirmed, env.repo.get(7).Status)

	env.svc.timeProvider = fixedTime{now: time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)}
	a, err := env.svc.Transition(context.Background(), staffActor, 7, domain.StatusNoShow)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNoShow, a.Status)
}

func TestService_Transition_NoShowUsesSalonTimezone(t *testing.T) {
	// 10:00 at UTC+9 is 01:00 UTC
	env := newTestEnv(time.Date(2025, 3, 10, 1, 30, 0, 0, time.UTC), existing(7, "10:00", 60, domain.StatusInProgress))
	env.svc.location = time.FixedZone("UTC+9", 9*60*60)

	_, err := env.svc.Transition(context.Background(), staffActor, 7, domain.StatusNoShow)
	assert.NoError(t, err)
}

func TestService_Transition_NoShowOnDSTChangeDay(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2026-03-08 10:00 EDT is 14:00 UTC
	a := existing(7, "10:00", 60, domain.StatusConfirmed)
	a.Date = time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)

	env := newTestEnv(time.Date(2026, 3, 8, 13, 59, 0, 0, time.UTC), a)
	env.svc.location = loc

	_, err = env.svc.Transition(context.Background(), staffActor, 7, domain.StatusNoShow)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	env.svc.timeProvider = fixedTime{now: time.Date(2026, 3, 8, 14, 30, 0, 0, time.UTC)}
	updated, err := env.svc.Transition(context.Background(), staffActor, 7, domain.StatusNoShow)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNoShow, updated.Status)
}

func TestService_Transition_Authorization(t *testing.T) {
	env := newTestEnv(dayBefore, existing(7, "10:00", 60, domain.StatusPending))

	_, err := env.svc.Transition(context.Background(), customerActor, 7, domain.StatusConfirmed)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = env.svc.Transition(context.Background(), staffActor, 7, "archived")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.svc.Transition(context.Background(), staffActor, 404, domain.StatusConfirmed)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_Cancel_Idempotent(t *testing.T) {
	env := newTestEnv(dayBefore, existing(7, "10:00", 60, domain.StatusConfirmed))

	first, err := env.svc.Cancel(context.Background(), customerActor, 7, ptr.Ptr("  feeling sick "))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, first.Status)
	assert.Equal(t, "feeling sick", *first.CancellationReason)
	require.NotNil(t, first.CancelledAt)

	second, err := env.svc.Cancel(context.Background(), customerActor, 7, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, second.Status)
	assert.Equal(t, "feeling sick", *second.CancellationReason)

	assert.Len(t, env.pub.events, 1)
	history, _ := env.repo.ListHistory(context.Background(), 7)
	assert.Len(t, history, 1)
}

func TestService_Cancel_FreesSlot(t *testing.T) {
	env := newTestEnv(dayBefore, existing(7, "10:00", 60, domain.StatusPending))

	_, err := env.svc.Cancel(context.Background(), staffActor, 7, nil)
	require.NoError(t, err)

	_, err = env.svc.Book(context.Background(), bookInput(customerActor, "10:00"))
	assert.NoError(t, err)
}

func TestService_Cancel_Rejected(t *testing.T) {
	env := newTestEnv(dayBefore,
		existing(7, "10:00", 60, domain.StatusInProgress),
		existing(8, "12:00", 60, domain.StatusCompleted),
		existing(9, "14:00", 60, domain.StatusPending),
	)

	_, err := env.svc.Cancel(context.Background(), staffActor, 7, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = env.svc.Cancel(context.Background(), staffActor, 8, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = env.svc.Cancel(context.Background(), otherCustomer, 9, nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, domain.StatusPending, env.repo.get(9).Status)

	long := make([]byte, domain.MaxCancellationReasonLength+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err = env.svc.Cancel(context.Background(), staffActor, 9, ptr.Ptr(string(long)))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_Reschedule_ConflictLeavesOriginal(t *testing.T) {
	env := newTestEnv(dayBefore,
		existing(7, "10:00", 60, domain.StatusPending),
		existing(8, "14:00", 60, domain.StatusConfirmed),
	)

	_, err := env.svc.Reschedule(context.Background(), &RescheduleInput{
		Actor:         customerActor,
		AppointmentID: 7,
		NewDate:       monday,
		NewStartTime:  "13:30",
		Availability:  workingHours(),
	})

	var conflict *domain.SlotConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []int64{8}, conflict.IDs())

	original := env.repo.get(7)
	assert.Equal(t, monday, original.Date)
	assert.Equal(t, types.TimeString("10:00"), original.StartTime)
	assert.Equal(t, 1, env.metrics.conflicts["reschedule"])
}

func TestService_Reschedule_ExcludesItself(t *testing.T) {
	env := newTestEnv(dayBefore, existing(7, "10:00", 60, domain.StatusConfirmed))

	a, err := env.svc.Reschedule(context.Background(), &RescheduleInput{
		Actor:         customerActor,
		AppointmentID: 7,
		NewDate:       monday,
		NewStartTime:  "10:30",
		Availability:  workingHours(),
	})

	require.NoError(t, err)
	assert.Equal(t, types.TimeString("10:30"), a.StartTime)
	assert.Equal(t, types.TimeString("10:30"), env.repo.get(7).StartTime)
	assert.Equal(t, []string{domain.EventAppointmentRescheduled}, env.pub.events)
}

func TestService_Reschedule_OtherDate(t *testing.T) {
	env := newTestEnv(dayBefore, existing(7, "10:00", 60, domain.StatusPending))
	tuesday := monday.AddDate(0, 0, 1)

	a, err := env.svc.Reschedule(context.Background(), &RescheduleInput{
		Actor:         staffActor,
		AppointmentID: 7,
		NewDate:       tuesday,
		NewStartTime:  "10:00",
		Availability:  workingHours(),
	})

	require.NoError(t, err)
	assert.Equal(t, tuesday, a.Date)
}

func TestService_Reschedule_Rejected(t *testing.T) {
	env := newTestEnv(dayBefore,
		existing(7, "10:00", 60, domain.StatusPending),
		existing(8, "12:00", 60, domain.StatusInProgress),
	)

	tests := []struct {
		name    string
		in      *RescheduleInput
		wantErr error
	}{
		{
			name:    "outside working hours",
			in:      &RescheduleInput{Actor: customerActor, AppointmentID: 7, NewDate: monday, NewStartTime: "18:30", Availability: workingHours()},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "another customer",
			in:      &RescheduleInput{Actor: otherCustomer, AppointmentID: 7, NewDate: monday, NewStartTime: "15:00", Availability: workingHours()},
			wantErr: domain.ErrUnauthorized,
		},
		{
			name:    "in progress",
			in:      &RescheduleInput{Actor: staffActor, AppointmentID: 8, NewDate: monday, NewStartTime: "15:00", Availability: workingHours()},
			wantErr: domain.ErrInvalidTransition,
		},
		{
			name:    "missing",
			in:      &RescheduleInput{Actor: staffActor, AppointmentID: 404, NewDate: monday, NewStartTime: "15:00", Availability: workingHours()},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Reschedule(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Equal(t, types.TimeString("10:00"), env.repo.get(7).StartTime)
}

func TestService_OverrideDuration(t *testing.T) {
	env := newTestEnv(dayBefore,
		existing(7, "10:00", 60, domain.StatusConfirmed),
		existing(8, "11:30", 60, domain.StatusPending),
	)

	in := &OverrideDurationInput{Actor: staffActor, AppointmentID: 7, DurationMinutes: 90, Availability: workingHours()}

	_, err := env.svc.OverrideDuration(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrValidation, "note is required")

	in.Note = "colouring takes longer"
	a, err := env.svc.OverrideDuration(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 90, a.DurationMinutes)

	in.DurationMinutes = 120
	_, err = env.svc.OverrideDuration(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrSlotConflict)
	assert.Equal(t, 90, env.repo.get(7).DurationMinutes)

	history, _ := env.repo.ListHistory(context.Background(), 7)
	require.Len(t, history, 1)
	assert.Contains(t, *history[0].Note, "colouring takes longer")
}

func TestService_OverrideDuration_Rejected(t *testing.T) {
	env := newTestEnv(dayBefore,
		existing(7, "18:00", 60, domain.StatusConfirmed),
		existing(8, "10:00", 60, domain.StatusCompleted),
	)

	_, err := env.svc.OverrideDuration(context.Background(), &OverrideDurationInput{
		Actor: customerActor, AppointmentID: 7, DurationMinutes: 30, Note: "shorter",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = env.svc.OverrideDuration(context.Background(), &OverrideDurationInput{
		Actor: staffActor, AppointmentID: 7, DurationMinutes: 90, Note: "longer", Availability: workingHours(),
	})
	assert.ErrorIs(t, err, domain.ErrValidation, "must fit working hours")

	_, err = env.svc.OverrideDuration(context.Background(), &OverrideDurationInput{
		Actor: staffActor, AppointmentID: 8, DurationMinutes: 90, Note: "longer",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = env.svc.OverrideDuration(context.Background(), &OverrideDurationInput{
		Actor: staffActor, AppointmentID: 7, DurationMinutes: 0, Note: "zero",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_Reads(t *testing.T) {
	env := newTestEnv(dayBefore,
		existing(7, "10:00", 60, domain.StatusPending),
		existing(8, "12:00", 60, domain.StatusCancelled),
	)

	details, err := env.svc.GetByID(context.Background(), customerActor, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), details.Appointment.ID)

	_, err = env.svc.GetByID(context.Background(), otherCustomer, 7)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = env.svc.GetByID(context.Background(), staffActor, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := env.svc.ListByCustomer(context.Background(), customerActor, 10, nil)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = env.svc.ListByCustomer(context.Background(), otherCustomer, 10, nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	list, err = env.svc.ListByStaff(context.Background(), staffActor, domain.StaffAppointmentsFilter{StaffID: 3})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = env.svc.ListByStaff(context.Background(), customerActor, domain.StaffAppointmentsFilter{StaffID: 3})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	end := monday.AddDate(0, 0, -1)
	_, err = env.svc.ListByStaff(context.Background(), staffActor, domain.StaffAppointmentsFilter{StaffID: 3, StartDate: &monday, EndDate: &end})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSlotKey(t *testing.T) {
	assert.Equal(t, "slot:3:2025-03-10", SlotKey(3, monday))
}
