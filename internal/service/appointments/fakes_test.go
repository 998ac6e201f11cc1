package appointments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonScheduling/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SalonScheduling/pkg/types"
)

// fakeRepo хранит записи в памяти; используется только в тестах
type fakeRepo struct {
	mu        sync.Mutex
	nextID    int64
	items     map[int64]*domain.Appointment
	history   []*domain.StatusHistoryEntry
	createErr error
}

func newFakeRepo(seed ...*domain.Appointment) *fakeRepo {
	r := &fakeRepo{nextID: 100, items: make(map[int64]*domain.Appointment)}
	for _, a := range seed {
		cp := *a
		r.items[a.ID] = &cp
	}
	return r
}

func (r *fakeRepo) get(id int64) domain.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.items[id]
}

func (r *fakeRepo) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	a.ID = r.nextID
	cp := *a
	r.items[a.ID] = &cp
	return a, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeRepo) ListActiveByStaffAndDate(_ context.Context, staffID int64, date time.Time) ([]*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Appointment, 0)
	for _, a := range r.items {
		if a.StaffID == staffID && sameDay(a.Date, date) && a.IsActive() {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.IsBefore(out[j].StartTime) })
	return out, nil
}

func (r *fakeRepo) ListByCustomer(_ context.Context, customerID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Appointment, 0)
	for _, a := range r.items {
		if a.CustomerID == customerID && (status == nil || a.Status == *status) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListByStaff(_ context.Context, filter domain.StaffAppointmentsFilter) ([]*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Appointment, 0)
	for _, a := range r.items {
		if a.StaffID == filter.StaffID && (filter.IncludeInactive || a.IsActive()) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) update(id int64, fn func(a *domain.Appointment)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	fn(a)
	return nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	return r.update(id, func(a *domain.Appointment) { a.Status = status })
}

func (r *fakeRepo) Cancel(_ context.Context, id int64, reason *string, cancelledAt time.Time) error {
	return r.update(id, func(a *domain.Appointment) {
		a.Status = domain.StatusCancelled
		a.CancellationReason = reason
		a.CancelledAt = &cancelledAt
	})
}

func (r *fakeRepo) UpdateSchedule(_ context.Context, id int64, date time.Time, start types.TimeString) error {
	return r.update(id, func(a *domain.Appointment) {
		a.Date = date
		a.StartTime = start
	})
}

func (r *fakeRepo) UpdateDuration(_ context.Context, id int64, durationMinutes int) error {
	return r.update(id, func(a *domain.Appointment) { a.DurationMinutes = durationMinutes })
}

func (r *fakeRepo) AddHistory(_ context.Context, entry *domain.StatusHistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = int64(len(r.history) + 1)
	r.history = append(r.history, entry)
	return nil
}

func (r *fakeRepo) ListHistory(_ context.Context, appointmentID int64) ([]*domain.StatusHistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.StatusHistoryEntry, 0)
	for _, e := range r.history {
		if e.AppointmentID == appointmentID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeTx struct{}

func (fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, eventType string, _ *domain.Appointment) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	return p.err
}

type fakeMetrics struct {
	mu          sync.Mutex
	created     int
	conflicts   map[string]int
	transitions map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{conflicts: map[string]int{}, transitions: map[string]int{}}
}

func (m *fakeMetrics) IncAppointmentCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created++
}

func (m *fakeMetrics) IncSlotConflict(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflicts[op]++
}

func (m *fakeMetrics) IncTransition(from, to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions[from+"->"+to]++
}

func (m *fakeMetrics) IncEventPublished(string, error) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// blockingLocker никогда не отдает ключ
type blockingLocker struct{}

func (blockingLocker) Lock(ctx context.Context, _ string) (func(), error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
