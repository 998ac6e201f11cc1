package reschedule_appointment

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-SalonScheduling/internal/api/middleware"
	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	rescheduleAppointment "github.com/m04kA/SMC-SalonScheduling/internal/usecase/reschedule_appointment"
)

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *rescheduleAppointment.Request) (*domain.Appointment, error) {
	args := m.Called(ctx, req)
	a, _ := args.Get(0).(*domain.Appointment)
	return a, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var customer = domain.Actor{UserID: 10, Role: domain.RoleCustomer}

func newRequest(id, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/appointments/"+id+"/reschedule", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"appointmentId": id})
	return req.WithContext(middleware.WithActor(req.Context(), customer))
}

func requestFor(id int64, startTime string) interface{} {
	return mock.MatchedBy(func(r *rescheduleAppointment.Request) bool {
		return r.AppointmentID == id &&
			r.Actor == customer &&
			r.NewDate.Equal(time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)) &&
			string(r.NewStartTime) == startTime
	})
}

func TestHandler_Handle(t *testing.T) {
	uc := &mockUseCase{}
	h := NewHandler(uc, nopLogger{})

	uc.On("Execute", mock.Anything, requestFor(5, "11:00")).
		Return(&domain.Appointment{ID: 5, Date: time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), StartTime: "11:00", DurationMinutes: 60, Status: domain.StatusPending}, nil)

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest("5", `{"date":"2025-03-11","startTime":"11:00"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"startTime":"11:00"`)
	uc.AssertExpectations(t)
}

func TestHandler_Handle_SlotConflict(t *testing.T) {
	uc := &mockUseCase{}
	h := NewHandler(uc, nopLogger{})

	conflict := &domain.SlotConflictError{Conflicts: []domain.ConflictingAppointment{
		{ID: 3, Date: time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), Start: "10:30", End: "11:30"},
	}}
	uc.On("Execute", mock.Anything, requestFor(5, "11:00")).
		Return(nil, fmt.Errorf("reschedule: %w", conflict))

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest("5", `{"date":"2025-03-11","startTime":"11:00"}`))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"appointmentId":3`)
}

func TestHandler_Handle_BadInput(t *testing.T) {
	uc := &mockUseCase{}
	h := NewHandler(uc, nopLogger{})

	tests := []struct {
		name string
		id   string
		body string
	}{
		{name: "bad id", id: "x", body: `{"date":"2025-03-11","startTime":"11:00"}`},
		{name: "bad time", id: "5", body: `{"date":"2025-03-11","startTime":"25:00"}`},
		{name: "bad date", id: "5", body: `{"date":"11.03.2025","startTime":"11:00"}`},
		{name: "unknown field", id: "5", body: `{"date":"2025-03-11","startTime":"11:00","staffId":2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Handle(rec, newRequest(tt.id, tt.body))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}
