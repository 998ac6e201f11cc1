package list_availability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	listAvailability "github.com/m04kA/SMC-SalonScheduling/internal/usecase/list_availability"
)

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *listAvailability.Request) (*listAvailability.Response, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*listAvailability.Response)
	return r, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newRequest(staffID, query string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/staff/"+staffID+"/availability?"+query, nil)
	return mux.SetURLVars(req, map[string]string{"staffId": staffID})
}

func TestHandler_Handle(t *testing.T) {
	uc := &mockUseCase{}
	h := NewHandler(uc, nopLogger{})
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	uc.On("Execute", mock.Anything, mock.MatchedBy(func(r *listAvailability.Request) bool {
		return r.StaffID == 3 && r.ServiceID == 2 && r.Date.Equal(date)
	})).
		Return(&listAvailability.Response{
			Date: date, StaffID: 3, ServiceID: 2, DurationMinutes: 60, IntervalMinutes: 30,
			Slots: []listAvailability.Slot{
				{StartTime: "09:00", Available: false, ConflictingAppointmentIDs: []int64{7}},
				{StartTime: "10:00", Available: true},
			},
		}, nil)

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest("3", "serviceId=2&date=2025-03-10"))

	require.Equal(t, http.StatusOK, rec.Code)

	var body AvailabilityResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Slots, 2)
	assert.Equal(t, []int64{7}, body.Slots[0].Conflicts)
	assert.True(t, body.Slots[1].Available)
	assert.Equal(t, []int64{}, body.Slots[1].Conflicts)
}

func TestHandler_Handle_BadParams(t *testing.T) {
	uc := &mockUseCase{}
	h := NewHandler(uc, nopLogger{})

	for _, tc := range []struct{ staffID, query string }{
		{"x", "serviceId=2&date=2025-03-10"},
		{"3", "date=2025-03-10"},
		{"3", "serviceId=-1&date=2025-03-10"},
		{"3", "serviceId=2&date=tomorrow"},
	} {
		rec := httptest.NewRecorder()
		h.Handle(rec, newRequest(tc.staffID, tc.query))
		assert.Equal(t, http.StatusBadRequest, rec.Code, tc.query)
	}

	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}
