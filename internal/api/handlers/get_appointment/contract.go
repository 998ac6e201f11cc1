package get_appointment

import (
	"context"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/appointments"
)

type AppointmentService interface {
	GetByID(ctx context.Context, actor domain.Actor, id int64) (*appointments.AppointmentDetails, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
