package override_duration

import (
	"context"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	overrideDuration "github.com/m04kA/SMC-SalonScheduling/internal/usecase/override_duration"
)

type OverrideDurationUseCase interface {
	Execute(ctx context.Context, req *overrideDuration.Request) (*domain.Appointment, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
