package list_availability

import (
	"context"

	listAvailability "github.com/m04kA/SMC-SalonScheduling/internal/usecase/list_availability"
)

type ListAvailabilityUseCase interface {
	Execute(ctx context.Context, req *listAvailability.Request) (*listAvailability.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
