package get_staff_appointments

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-SalonScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

// ToFilter собирает фильтр из query параметров
// startDate, endDate, status, includeInactive опциональны
func ToFilter(staffID int64, query url.Values) (domain.StaffAppointmentsFilter, error) {
	filter := domain.StaffAppointmentsFilter{StaffID: staffID}

	startDate, err := handlers.ParseOptionalDate(query.Get("startDate"))
	if err != nil {
		return filter, fmt.Errorf("startDate: %w", err)
	}
	filter.StartDate = startDate

	endDate, err := handlers.ParseOptionalDate(query.Get("endDate"))
	if err != nil {
		return filter, fmt.Errorf("endDate: %w", err)
	}
	filter.EndDate = endDate

	status, err := handlers.ParseOptionalStatus(query.Get("status"))
	if err != nil {
		return filter, fmt.Errorf("status: %w", err)
	}
	filter.Status = status

	if raw := query.Get("includeInactive"); raw != "" {
		includeInactive, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, fmt.Errorf("includeInactive: %w", err)
		}
		filter.IncludeInactive = includeInactive
	}

	return filter, nil
}
