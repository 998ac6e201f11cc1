package list_availability

import (
	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	listAvailability "github.com/m04kA/SMC-SalonScheduling/internal/usecase/list_availability"
)

// SlotResponse HTTP модель слота
type SlotResponse struct {
	StartTime string  `json:"startTime"`
	Available bool    `json:"available"`
	Conflicts []int64 `json:"conflicts"`
}

// AvailabilityResponse HTTP модель ответа
type AvailabilityResponse struct {
	Date            string         `json:"date"`
	StaffID         int64          `json:"staffId"`
	ServiceID       int64          `json:"serviceId"`
	DurationMinutes int            `json:"durationMinutes"`
	IntervalMinutes int            `json:"intervalMinutes"`
	Slots           []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *listAvailability.Response) *AvailabilityResponse {
	result := &AvailabilityResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		StaffID:         resp.StaffID,
		ServiceID:       resp.ServiceID,
		DurationMinutes: resp.DurationMinutes,
		IntervalMinutes: resp.IntervalMinutes,
		Slots:           make([]SlotResponse, 0, len(resp.Slots)),
	}

	for _, s := range resp.Slots {
		conflicts := s.ConflictingAppointmentIDs
		if conflicts == nil {
			conflicts = []int64{}
		}
		result.Slots = append(result.Slots, SlotResponse{
			StartTime: s.StartTime.String(),
			Available: s.Available,
			Conflicts: conflicts,
		})
	}

	return result
}
