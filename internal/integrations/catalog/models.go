package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/pkg/types"
)

// Service модель услуги из каталога
type Service struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
	Active          bool    `json:"active"`
}

// StaffAvailability модель рабочего расписания мастера
type StaffAvailability struct {
	StaffID     int64    `json:"staffId"`
	WorkingDays []string `json:"workingDays"` // "monday", "tuesday", ...
	DayStart    string   `json:"dayStart"`    // "09:00"
	DayEnd      string   `json:"dayEnd"`      // "19:00"
	Active      bool     `json:"active"`
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ToDomain конвертирует ответ каталога в доменную модель
func (s *Service) ToDomain() (*domain.Service, error) {
	if s.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: service id=%d has non-positive duration %d", ErrInvalidResponse, s.ID, s.DurationMinutes)
	}
	if s.Price < 0 {
		return nil, fmt.Errorf("%w: service id=%d has negative price", ErrInvalidResponse, s.ID)
	}

	return &domain.Service{
		ID:              s.ID,
		Name:            s.Name,
		Category:        s.Category,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		Active:          s.Active,
	}, nil
}

// ToDomain конвертирует расписание в доменную модель
func (a *StaffAvailability) ToDomain() (*domain.StaffAvailability, error) {
	days := make([]time.Weekday, 0, len(a.WorkingDays))
	for _, d := range a.WorkingDays {
		wd, ok := weekdays[strings.ToLower(strings.TrimSpace(d))]
		if !ok {
			return nil, fmt.Errorf("%w: unknown weekday %q", ErrInvalidResponse, d)
		}
		days = append(days, wd)
	}

	dayStart, err := types.NewTimeStringFromString(a.DayStart)
	if err != nil {
		return nil, fmt.Errorf("%w: dayStart: %v", ErrInvalidResponse, err)
	}
	dayEnd, err := types.NewTimeStringFromString(a.DayEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: dayEnd: %v", ErrInvalidResponse, err)
	}

	return &domain.StaffAvailability{
		StaffID:     a.StaffID,
		WorkingDays: days,
		DayStart:    dayStart,
		DayEnd:      dayEnd,
		Active:      a.Active,
	}, nil
}
