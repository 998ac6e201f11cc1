package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

// PathID извлекает положительный идентификатор из пути
func PathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", name, raw)
	}
	return id, nil
}

// ParseDate парсит дату в формате YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	return time.Parse(domain.DateFormat, s)
}

// ParseOptionalDate возвращает nil для пустой строки
func ParseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ParseOptionalStatus возвращает nil для пустой строки
func ParseOptionalStatus(s string) (*domain.AppointmentStatus, error) {
	if s == "" {
		return nil, nil
	}
	status, err := domain.ParseStatus(s)
	if err != nil {
		return nil, err
	}
	return &status, nil
}
