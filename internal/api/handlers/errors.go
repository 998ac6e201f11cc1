package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

const (
	// MsgSlotConflict текст для клиентских интерфейсов при конфликте слота
	MsgSlotConflict = "this time just became unavailable, please choose another"

	msgNotFound  = "not found"
	msgForbidden = "access denied"
)

// Logger интерфейс для логирования ошибок ответа
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// StatusFor возвращает HTTP статус для ошибки доменной таксономии
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInactive):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrSlotConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// RespondDomainError отвечает по таксономии ошибок; route используется только в логах
func RespondDomainError(w http.ResponseWriter, log Logger, route string, err error) {
	status := StatusFor(err)

	switch {
	case status == http.StatusInternalServerError:
		log.Error("%s - internal error: %v", route, err)
		RespondInternalError(w)

	case errors.Is(err, domain.ErrSlotConflict):
		log.Warn("%s - slot conflict: %v", route, err)
		resp := ErrorResponse{Code: status, Message: MsgSlotConflict}

		var conflict *domain.SlotConflictError
		if errors.As(err, &conflict) {
			for _, c := range conflict.Conflicts {
				resp.Conflicts = append(resp.Conflicts, ConflictResponse{
					AppointmentID: c.ID,
					Date:          c.Date.Format(domain.DateFormat),
					StartTime:     c.Start.String(),
					EndTime:       c.End.String(),
				})
			}
		}
		RespondJSON(w, status, resp)

	case status == http.StatusNotFound:
		log.Warn("%s - %v", route, err)
		RespondNotFound(w, msgNotFound)

	case status == http.StatusForbidden:
		log.Warn("%s - %v", route, err)
		RespondForbidden(w, msgForbidden)

	default:
		log.Warn("%s - %v", route, err)
		RespondError(w, status, err.Error())
	}
}
