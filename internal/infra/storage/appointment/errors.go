package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrOverlapConstraint возвращается при нарушении exclusion constraint на пересечение интервалов
	ErrOverlapConstraint = errors.New("appointment.repository: overlapping appointment exists")

	// ErrSerializationFailure возвращается, когда БД отменила транзакцию из-за конкурентной записи
	ErrSerializationFailure = errors.New("appointment.repository: serialization failure")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
