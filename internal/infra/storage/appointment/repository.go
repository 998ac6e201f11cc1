package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonScheduling/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SalonScheduling/pkg/types"
)

const (
	tableAppointments = "appointments"
	tableHistory      = "appointment_status_history"
)

var appointmentColumns = []string{
	"id",
	"customer_id",
	"service_id",
	"staff_id",
	"appointment_date",
	"start_time",
	"duration_minutes",
	"status",
	"price",
	"payment_status",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

var historyColumns = []string{
	"id",
	"appointment_id",
	"from_status",
	"to_status",
	"changed_by",
	"note",
	"changed_at",
}

// Repository репозиторий для работы с записями на услуги
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableAppointments).
		Columns(
			"customer_id",
			"service_id",
			"staff_id",
			"appointment_date",
			"start_time",
			"duration_minutes",
			"status",
			"price",
			"payment_status",
			"notes",
		).
		Values(
			a.CustomerID,
			a.ServiceID,
			a.StaffID,
			a.Date,
			a.StartTime,
			a.DurationMinutes,
			a.Status,
			a.Price,
			a.PaymentStatus,
			a.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, mapWriteError("Create", err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return a, nil
}

// GetByID получает запись по ID
// Внутри транзакции блокирует строку (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From(tableAppointments).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return a, nil
}

// ListActiveByStaffAndDate возвращает занимающие слот записи мастера на дату
// Внутри транзакции блокирует найденные строки (FOR UPDATE)
func (r *Repository) ListActiveByStaffAndDate(ctx context.Context, staffID int64, date time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From(tableAppointments).
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Eq{"appointment_date": date}).
		Where(squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByStaffAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByStaffAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// ListByCustomer получает записи клиента
// Опционально фильтрует по статусу
func (r *Repository) ListByCustomer(ctx context.Context, customerID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From(tableAppointments).
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("appointment_date DESC, start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCustomer - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCustomer - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// ListByStaff получает записи мастера с фильтрацией по периоду и статусу
func (r *Repository) ListByStaff(ctx context.Context, filter domain.StaffAppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From(tableAppointments).
		Where(squirrel.Eq{"staff_id": filter.StaffID})

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"appointment_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"appointment_date": *filter.EndDate})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)})
	}

	query, args, err := selectBuilder.
		OrderBy("appointment_date ASC, start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByStaff - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByStaff - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// UpdateStatus обновляет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	update := psqlbuilder.Update(tableAppointments).
		Set("status", status)

	return r.execUpdate(ctx, "UpdateStatus", id, update)
}

// Cancel переводит запись в cancelled с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, reason *string, cancelledAt time.Time) error {
	update := psqlbuilder.Update(tableAppointments).
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", cancelledAt)

	return r.execUpdate(ctx, "Cancel", id, update)
}

// UpdateSchedule переносит запись на новую дату и время
func (r *Repository) UpdateSchedule(ctx context.Context, id int64, date time.Time, start types.TimeString) error {
	update := psqlbuilder.Update(tableAppointments).
		Set("appointment_date", date).
		Set("start_time", start)

	return r.execUpdate(ctx, "UpdateSchedule", id, update)
}

// UpdateDuration меняет длительность записи
func (r *Repository) UpdateDuration(ctx context.Context, id int64, durationMinutes int) error {
	update := psqlbuilder.Update(tableAppointments).
		Set("duration_minutes", durationMinutes)

	return r.execUpdate(ctx, "UpdateDuration", id, update)
}

func (r *Repository) execUpdate(ctx context.Context, op string, id int64, update squirrel.UpdateBuilder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := update.
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError(op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// AddHistory добавляет запись в журнал изменений статуса
func (r *Repository) AddHistory(ctx context.Context, entry *domain.StatusHistoryEntry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableHistory).
		Columns("appointment_id", "from_status", "to_status", "changed_by", "note").
		Values(entry.AppointmentID, entry.FromStatus, entry.ToStatus, entry.ChangedBy, entry.Note).
		Suffix("RETURNING id, changed_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AddHistory - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &entry.ChangedAt); err != nil {
		return fmt.Errorf("%w: AddHistory - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ListHistory возвращает журнал изменений записи в хронологическом порядке
func (r *Repository) ListHistory(ctx context.Context, appointmentID int64) ([]*domain.StatusHistoryEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(historyColumns...).
		From(tableHistory).
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		OrderBy("changed_at ASC, id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListHistory - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListHistory - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.StatusHistoryEntry, 0)
	for rows.Next() {
		var (
			e    domain.StatusHistoryEntry
			from sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.AppointmentID, &from, &e.ToStatus, &e.ChangedBy, &e.Note, &e.ChangedAt); err != nil {
			return nil, fmt.Errorf("%w: ListHistory - scan row: %v", ErrScanRow, err)
		}
		if from.Valid {
			status := domain.AppointmentStatus(from.String)
			e.FromStatus = &status
		}
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListHistory - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		a                    domain.Appointment
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&a.ID,
		&a.CustomerID,
		&a.ServiceID,
		&a.StaffID,
		&a.Date,
		&a.StartTime,
		&a.DurationMinutes,
		&a.Status,
		&a.Price,
		&a.PaymentStatus,
		&a.Notes,
		&a.CancellationReason,
		&a.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

func statusStrings(statuses []domain.AppointmentStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}
