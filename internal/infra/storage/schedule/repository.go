package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// Repository репозиторий для работы с расписаниями мастеров
// Все нормализации сырых строк (устаревшие написания видов исключений,
// TIME-значения из PostgreSQL) выполняются здесь - дальше по стеку ходят
// только строго типизированные сущности domain
type Repository struct {
	db       DBExecutor
	location *time.Location
}

// NewRepository создает новый экземпляр репозитория расписаний
// location - бизнес-таймзона салона, в ней вычисляются границы DateID
func NewRepository(db DBExecutor, location *time.Location) *Repository {
	return &Repository{db: db, location: location}
}

// GetStaff получает мастера по ID
func (r *Repository) GetStaff(ctx context.Context, staffID int64) (*domain.StaffMember, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"display_name",
		"external_ref",
		"active",
		"created_at",
		"updated_at",
	).
		From("staff").
		Where(squirrel.Eq{"id": staffID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetStaff - build select query: %v", ErrBuildQuery, err)
	}

	var staff domain.StaffMember
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&staff.ID,
		&staff.DisplayName,
		&staff.ExternalRef,
		&staff.Active,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaff - scan staff: %v", ErrScanRow, err)
	}

	staff.CreatedAt = createdAt.Time
	staff.UpdatedAt = updatedAt.Time

	return &staff, nil
}

// GetWeeklyWindows получает недельное расписание мастера
// Окна каждого дня возвращаются упорядоченными по времени начала
func (r *Repository) GetWeeklyWindows(ctx context.Context, staffID int64) (domain.WeeklyWindows, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"weekday",
		"start_time",
		"end_time",
	).
		From("staff_weekly_hours").
		Where(squirrel.Eq{"staff_id": staffID}).
		OrderBy("weekday ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyWindows - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyWindows - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	weekly := make(domain.WeeklyWindows)

	for rows.Next() {
		var weekday int
		var start, end types.TimeString

		if err := rows.Scan(&weekday, &start, &end); err != nil {
			return nil, fmt.Errorf("%w: GetWeeklyWindows - scan row: %v", ErrScanRow, err)
		}

		if weekday < 0 || weekday > 6 {
			return nil, fmt.Errorf("%w: GetWeeklyWindows - weekday %d out of range", ErrInvalidRow, weekday)
		}

		window := domain.WorkingWindow{Start: start, End: end}
		if err := window.Validate(); err != nil {
			return nil, fmt.Errorf("%w: GetWeeklyWindows - staff=%d weekday=%d: %v", ErrInvalidRow, staffID, weekday, err)
		}

		day := time.Weekday(weekday)
		weekly[day] = append(weekly[day], window)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyWindows - rows error: %v", ErrScanRow, err)
	}

	return weekly, nil
}

// ReplaceWeeklyWindows заменяет недельное расписание мастера целиком
// Выполняется в транзакции вызывающей стороны (delete + insert)
func (r *Repository) ReplaceWeeklyWindows(ctx context.Context, staffID int64, weekly domain.WeeklyWindows) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("staff_weekly_hours").
		Where(squirrel.Eq{"staff_id": staffID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWeeklyWindows - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceWeeklyWindows - execute delete: %v", ErrExecQuery, err)
	}

	insertBuilder := psqlbuilder.Insert("staff_weekly_hours").
		Columns("staff_id", "weekday", "start_time", "end_time")

	empty := true
	for weekday, windows := range weekly {
		for _, w := range windows {
			if err := w.Validate(); err != nil {
				return fmt.Errorf("%w: ReplaceWeeklyWindows - weekday=%d: %v", ErrInvalidRow, int(weekday), err)
			}
			insertBuilder = insertBuilder.Values(staffID, int(weekday), w.Start, w.End)
			empty = false
		}
	}

	if empty {
		return nil
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWeeklyWindows - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceWeeklyWindows - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetExceptionRows получает строки исключений расписания, пересекающие [fromUTC, toUTC)
// Границы диапазона проецируются в DateID бизнес-таймзоны; сравнение строк
// YYYYMMDD совпадает с хронологическим порядком
func (r *Repository) GetExceptionRows(ctx context.Context, staffID int64, fromUTC, toUTC time.Time) ([]domain.ExceptionRow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	fromDate := domain.DateIDFromTime(fromUTC, r.location)
	toDate := domain.DateIDFromTime(toUTC, r.location)

	query, args, err := psqlbuilder.Select(
		"date_id",
		"kind",
		"start_time",
		"end_time",
	).
		From("staff_schedule_exceptions").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.GtOrEq{"date_id": string(fromDate)}).
		Where(squirrel.LtOrEq{"date_id": string(toDate)}).
		OrderBy("date_id ASC, kind ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptionRows - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptionRows - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]domain.ExceptionRow, 0)

	for rows.Next() {
		var dateID string
		var rawKind string
		var start, end *types.TimeString

		if err := rows.Scan(&dateID, &rawKind, &start, &end); err != nil {
			return nil, fmt.Errorf("%w: GetExceptionRows - scan row: %v", ErrScanRow, err)
		}

		// Нормализуем устаревшие написания вида исключения
		kind, ok := domain.NormalizeExceptionKind(rawKind)
		if !ok {
			return nil, fmt.Errorf("%w: GetExceptionRows - unknown exception kind %q for date %s",
				ErrInvalidRow, rawKind, dateID)
		}

		row := domain.ExceptionRow{
			DateID: domain.DateID(dateID),
			Kind:   kind,
		}

		if kind != domain.ExceptionClosed {
			if start == nil || end == nil {
				return nil, fmt.Errorf("%w: GetExceptionRows - %s exception for date %s has no window",
					ErrInvalidRow, kind, dateID)
			}
			window := domain.WorkingWindow{Start: *start, End: *end}
			if err := window.Validate(); err != nil {
				return nil, fmt.Errorf("%w: GetExceptionRows - date %s: %v", ErrInvalidRow, dateID, err)
			}
			row.Window = &window
		}

		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetExceptionRows - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// CreateException создает исключение расписания для мастера
func (r *Repository) CreateException(ctx context.Context, staffID int64, row domain.ExceptionRow) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var start, end *types.TimeString
	if row.Window != nil {
		start = &row.Window.Start
		end = &row.Window.End
	}

	query, args, err := psqlbuilder.Insert("staff_schedule_exceptions").
		Columns("staff_id", "date_id", "kind", "start_time", "end_time").
		Values(staffID, string(row.DateID), string(row.Kind), start, end).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: CreateException - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CreateException - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// DeleteExceptions удаляет все исключения мастера на указанную дату
func (r *Repository) DeleteExceptions(ctx context.Context, staffID int64, dateID domain.DateID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("staff_schedule_exceptions").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Eq{"date_id": string(dateID)}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteExceptions - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteExceptions - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteExceptions - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrExceptionNotFound
	}

	return nil
}
