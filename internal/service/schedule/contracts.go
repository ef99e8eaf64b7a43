package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	GetStaff(ctx context.Context, staffID int64) (*domain.StaffMember, error)
	GetWeeklyWindows(ctx context.Context, staffID int64) (domain.WeeklyWindows, error)
	ReplaceWeeklyWindows(ctx context.Context, staffID int64, weekly domain.WeeklyWindows) error
	GetExceptionRows(ctx context.Context, staffID int64, fromUTC, toUTC time.Time) ([]domain.ExceptionRow, error)
	CreateException(ctx context.Context, staffID int64, row domain.ExceptionRow) error
	DeleteExceptions(ctx context.Context, staffID int64, dateID domain.DateID) error
}

// TxManager интерфейс менеджера транзакций
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
