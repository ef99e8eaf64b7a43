package validation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписаний мастеров
type ScheduleRepository interface {
	GetStaff(ctx context.Context, staffID int64) (*domain.StaffMember, error)
	GetWeeklyWindows(ctx context.Context, staffID int64) (domain.WeeklyWindows, error)
	// GetExceptionRows возвращает нормализованные строки исключений,
	// пересекающие [fromUTC, toUTC)
	GetExceptionRows(ctx context.Context, staffID int64, fromUTC, toUTC time.Time) ([]domain.ExceptionRow, error)
}

// BookingRepository интерфейс репозитория записей
type BookingRepository interface {
	// GetByStaffInRange возвращает не отменённые записи мастера,
	// пересекающие [fromUTC, toUTC), упорядоченные по StartUTC
	GetByStaffInRange(ctx context.Context, staffID int64, fromUTC, toUTC time.Time) ([]*domain.Booking, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
