package delete_schedule_exception

import "context"

type ScheduleService interface {
	DeleteExceptions(ctx context.Context, staffID int64, date string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
