package domain

// Default configuration values
const (
	DefaultSlotStepMinutes        = 15
	DefaultAppointmentDurationMin = 30
)

// Business validation constants
const (
	MinAppointmentDurationMinutes = 5
	// Запись не может быть длиннее одного рабочего дня
	MaxAppointmentDurationMinutes = 480

	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, не блокирующих слоты
// Используется для фильтрации при построении контекста валидации
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
}

// BlockingStatuses список статусов, занимающих слот
// Любая не отменённая запись блокирует время мастера
var BlockingStatuses = []BookingStatus{
	StatusBooked,
	StatusCompleted,
	StatusNoShow,
}
