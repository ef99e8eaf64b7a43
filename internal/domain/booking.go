package domain

import "time"

// BookingStatus represents the status of an appointment booking
type BookingStatus string

const (
	StatusBooked    BookingStatus = "booked"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusNoShow    BookingStatus = "no_show"
)

// Booking represents an appointment in the system
// Время хранится в UTC; локальное время вычисляется через бизнес-таймзону
type Booking struct {
	ID       int64
	ClientID int64
	StaffID  int64
	StartUTC time.Time
	EndUTC   time.Time
	Status   BookingStatus

	// Denormalized data for history
	ServiceName  string
	ServicePrice float64
	Notes        *string

	// Внешний идентификатор записи в Phorest (календарь/CRM)
	// nil, если запись ещё не отправлена во внешний календарь
	ExternalRef *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DurationMinutes returns the appointment duration in minutes
func (b *Booking) DurationMinutes() int {
	return int(b.EndUTC.Sub(b.StartUTC) / time.Minute)
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// Blocks returns true if the booking occupies its time slot
// Консервативно: слот блокирует любая не отменённая запись
func (b *Booking) Blocks() bool {
	return !b.IsCancelled()
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusBooked
}

// Overlaps reports whether the booking overlaps [start, end)
// Интервалы полуоткрытые: запись, заканчивающаяся ровно в start, не пересекается
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartUTC.Before(end) && b.EndUTC.After(start)
}

// NormalizeBookingStatus приводит статус из сырой строки БД к каноническому значению
// В исторических данных встречаются разночтения ("canceled", "no-show", "noshow") -
// нормализация выполняется один раз на границе хранилища
func NormalizeBookingStatus(raw string) (BookingStatus, bool) {
	switch raw {
	case "booked", "confirmed":
		return StatusBooked, true
	case "completed", "done":
		return StatusCompleted, true
	case "cancelled", "canceled":
		return StatusCancelled, true
	case "no_show", "no-show", "noshow":
		return StatusNoShow, true
	default:
		return "", false
	}
}

// StaffBookingsFilter фильтр для получения записей мастера
type StaffBookingsFilter struct {
	StaffID         int64          // Обязательный параметр
	FromUTC         *time.Time     // Начало периода [from, to) (опционально)
	ToUTC           *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отменённые записи
}
