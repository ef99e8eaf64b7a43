package domain

import "time"

// ReasonCode код причины отказа в валидации слота
// Семантически невалидный слот - это нормальный отрицательный результат,
// а не ошибка: коды передаются вызывающей стороне как данные
type ReasonCode string

const (
	ReasonPastSlot            ReasonCode = "past_slot"
	ReasonInvalidDuration     ReasonCode = "invalid_duration"
	ReasonDayClosed           ReasonCode = "day_closed"
	ReasonOutsideWorkingHours ReasonCode = "outside_working_hours"
	ReasonSlotConflict        ReasonCode = "slot_conflict"
)

// ValidationContext неизменяемый снимок фактов расписания, по которому
// оценивается один или несколько кандидатных слотов
// Строится заново на каждый запрос (или на день при обходе сетки слотов)
// и после построения не мутирует
type ValidationContext struct {
	StaffID int64

	// Недельное расписание мастера по умолчанию
	DefaultWeeklyWindows WeeklyWindows

	// Исключения по датам: не более одной записи на дату,
	// строки одной даты предварительно свёрнуты (MergeExceptionRows)
	ExceptionsByDateID map[DateID]*DayException

	// Существующие записи мастера в запрошенном диапазоне,
	// отсортированы по StartUTC; отменённые записи исключены
	Bookings []*Booking

	// Бизнес-таймзона салона
	Location *time.Location
}

// ValidationResult результат проверки одного кандидатного слота
type ValidationResult struct {
	Valid  bool
	Reason ReasonCode // заполнен только при Valid=false

	// Conflict запись, с которой пересекается слот (для Reason=slot_conflict)
	Conflict *Booking
}

// ValidResult возвращает положительный результат валидации
func ValidResult() *ValidationResult {
	return &ValidationResult{Valid: true}
}

// InvalidResult возвращает отрицательный результат с указанием причины
func InvalidResult(reason ReasonCode) *ValidationResult {
	return &ValidationResult{Valid: false, Reason: reason}
}

// ConflictResult возвращает отрицательный результат пересечения с записью
func ConflictResult(conflict *Booking) *ValidationResult {
	return &ValidationResult{Valid: false, Reason: ReasonSlotConflict, Conflict: conflict}
}
