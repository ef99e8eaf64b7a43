package create_booking

import "errors"

var (
	// ErrStaffNotFound мастер не найден или неактивен
	ErrStaffNotFound = errors.New("staff member not found")
	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("invalid input")
	// ErrPastSlot слот в прошлом
	ErrPastSlot = errors.New("slot is in the past")
	// ErrInvalidDuration недопустимая длительность записи
	ErrInvalidDuration = errors.New("invalid appointment duration")
	// ErrDayClosed салон закрыт в выбранную дату
	ErrDayClosed = errors.New("day is closed")
	// ErrOutsideWorkingHours слот вне рабочих часов мастера
	ErrOutsideWorkingHours = errors.New("slot is outside working hours")
	// ErrSlotTaken слот пересекается с существующей записью
	ErrSlotTaken = errors.New("slot is already taken")
	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("internal error")
)
