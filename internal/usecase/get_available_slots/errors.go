package get_available_slots

import "errors"

var (
	// ErrStaffNotFound мастер не найден или неактивен
	ErrStaffNotFound = errors.New("staff member not found")
	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("invalid input")
	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("internal error")
)
