package schedule

import "errors"

var (
	// ErrStaffNotFound мастер не найден
	ErrStaffNotFound = errors.New("staff member not found")
	// ErrExceptionNotFound исключение расписания не найдено
	ErrExceptionNotFound = errors.New("schedule exception not found")
	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("invalid input")
	// ErrInternal внутренняя ошибка сервиса
	ErrInternal = errors.New("internal service error")
)
