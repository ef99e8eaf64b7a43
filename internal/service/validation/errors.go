package validation

import "errors"

var (
	// ErrStaffNotFound возвращается, когда мастер не найден или неактивен
	ErrStaffNotFound = errors.New("validation: staff member not found")

	// ErrInvalidRange возвращается при некорректном диапазоне (rangeStart >= rangeEnd)
	ErrInvalidRange = errors.New("validation: invalid time range")

	// ErrInvalidInput возвращается при некорректных входных данных
	// (нарушение контракта вызывающей стороной: нет контекста, нет таймзоны)
	ErrInvalidInput = errors.New("validation: invalid input data")

	// ErrUpstreamRead возвращается, когда чтение из хранилища не удалось
	// Контекст не строится частично: любая из трёх выборок падает - падает весь вызов
	ErrUpstreamRead = errors.New("validation: upstream read failed")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("validation: internal error")
)
