package phorest

import "errors"

var (
	// ErrContactNotFound возвращается, когда контакт не найден в CRM
	ErrContactNotFound = errors.New("phorest client: contact not found")

	// ErrAppointmentNotFound возвращается, когда запись не найдена в календаре
	ErrAppointmentNotFound = errors.New("phorest client: appointment not found")

	// ErrUnauthorized возвращается, когда токен не принят API
	ErrUnauthorized = errors.New("phorest client: unauthorized")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("phorest client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от API
	ErrInvalidResponse = errors.New("phorest client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что Phorest недоступен: локальная запись сохранена,
	// синхронизация с внешним календарём отложена
	ErrServiceDegraded = errors.New("phorest unavailable: graceful degradation applied")
)
