package phorest

import "time"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Appointment запись в календаре Phorest
type Appointment struct {
	ID          string    `json:"appointmentId"`
	BusinessID  string    `json:"businessId"`
	StaffRef    string    `json:"staffId"`
	ContactRef  string    `json:"clientId"`
	ServiceName string    `json:"serviceName"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	State       string    `json:"state"` // BOOKED, CANCELLED, CHECKED_IN, ...
	Version     int64     `json:"version"`
}

// AppointmentRequest запрос на создание/обновление записи в календаре
type AppointmentRequest struct {
	StaffRef    string    `json:"staffId"`
	ContactRef  string    `json:"clientId"`
	ServiceName string    `json:"serviceName"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Notes       *string   `json:"notes,omitempty"`
}

// Contact клиент салона в CRM Phorest
type Contact struct {
	ID        string  `json:"clientId"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Phone     string  `json:"mobile"`
	Email     *string `json:"email,omitempty"`
	Archived  bool    `json:"archived"`
}

// ContactRequest запрос на создание контакта в CRM
type ContactRequest struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Phone     string  `json:"mobile"`
	Email     *string `json:"email,omitempty"`
}

// contactSearchResponse ответ поиска контактов
type contactSearchResponse struct {
	Contacts []Contact `json:"clients"`
}

// cancelRequest тело запроса отмены записи
type cancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

// ErrorResponse модель ошибки от Phorest API
type ErrorResponse struct {
	Code    string `json:"errorCode"`
	Message string `json:"detail"`
}
