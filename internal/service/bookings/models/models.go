package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену записи
type CancelBookingRequest struct {
	ClientID           int64  `json:"clientId"`
	CancellationReason string `json:"cancellationReason"`
}

// GetClientBookingsRequest запрос на получение записей клиента
type GetClientBookingsRequest struct {
	ClientID int64   `json:"clientId"`
	Status   *string `json:"status,omitempty"`
}

// GetStaffBookingsRequest запрос на получение записей мастера
type GetStaffBookingsRequest struct {
	StaffID         int64      `json:"staffId"`
	FromUTC         *time.Time `json:"from,omitempty"`            // Начало периода (опционально)
	ToUTC           *time.Time `json:"to,omitempty"`              // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отменённые записи
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetStaffBookingsRequest) ToDomainFilter() (domain.StaffBookingsFilter, error) {
	filter := domain.StaffBookingsFilter{
		StaffID:         r.StaffID,
		FromUTC:         r.FromUTC,
		ToUTC:           r.ToUTC,
		IncludeInactive: r.IncludeInactive,
	}

	// Конвертируем статус если указан
	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// ToDomainBookingStatus конвертирует строку статуса в domain.BookingStatus
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	status, ok := domain.NormalizeBookingStatus(s)
	if !ok {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// Response модели

// BookingResponse ответ с данными записи
type BookingResponse struct {
	ID              int64   `json:"id"`
	ClientID        int64   `json:"clientId"`
	StaffID         int64   `json:"staffId"`
	Date            string  `json:"date"`       // "2026-09-07", бизнес-таймзона
	StartLocal      string  `json:"startTime"`  // "10:00", бизнес-таймзона
	StartUTC        string  `json:"startUtc"`   // RFC3339
	EndUTC          string  `json:"endUtc"`     // RFC3339
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	ServiceName     string  `json:"serviceName"`
	ServicePrice    float64 `json:"servicePrice"`
	Notes           *string `json:"notes,omitempty"`
	ExternalRef     *string `json:"externalRef,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// FromDomainBooking конвертирует domain запись в response
// Локальные поля (дата, время начала) вычисляются в бизнес-таймзоне
func FromDomainBooking(b *domain.Booking, loc *time.Location) *BookingResponse {
	local := b.StartUTC.In(loc)

	resp := &BookingResponse{
		ID:                 b.ID,
		ClientID:           b.ClientID,
		StaffID:            b.StaffID,
		Date:               local.Format(domain.DateFormat),
		StartLocal:         local.Format(domain.TimeFormat),
		StartUTC:           b.StartUTC.Format(time.RFC3339),
		EndUTC:             b.EndUTC.Format(time.RFC3339),
		DurationMinutes:    b.DurationMinutes(),
		Status:             string(b.Status),
		ServiceName:        b.ServiceName,
		ServicePrice:       b.ServicePrice,
		Notes:              b.Notes,
		ExternalRef:        b.ExternalRef,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          b.UpdatedAt.Format(time.RFC3339),
	}

	if b.CancelledAt != nil {
		cancelled := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelled
	}

	return resp
}

// BookingListResponse ответ со списком записей
type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
	Total    int                `json:"total"`
}

// FromDomainBookingList конвертирует список domain записей в response
func FromDomainBookingList(bookings []*domain.Booking, loc *time.Location) *BookingListResponse {
	result := make([]*BookingResponse, len(bookings))
	for i, b := range bookings {
		result[i] = FromDomainBooking(b, loc)
	}

	return &BookingListResponse{
		Bookings: result,
		Total:    len(result),
	}
}
