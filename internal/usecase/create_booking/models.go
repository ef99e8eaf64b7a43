package create_booking

import (
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/service/bookings/models"
)

// CreateBookingRequest запрос на создание записи
// StartTime принимается в RFC3339, внутри сервиса время хранится в UTC
type CreateBookingRequest struct {
	ClientID        int64   `json:"-"`
	StaffID         int64   `json:"staffId"`
	StartTime       string  `json:"startTime"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	ServiceName     string  `json:"serviceName"`
	ServicePrice    float64 `json:"servicePrice"`
	Notes           *string `json:"notes,omitempty"`

	// Контактные данные клиента для синхронизации с CRM
	ClientFirstName string  `json:"clientFirstName"`
	ClientLastName  string  `json:"clientLastName"`
	ClientPhone     string  `json:"clientPhone"`
	ClientEmail     *string `json:"clientEmail,omitempty"`
}

// validatedRequest результат валидации запроса: распарсенные и
// нормализованные значения, с которыми работает usecase
type validatedRequest struct {
	StartUTC        time.Time
	DurationMinutes int
}

// CreateBookingResponse ответ на создание записи
type CreateBookingResponse struct {
	Booking *models.BookingResponse `json:"booking"`
}

// fromDomainBooking собирает ответ из созданной записи
func fromDomainBooking(b *domain.Booking, loc *time.Location) *CreateBookingResponse {
	return &CreateBookingResponse{
		Booking: models.FromDomainBooking(b, loc),
	}
}
