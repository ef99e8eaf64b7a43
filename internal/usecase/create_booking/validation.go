package create_booking

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// validateRequest проверяет запрос и возвращает нормализованные значения
// Семантические проверки слота (прошлое, рабочие часы, конфликты) выполняет
// движок валидации - здесь только структурная корректность запроса
func validateRequest(req *CreateBookingRequest, defaultDurationMinutes int) (*validatedRequest, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: empty request", ErrInvalidInput)
	}

	if req.ClientID <= 0 {
		return nil, fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if req.StaffID <= 0 {
		return nil, fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if req.ServiceName == "" {
		return nil, fmt.Errorf("%w: serviceName is required", ErrInvalidInput)
	}

	if req.ServicePrice < 0 {
		return nil, fmt.Errorf("%w: servicePrice must not be negative", ErrInvalidInput)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.ClientPhone == "" {
		return nil, fmt.Errorf("%w: clientPhone is required", ErrInvalidInput)
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: startTime must be RFC3339: %v", ErrInvalidInput, err)
	}

	duration := defaultDurationMinutes
	if req.DurationMinutes != nil {
		duration = *req.DurationMinutes
	}

	if duration < domain.MinAppointmentDurationMinutes || duration > domain.MaxAppointmentDurationMinutes {
		return nil, fmt.Errorf("%w: duration must be between %d and %d minutes",
			ErrInvalidDuration, domain.MinAppointmentDurationMinutes, domain.MaxAppointmentDurationMinutes)
	}

	return &validatedRequest{
		StartUTC:        startTime.UTC(),
		DurationMinutes: duration,
	}, nil
}
