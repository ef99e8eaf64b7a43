package validate_slot

import (
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// ValidateSlotRequest HTTP request model
type ValidateSlotRequest struct {
	StartTime       string `json:"startTime"` // RFC3339
	DurationMinutes *int   `json:"durationMinutes,omitempty"`
}

// ConflictResponse запись, с которой пересекается проверяемый слот
type ConflictResponse struct {
	BookingID int64  `json:"bookingId"`
	StartUTC  string `json:"startUtc"`
	EndUTC    string `json:"endUtc"`
}

// ValidateSlotResponse HTTP response model
// Отказ валидации - это не ошибка HTTP: ответ всегда 200 с valid=false
// и машинно-читаемым кодом причины
type ValidateSlotResponse struct {
	Valid    bool              `json:"valid"`
	Reason   string            `json:"reason,omitempty"`
	Conflict *ConflictResponse `json:"conflict,omitempty"`
}

// FromDomainResult конвертирует результат валидации в HTTP response
func FromDomainResult(result *domain.ValidationResult) *ValidateSlotResponse {
	resp := &ValidateSlotResponse{
		Valid:  result.Valid,
		Reason: string(result.Reason),
	}

	if result.Conflict != nil {
		resp.Conflict = &ConflictResponse{
			BookingID: result.Conflict.ID,
			StartUTC:  result.Conflict.StartUTC.Format(time.RFC3339),
			EndUTC:    result.Conflict.EndUTC.Format(time.RFC3339),
		}
	}

	return resp
}
