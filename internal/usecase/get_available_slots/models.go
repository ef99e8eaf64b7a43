package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// GetAvailableSlotsRequest запрос свободных слотов мастера на дату
type GetAvailableSlotsRequest struct {
	StaffID         int64
	Date            string // "2026-09-07", бизнес-таймзона
	DurationMinutes *int
}

// SlotResponse один свободный слот
type SlotResponse struct {
	StartTime string `json:"startTime"` // "10:00", бизнес-таймзона
	StartUTC  string `json:"startUtc"`  // RFC3339
}

// GetAvailableSlotsResponse ответ со списком свободных слотов
type GetAvailableSlotsResponse struct {
	StaffID         int64          `json:"staffId"`
	Date            string         `json:"date"`
	DurationMinutes int            `json:"durationMinutes"`
	Slots           []SlotResponse `json:"slots"`
	Total           int            `json:"total"`
}

// fromDomainSlots собирает ответ из найденных слотов
func fromDomainSlots(staffID int64, date string, durationMinutes int, slots []domain.AvailableSlot) *GetAvailableSlotsResponse {
	result := make([]SlotResponse, len(slots))
	for i, s := range slots {
		result[i] = SlotResponse{
			StartTime: s.StartLocal.Format(domain.TimeFormat),
			StartUTC:  s.StartUTC.Format(time.RFC3339),
		}
	}

	return &GetAvailableSlotsResponse{
		StaffID:         staffID,
		Date:            date,
		DurationMinutes: durationMinutes,
		Slots:           result,
		Total:           len(result),
	}
}
