package domain

import "time"

// AvailableSlot represents a time slot available for booking
type AvailableSlot struct {
	StartUTC        time.Time
	StartLocal      time.Time
	DurationMinutes int
}

// EndUTC returns the slot end instant
func (s *AvailableSlot) EndUTC() time.Time {
	return s.StartUTC.Add(time.Duration(s.DurationMinutes) * time.Minute)
}
