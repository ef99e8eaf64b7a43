package domain

import "time"

// StaffMember мастер салона
type StaffMember struct {
	ID          int64
	DisplayName string
	// Внешний идентификатор мастера в Phorest
	ExternalRef *string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WeeklyWindows недельное расписание мастера: день недели -> окна рабочего времени
// Окна каждого дня непересекающиеся и упорядочены по времени начала
type WeeklyWindows map[time.Weekday][]WorkingWindow
