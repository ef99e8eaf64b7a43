package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// WindowPayload рабочее окно в формате "HH:MM"
type WindowPayload struct {
	Start types.TimeString `json:"start"`
	End   types.TimeString `json:"end"`
}

// DayWindows рабочие окна одного дня недели (0 = воскресенье ... 6 = суббота)
type DayWindows struct {
	Weekday int             `json:"weekday"`
	Windows []WindowPayload `json:"windows"`
}

// UpdateWeeklyHoursRequest запрос на полную замену недельного расписания мастера
type UpdateWeeklyHoursRequest struct {
	StaffID int64        `json:"-"`
	Days    []DayWindows `json:"days"`
}

// ToDomain преобразует запрос в доменное недельное расписание
func (r *UpdateWeeklyHoursRequest) ToDomain() (domain.WeeklyWindows, error) {
	weekly := make(domain.WeeklyWindows)

	for _, day := range r.Days {
		if day.Weekday < 0 || day.Weekday > 6 {
			return nil, fmt.Errorf("weekday %d out of range", day.Weekday)
		}

		weekday := time.Weekday(day.Weekday)
		if _, exists := weekly[weekday]; exists {
			return nil, fmt.Errorf("duplicate weekday %d", day.Weekday)
		}

		windows := make([]domain.WorkingWindow, 0, len(day.Windows))
		for _, w := range day.Windows {
			window := domain.WorkingWindow{Start: w.Start, End: w.End}
			if err := window.Validate(); err != nil {
				return nil, fmt.Errorf("weekday %d: %w", day.Weekday, err)
			}
			windows = append(windows, window)
		}

		normalized, err := domain.NormalizeWindows(windows)
		if err != nil {
			return nil, fmt.Errorf("weekday %d: %w", day.Weekday, err)
		}
		weekly[weekday] = normalized
	}

	return weekly, nil
}

// CreateExceptionRequest запрос на создание исключения расписания
type CreateExceptionRequest struct {
	StaffID int64             `json:"-"`
	Date    string            `json:"date"`
	Kind    string            `json:"kind"`
	Start   *types.TimeString `json:"start,omitempty"`
	End     *types.TimeString `json:"end,omitempty"`
}

// ToDomain преобразует запрос в доменную строку исключения
func (r *CreateExceptionRequest) ToDomain() (*domain.ExceptionRow, error) {
	dateID := domain.DateID(r.Date)
	if err := dateID.Validate(); err != nil {
		return nil, err
	}

	kind, ok := domain.NormalizeExceptionKind(r.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown exception kind %q", r.Kind)
	}

	row := &domain.ExceptionRow{
		DateID: dateID,
		Kind:   kind,
	}

	if kind == domain.ExceptionClosed {
		if r.Start != nil || r.End != nil {
			return nil, fmt.Errorf("closed exception must not carry a window")
		}
		return row, nil
	}

	if r.Start == nil || r.End == nil {
		return nil, fmt.Errorf("%s exception requires start and end", kind)
	}

	window := domain.WorkingWindow{Start: *r.Start, End: *r.End}
	if err := window.Validate(); err != nil {
		return nil, err
	}
	row.Window = &window

	return row, nil
}

// GetScheduleRequest запрос расписания мастера на период
type GetScheduleRequest struct {
	StaffID  int64
	FromDate string
	ToDate   string
}

// ExceptionResponse исключение расписания в ответе API
type ExceptionResponse struct {
	Date  string            `json:"date"`
	Kind  string            `json:"kind"`
	Start *types.TimeString `json:"start,omitempty"`
	End   *types.TimeString `json:"end,omitempty"`
}

// ScheduleResponse расписание мастера: недельный шаблон и исключения периода
type ScheduleResponse struct {
	StaffID    int64               `json:"staff_id"`
	StaffName  string              `json:"staff_name"`
	Active     bool                `json:"active"`
	Days       []DayWindows        `json:"days"`
	Exceptions []ExceptionResponse `json:"exceptions"`
}

// FromDomainSchedule собирает ответ из доменных сущностей
func FromDomainSchedule(staff *domain.StaffMember, weekly domain.WeeklyWindows, exceptions []domain.ExceptionRow) *ScheduleResponse {
	days := make([]DayWindows, 0, len(weekly))
	for weekday := time.Sunday; weekday <= time.Saturday; weekday++ {
		windows, ok := weekly[weekday]
		if !ok {
			continue
		}
		payloads := make([]WindowPayload, 0, len(windows))
		for _, w := range windows {
			payloads = append(payloads, WindowPayload{Start: w.Start, End: w.End})
		}
		days = append(days, DayWindows{Weekday: int(weekday), Windows: payloads})
	}

	exceptionResponses := make([]ExceptionResponse, 0, len(exceptions))
	for _, row := range exceptions {
		resp := ExceptionResponse{
			Date: string(row.DateID),
			Kind: string(row.Kind),
		}
		if row.Window != nil {
			resp.Start = &row.Window.Start
			resp.End = &row.Window.End
		}
		exceptionResponses = append(exceptionResponses, resp)
	}

	return &ScheduleResponse{
		StaffID:    staff.ID,
		StaffName:  staff.DisplayName,
		Active:     staff.Active,
		Days:       days,
		Exceptions: exceptionResponses,
	}
}
