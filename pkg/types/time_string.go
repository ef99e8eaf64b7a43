package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// timeLayout формат времени в рамках одного дня
const timeLayout = "15:04"

// TimeString время в рамках одного дня в формате "HH:MM" (24-часовой формат)
// Используется для хранения локального времени без привязки к дате и таймзоне
type TimeString string

// NewTimeString создает TimeString из time.Time (берёт только часы и минуты)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString создает TimeString из строки с валидацией формата
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// Validate проверяет, что значение соответствует формату "HH:MM"
// Требуется каноническая форма с ведущими нулями: значения сравниваются
// как строки, "9:30" сортировалось бы после "10:00"
func (t TimeString) Validate() error {
	parsed, err := time.Parse(timeLayout, string(t))
	if err != nil {
		return fmt.Errorf("invalid time format %q, expected HH:MM: %v", string(t), err)
	}
	if parsed.Format(timeLayout) != string(t) {
		return fmt.Errorf("invalid time format %q, expected HH:MM", string(t))
	}
	return nil
}

// IsZero проверяет, что значение не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// String возвращает строковое представление времени
func (t TimeString) String() string {
	return string(t)
}

// Clock возвращает часы и минуты
func (t TimeString) Clock() (hour, minute int, err error) {
	parsed, err := time.Parse(timeLayout, string(t))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time format %q: %v", string(t), err)
	}
	return parsed.Hour(), parsed.Minute(), nil
}

// Minutes возвращает количество минут с начала дня
func (t TimeString) Minutes() (int, error) {
	hour, minute, err := t.Clock()
	if err != nil {
		return 0, err
	}
	return hour*60 + minute, nil
}

// IsBefore проверяет, что время строго раньше other
// Некорректные значения считаются равными (сравнение не паникует)
func (t TimeString) IsBefore(other TimeString) bool {
	m1, err1 := t.Minutes()
	m2, err2 := other.Minutes()
	if err1 != nil || err2 != nil {
		return false
	}
	return m1 < m2
}

// IsAfter проверяет, что время строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	m1, err1 := t.Minutes()
	m2, err2 := other.Minutes()
	if err1 != nil || err2 != nil {
		return false
	}
	return m1 > m2
}

// AddMinutes добавляет minutes минут к времени
// Возвращает ошибку, если результат выходит за пределы суток
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	total, err := t.Minutes()
	if err != nil {
		return "", err
	}

	total += minutes
	if total < 0 || total > 24*60 {
		return "", fmt.Errorf("time %s + %d minutes is out of day bounds", t, minutes)
	}
	// 24:00 не представимо как TimeString, граница суток кодируется как 23:59 недостижима -
	// полуинтервальные окна заканчиваются до конца суток
	if total == 24*60 {
		return "", fmt.Errorf("time %s + %d minutes crosses midnight", t, minutes)
	}

	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60)), nil
}

// Value реализует driver.Valuer для сохранения в БД
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return string(t), nil
}

// Scan реализует sql.Scanner для чтения из БД
// Поддерживает форматы TIME ("10:00:00") и строки "10:00"
func (t *TimeString) Scan(src interface{}) error {
	if src == nil {
		*t = ""
		return nil
	}

	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into TimeString", src)
	}

	// Postgres TIME приходит как "10:00:00" - отрезаем секунды
	if len(raw) >= 5 {
		raw = raw[:5]
	}

	ts := TimeString(raw)
	if err := ts.Validate(); err != nil {
		return err
	}

	*t = ts
	return nil
}

// MarshalJSON реализует json.Marshaler
func (t TimeString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

// UnmarshalJSON реализует json.Unmarshaler с валидацией формата
func (t *TimeString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return err
	}

	*t = ts
	return nil
}
