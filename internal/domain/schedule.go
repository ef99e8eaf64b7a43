package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// DateID ключ календарной даты в бизнес-таймзоне, формат YYYYMMDD
// Всегда вычисляется проекцией UTC-момента в бизнес-таймзону, никогда -
// календарной арифметикой над UTC (иначе около полуночи и на границах
// перевода часов дата уезжает на соседний день)
type DateID string

// dateIDLayout формат DateID
const dateIDLayout = "20060102"

// DateIDFromTime вычисляет DateID для UTC-момента в указанной таймзоне
func DateIDFromTime(t time.Time, loc *time.Location) DateID {
	return DateID(t.In(loc).Format(dateIDLayout))
}

// Validate проверяет формат DateID
func (d DateID) Validate() error {
	if _, err := time.Parse(dateIDLayout, string(d)); err != nil {
		return fmt.Errorf("invalid date id %q, expected YYYYMMDD: %v", string(d), err)
	}
	return nil
}

// Midnight возвращает начало этой календарной даты в указанной таймзоне
func (d DateID) Midnight(loc *time.Location) (time.Time, error) {
	parsed, err := time.Parse(dateIDLayout, string(d))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date id %q: %v", string(d), err)
	}
	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, loc), nil
}

// Weekday возвращает день недели этой календарной даты
func (d DateID) Weekday(loc *time.Location) (time.Weekday, error) {
	midnight, err := d.Midnight(loc)
	if err != nil {
		return time.Sunday, err
	}
	return midnight.Weekday(), nil
}

// WorkingWindow одно окно доступного для записи времени внутри одного рабочего дня,
// полуинтервал [Start, End) в локальном времени салона
type WorkingWindow struct {
	Start types.TimeString
	End   types.TimeString
}

// Validate проверяет корректность окна (формат времени, Start < End)
func (w WorkingWindow) Validate() error {
	if err := w.Start.Validate(); err != nil {
		return fmt.Errorf("window start: %w", err)
	}
	if err := w.End.Validate(); err != nil {
		return fmt.Errorf("window end: %w", err)
	}
	if !w.Start.IsBefore(w.End) {
		return fmt.Errorf("window start %s must be before end %s", w.Start, w.End)
	}
	return nil
}

// BoundsUTC проецирует границы окна на календарную дату date в таймзоне loc
// и возвращает их как UTC-моменты. Сравнение интервалов всегда выполняется
// над моментами, а не над строками локального времени: в день перевода часов
// окно "09:00-17:00" занимает другое количество UTC-часов
func (w WorkingWindow) BoundsUTC(date DateID, loc *time.Location) (time.Time, time.Time, error) {
	midnight, err := date.Midnight(loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	startHour, startMin, err := w.Start.Clock()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endHour, endMin, err := w.End.Clock()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	y, m, d := midnight.Date()
	start := time.Date(y, m, d, startHour, startMin, 0, 0, loc)
	end := time.Date(y, m, d, endHour, endMin, 0, 0, loc)

	return start.UTC(), end.UTC(), nil
}

// NormalizeWindows сортирует окна по времени начала и склеивает пересекающиеся
// или соприкасающиеся окна в их объединение
// Инвариант результата: окна непересекающиеся и упорядочены по Start
func NormalizeWindows(windows []WorkingWindow) ([]WorkingWindow, error) {
	if len(windows) == 0 {
		return nil, nil
	}

	for _, w := range windows {
		if err := w.Validate(); err != nil {
			return nil, err
		}
	}

	sorted := make([]WorkingWindow, len(windows))
	copy(sorted, windows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.IsBefore(sorted[j].Start)
	})

	merged := []WorkingWindow{sorted[0]}
	for _, w := range sorted[1:] {
		last := &merged[len(merged)-1]

		// Окно начинается позже конца предыдущего - новый интервал
		if w.Start.IsAfter(last.End) {
			merged = append(merged, w)
			continue
		}

		// Пересечение или стык - расширяем предыдущее окно
		if w.End.IsAfter(last.End) {
			last.End = w.End
		}
	}

	return merged, nil
}

// ExceptionKind вид исключения из недельного расписания
type ExceptionKind string

const (
	// ExceptionClosed мастер не работает в эту дату (отгул, отпуск, больничный)
	ExceptionClosed ExceptionKind = "closed"
	// ExceptionModifiedHours окна этой даты заменяют недельное расписание
	ExceptionModifiedHours ExceptionKind = "modified_hours"
	// ExceptionOvertime дополнительное окно поверх действующего расписания
	ExceptionOvertime ExceptionKind = "overtime"
)

// NormalizeExceptionKind приводит вид исключения из сырой строки БД к каноническому
// значению. В исторических данных встречаются устаревшие написания
func NormalizeExceptionKind(raw string) (ExceptionKind, bool) {
	switch raw {
	case "closed", "day_off", "dayoff":
		return ExceptionClosed, true
	case "modified_hours", "modified":
		return ExceptionModifiedHours, true
	case "overtime", "extra_hours":
		return ExceptionOvertime, true
	default:
		return "", false
	}
}

// ExceptionRow одна нормализованная строка исключения из хранилища
// Для kind=closed окно отсутствует
type ExceptionRow struct {
	DateID DateID
	Kind   ExceptionKind
	Window *WorkingWindow
}

// DayException объединённое исключение для одной даты одного мастера
// Строится явной свёрткой строк (MergeExceptionRows), а не перезаписью полей:
// на одну дату может приходиться и замена окон, и сверхурочные
type DayException struct {
	DateID   DateID
	Closed   bool
	Modified []WorkingWindow // если непусто - заменяет недельное расписание этой даты
	Overtime []WorkingWindow // добавляется поверх действующей базы
}

// MergeExceptionRows сворачивает строки исключений в одно DayException на дату
// Правила свёртки:
//   - closed для даты перекрывает всё остальное
//   - строки modified_hours накапливаются в список окон замены
//   - строки overtime накапливаются отдельно и применяются поверх базы
func MergeExceptionRows(rows []ExceptionRow) (map[DateID]*DayException, error) {
	result := make(map[DateID]*DayException)

	for _, row := range rows {
		if err := row.DateID.Validate(); err != nil {
			return nil, err
		}

		ex, ok := result[row.DateID]
		if !ok {
			ex = &DayException{DateID: row.DateID}
			result[row.DateID] = ex
		}

		switch row.Kind {
		case ExceptionClosed:
			ex.Closed = true
		case ExceptionModifiedHours:
			if row.Window == nil {
				return nil, fmt.Errorf("modified_hours exception for %s has no window", row.DateID)
			}
			ex.Modified = append(ex.Modified, *row.Window)
		case ExceptionOvertime:
			if row.Window == nil {
				return nil, fmt.Errorf("overtime exception for %s has no window", row.DateID)
			}
			ex.Overtime = append(ex.Overtime, *row.Window)
		default:
			return nil, fmt.Errorf("unknown exception kind %q for %s", row.Kind, row.DateID)
		}
	}

	return result, nil
}

// ResolveDayWindows вычисляет действующие окна даты из недельного расписания
// и исключения. Единственная точка, где определён приоритет источников:
//   - closed перекрывает всё: окон нет
//   - modified_hours заменяет недельное расписание
//   - overtime добавляется к той базе, которая действует (default или modified)
//
// Результат нормализован: окна непересекающиеся и упорядочены
func ResolveDayWindows(ex *DayException, defaults []WorkingWindow) ([]WorkingWindow, error) {
	if ex == nil {
		return NormalizeWindows(defaults)
	}

	if ex.Closed {
		return nil, nil
	}

	base := defaults
	if len(ex.Modified) > 0 {
		base = ex.Modified
	}

	combined := make([]WorkingWindow, 0, len(base)+len(ex.Overtime))
	combined = append(combined, base...)
	combined = append(combined, ex.Overtime...)

	return NormalizeWindows(combined)
}
