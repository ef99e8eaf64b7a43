package validation

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// Validate проверяет, можно ли записать клиента на слот
// [proposedStartUTC, proposedStartUTC + durationMinutes) по снимку фактов vctx
//
// Чистая функция: не выполняет I/O, безопасна для конкурентного и многократного
// вызова на одном контексте (например, при обходе сетки слотов на день)
//
// Правила применяются по порядку с коротким замыканием - причина отказа
// определяется первым сработавшим правилом:
//  1. слот в прошлом
//  2. некорректная длительность
//  3. дата закрыта исключением
//  4. слот не помещается целиком ни в одно действующее окно
//  5. слот пересекается с существующей записью
//
// Ошибка возвращается только при нарушении контракта вызывающей стороной
// (nil контекст, отсутствие таймзоны); семантически невалидный слот -
// это нормальный результат Valid=false
func Validate(now, proposedStartUTC time.Time, durationMinutes int, vctx *domain.ValidationContext) (*domain.ValidationResult, error) {
	if vctx == nil {
		return nil, fmt.Errorf("%w: validation context is nil", ErrInvalidInput)
	}
	if vctx.Location == nil {
		return nil, fmt.Errorf("%w: validation context has no timezone", ErrInvalidInput)
	}
	if proposedStartUTC.IsZero() {
		return nil, fmt.Errorf("%w: proposed start is zero", ErrInvalidInput)
	}

	// 1. Слот в прошлом
	if proposedStartUTC.Before(now) {
		return domain.InvalidResult(domain.ReasonPastSlot), nil
	}

	// 2. Длительность: положительная и не больше одного рабочего дня
	if durationMinutes <= 0 || durationMinutes > domain.MaxAppointmentDurationMinutes {
		return domain.InvalidResult(domain.ReasonInvalidDuration), nil
	}

	proposedEndUTC := proposedStartUTC.Add(time.Duration(durationMinutes) * time.Minute)

	// 3. Разрешение даты: DateID считается проекцией UTC-момента в бизнес-таймзону
	dateID := domain.DateIDFromTime(proposedStartUTC, vctx.Location)

	exception := vctx.ExceptionsByDateID[dateID]
	if exception != nil && exception.Closed {
		return domain.InvalidResult(domain.ReasonDayClosed), nil
	}

	weekday, err := dateID.Weekday(vctx.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	windows, err := domain.ResolveDayWindows(exception, vctx.DefaultWeeklyWindows[weekday])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 4. Слот должен целиком помещаться ровно в одно окно
	// Границы окон проецируются в UTC через таймзону - сравнение локальных
	// строк времени в день перевода часов дало бы неверный результат
	if !slotInsideAnyWindow(proposedStartUTC, proposedEndUTC, dateID, windows, vctx.Location) {
		return domain.InvalidResult(domain.ReasonOutsideWorkingHours), nil
	}

	// 5. Пересечение с существующими записями (полуоткрытые интервалы:
	// запись, заканчивающаяся ровно в начале слота, не конфликтует)
	for _, booking := range vctx.Bookings {
		if !booking.Blocks() {
			continue
		}
		if booking.Overlaps(proposedStartUTC, proposedEndUTC) {
			return domain.ConflictResult(booking), nil
		}
	}

	return domain.ValidResult(), nil
}

// slotInsideAnyWindow проверяет, что [startUTC, endUTC) целиком находится
// внутри одного из окон. Окна нормализованы (непересекающиеся), поэтому слот,
// попадающий в два окна сразу, невозможен; слот через разрыв между окнами
// не проходит ни по одному окну
func slotInsideAnyWindow(startUTC, endUTC time.Time, date domain.DateID, windows []domain.WorkingWindow, loc *time.Location) bool {
	for _, w := range windows {
		windowStart, windowEnd, err := w.BoundsUTC(date, loc)
		if err != nil {
			continue
		}
		if !startUTC.Before(windowStart) && !endUTC.After(windowEnd) {
			return true
		}
	}
	return false
}
