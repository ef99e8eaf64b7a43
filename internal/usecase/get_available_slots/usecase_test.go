package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/service/validation"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

// fakeValidationService отдаёт заранее собранный контекст и прогоняет
// кандидатов через настоящий валидатор с фиксированным "сейчас"
type fakeValidationService struct {
	vctx     *domain.ValidationContext
	buildErr error
	now      time.Time
}

func (f *fakeValidationService) BuildContext(ctx context.Context, staffID int64, rangeStart, rangeEnd time.Time) (*domain.ValidationContext, error) {
	if f.buildErr != nil {
		return nil, f.buildErr
	}
	return f.vctx, nil
}

func (f *fakeValidationService) ValidateSlot(proposedStartUTC time.Time, durationMinutes int, vctx *domain.ValidationContext) (*domain.ValidationResult, error) {
	return validation.Validate(f.now, proposedStartUTC, durationMinutes, vctx)
}

func moscowService(t *testing.T, vctx *domain.ValidationContext) (*Usecase, *fakeValidationService) {
	t.Helper()

	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	fake := &fakeValidationService{
		vctx: vctx,
		now:  time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	uc := NewUsecase(fake, loc, 30, 30, nopLogger{})
	return uc, fake
}

func mondayContext(t *testing.T) *domain.ValidationContext {
	t.Helper()

	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	return &domain.ValidationContext{
		StaffID: 1,
		DefaultWeeklyWindows: domain.WeeklyWindows{
			// Короткий день, чтобы слоты было удобно пересчитывать
			time.Monday: {{Start: "10:00", End: "12:00"}},
		},
		ExceptionsByDateID: map[domain.DateID]*domain.DayException{},
		Location:           loc,
	}
}

func TestExecute_ReturnsGridOfFreeSlots(t *testing.T) {
	uc, _ := moscowService(t, mondayContext(t))

	result, err := uc.Execute(context.Background(), &GetAvailableSlotsRequest{
		StaffID: 1,
		Date:    "2026-09-07",
	})
	require.NoError(t, err)

	// Окно 10:00-12:00, шаг 30, длительность 30: 10:00, 10:30, 11:00, 11:30
	require.Equal(t, 4, result.Total)
	assert.Equal(t, "10:00", result.Slots[0].StartTime)
	assert.Equal(t, "11:30", result.Slots[3].StartTime)

	// UTC-представление согласовано с местным временем (Москва = UTC+3)
	assert.Equal(t, "2026-09-07T07:00:00Z", result.Slots[0].StartUTC)
}

func TestExecute_LocalTimeMatchesUTCInstant(t *testing.T) {
	uc, _ := moscowService(t, mondayContext(t))

	result, err := uc.Execute(context.Background(), &GetAvailableSlotsRequest{
		StaffID: 1,
		Date:    "2026-09-07",
	})
	require.NoError(t, err)
	require.NotZero(t, result.Total)

	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	// Местное время каждого слота - это его UTC-момент в бизнес-таймзоне
	for _, s := range result.Slots {
		instant, err := time.Parse(time.RFC3339, s.StartUTC)
		require.NoError(t, err)
		assert.Equal(t, instant.In(loc).Format(domain.TimeFormat), s.StartTime)
	}
}

func TestExecute_BookedSlotIsExcluded(t *testing.T) {
	vctx := mondayContext(t)
	vctx.Bookings = []*domain.Booking{
		{
			ID:       7,
			StartUTC: time.Date(2026, 9, 7, 7, 30, 0, 0, time.UTC), // 10:30 местного
			EndUTC:   time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC),
			Status:   domain.StatusBooked,
		},
	}
	uc, _ := moscowService(t, vctx)

	result, err := uc.Execute(context.Background(), &GetAvailableSlotsRequest{
		StaffID: 1,
		Date:    "2026-09-07",
	})
	require.NoError(t, err)

	starts := make([]string, 0, result.Total)
	for _, s := range result.Slots {
		starts = append(starts, s.StartTime)
	}
	assert.Equal(t, []string{"10:00", "11:00", "11:30"}, starts)
}

func TestExecute_ClosedDayHasNoSlots(t *testing.T) {
	vctx := mondayContext(t)
	vctx.ExceptionsByDateID["20260907"] = &domain.DayException{
		DateID: "20260907",
		Closed: true,
	}
	uc, _ := moscowService(t, vctx)

	result, err := uc.Execute(context.Background(), &GetAvailableSlotsRequest{
		StaffID: 1,
		Date:    "2026-09-07",
	})
	require.NoError(t, err)
	assert.Zero(t, result.Total)
	assert.Empty(t, result.Slots)
}

func TestExecute_CustomDurationShrinksGrid(t *testing.T) {
	uc, _ := moscowService(t, mondayContext(t))

	duration := 90
	result, err := uc.Execute(context.Background(), &GetAvailableSlotsRequest{
		StaffID:         1,
		Date:            "2026-09-07",
		DurationMinutes: &duration,
	})
	require.NoError(t, err)

	// 90 минут помещаются только начиная с 10:00 и 10:30
	require.Equal(t, 2, result.Total)
	assert.Equal(t, "10:00", result.Slots[0].StartTime)
	assert.Equal(t, "10:30", result.Slots[1].StartTime)
	assert.Equal(t, 90, result.DurationMinutes)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc, _ := moscowService(t, mondayContext(t))

	_, err := uc.Execute(context.Background(), &GetAvailableSlotsRequest{StaffID: 0, Date: "2026-09-07"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &GetAvailableSlotsRequest{StaffID: 1, Date: "07.09.2026"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	badDuration := 0
	_, err = uc.Execute(context.Background(), &GetAvailableSlotsRequest{
		StaffID:         1,
		Date:            "2026-09-07",
		DurationMinutes: &badDuration,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_StaffNotFound(t *testing.T) {
	uc, fake := moscowService(t, nil)
	fake.buildErr = validation.ErrStaffNotFound

	_, err := uc.Execute(context.Background(), &GetAvailableSlotsRequest{
		StaffID: 99,
		Date:    "2026-09-07",
	})
	assert.ErrorIs(t, err, ErrStaffNotFound)
}
