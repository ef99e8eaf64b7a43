package validation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/schedule"
)

type fakeScheduleRepo struct {
	staff     *domain.StaffMember
	staffErr  error
	weekly    domain.WeeklyWindows
	weeklyErr error
	rows      []domain.ExceptionRow
	rowsErr   error
	lastFrom  time.Time
	lastTo    time.Time
}

func (f *fakeScheduleRepo) GetStaff(ctx context.Context, staffID int64) (*domain.StaffMember, error) {
	if f.staffErr != nil {
		return nil, f.staffErr
	}
	return f.staff, nil
}

func (f *fakeScheduleRepo) GetWeeklyWindows(ctx context.Context, staffID int64) (domain.WeeklyWindows, error) {
	if f.weeklyErr != nil {
		return nil, f.weeklyErr
	}
	return f.weekly, nil
}

func (f *fakeScheduleRepo) GetExceptionRows(ctx context.Context, staffID int64, fromUTC, toUTC time.Time) ([]domain.ExceptionRow, error) {
	f.lastFrom = fromUTC
	f.lastTo = toUTC
	if f.rowsErr != nil {
		return nil, f.rowsErr
	}
	return f.rows, nil
}

type fakeBookingRepo struct {
	bookings []*domain.Booking
	err      error
}

func (f *fakeBookingRepo) GetByStaffInRange(ctx context.Context, staffID int64, fromUTC, toUTC time.Time) ([]*domain.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bookings, nil
}

// fixedTimeProvider фиксированное "сейчас" для детерминированных тестов
type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func newTestService(t *testing.T, schedule *fakeScheduleRepo, booking *fakeBookingRepo) *Service {
	t.Helper()

	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	return NewService(schedule, booking, loc, nopLogger{})
}

func activeStaff() *domain.StaffMember {
	return &domain.StaffMember{ID: 1, DisplayName: "Анна", Active: true}
}

var (
	rangeStart = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	rangeEnd   = time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
)

func TestBuildContext_Success(t *testing.T) {
	schedule := &fakeScheduleRepo{
		staff: activeStaff(),
		weekly: domain.WeeklyWindows{
			time.Monday: {{Start: "09:00", End: "17:00"}},
		},
		rows: []domain.ExceptionRow{
			{DateID: "20260907", Kind: domain.ExceptionOvertime, Window: &domain.WorkingWindow{Start: "17:00", End: "19:00"}},
		},
	}
	booking := &fakeBookingRepo{
		bookings: []*domain.Booking{
			{ID: 2, StartUTC: time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC), Status: domain.StatusBooked},
			{ID: 1, StartUTC: time.Date(2026, 9, 7, 7, 0, 0, 0, time.UTC), Status: domain.StatusBooked},
		},
	}

	svc := newTestService(t, schedule, booking)

	vctx, err := svc.BuildContext(context.Background(), 1, rangeStart, rangeEnd)
	require.NoError(t, err)

	assert.Equal(t, int64(1), vctx.StaffID)
	assert.NotNil(t, vctx.Location)
	assert.Len(t, vctx.DefaultWeeklyWindows[time.Monday], 1)

	// Строки исключений свёрнуты по датам
	require.Contains(t, vctx.ExceptionsByDateID, domain.DateID("20260907"))
	assert.Len(t, vctx.ExceptionsByDateID["20260907"].Overtime, 1)

	// Записи отсортированы по времени начала
	require.Len(t, vctx.Bookings, 2)
	assert.Equal(t, int64(1), vctx.Bookings[0].ID)
	assert.Equal(t, int64(2), vctx.Bookings[1].ID)
}

func TestBuildContext_WidensFetchRange(t *testing.T) {
	schedule := &fakeScheduleRepo{staff: activeStaff()}
	booking := &fakeBookingRepo{}

	svc := newTestService(t, schedule, booking)

	_, err := svc.BuildContext(context.Background(), 1, rangeStart, rangeEnd)
	require.NoError(t, err)

	// Выборка расширена на сутки в каждую сторону: записи и исключения,
	// пересекающие границы диапазона, не теряются
	assert.Equal(t, rangeStart.Add(-24*time.Hour), schedule.lastFrom)
	assert.Equal(t, rangeEnd.Add(24*time.Hour), schedule.lastTo)
}

func TestBuildContext_StaffNotFound(t *testing.T) {
	schedule := &fakeScheduleRepo{staffErr: scheduleRepo.ErrStaffNotFound}
	svc := newTestService(t, schedule, &fakeBookingRepo{})

	_, err := svc.BuildContext(context.Background(), 1, rangeStart, rangeEnd)
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestBuildContext_InactiveStaff(t *testing.T) {
	schedule := &fakeScheduleRepo{
		staff: &domain.StaffMember{ID: 1, Active: false},
	}
	svc := newTestService(t, schedule, &fakeBookingRepo{})

	_, err := svc.BuildContext(context.Background(), 1, rangeStart, rangeEnd)
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestBuildContext_InvalidArguments(t *testing.T) {
	svc := newTestService(t, &fakeScheduleRepo{staff: activeStaff()}, &fakeBookingRepo{})

	_, err := svc.BuildContext(context.Background(), 0, rangeStart, rangeEnd)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.BuildContext(context.Background(), 1, rangeEnd, rangeStart)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = svc.BuildContext(context.Background(), 1, rangeStart, rangeStart)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestBuildContext_UpstreamFailureFailsWholeCall(t *testing.T) {
	// Любая из трёх выборок падает - контекст не строится вообще
	tests := []struct {
		name     string
		schedule *fakeScheduleRepo
		booking  *fakeBookingRepo
	}{
		{
			name:     "weekly windows read fails",
			schedule: &fakeScheduleRepo{staff: activeStaff(), weeklyErr: errors.New("db down")},
			booking:  &fakeBookingRepo{},
		},
		{
			name:     "exception rows read fails",
			schedule: &fakeScheduleRepo{staff: activeStaff(), rowsErr: errors.New("db down")},
			booking:  &fakeBookingRepo{},
		},
		{
			name:     "bookings read fails",
			schedule: &fakeScheduleRepo{staff: activeStaff()},
			booking:  &fakeBookingRepo{err: errors.New("db down")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, tt.schedule, tt.booking)

			vctx, err := svc.BuildContext(context.Background(), 1, rangeStart, rangeEnd)
			assert.ErrorIs(t, err, ErrUpstreamRead)
			assert.Nil(t, vctx)
		})
	}
}

func TestValidateSlot_DelegatesToValidator(t *testing.T) {
	schedule := &fakeScheduleRepo{
		staff: activeStaff(),
		weekly: domain.WeeklyWindows{
			time.Monday: {{Start: "09:00", End: "17:00"}},
		},
	}
	svc := newTestService(t, schedule, &fakeBookingRepo{})
	svc.timeProvider = &fixedTimeProvider{now: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)}

	vctx, err := svc.BuildContext(context.Background(), 1, rangeStart, rangeEnd)
	require.NoError(t, err)

	// Понедельник 2026-09-07, 10:00 по Москве = 07:00 UTC
	result, err := svc.ValidateSlot(time.Date(2026, 9, 7, 7, 0, 0, 0, time.UTC), 30, vctx)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}
