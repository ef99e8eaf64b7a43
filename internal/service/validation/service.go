package validation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/schedule"
)

// contextPaddingHours запас расширения диапазона выборки в каждую сторону
// Ловит записи и исключения, пересекающие границу диапазона
// (например, запись с вечера предыдущего дня, заканчивающуюся после полуночи)
const contextPaddingHours = 24

// Service движок валидации слотов: построение контекста + проверка слота
// Построение контекста читает хранилище; проверка слота - чистая функция
type Service struct {
	scheduleRepo ScheduleRepository
	bookingRepo  BookingRepository
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр движка валидации
func NewService(
	scheduleRepo ScheduleRepository,
	bookingRepo BookingRepository,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		bookingRepo:  bookingRepo,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// BuildContext собирает снимок фактов расписания мастера для диапазона
// [rangeStart, rangeEnd): недельное расписание, исключения по датам и
// существующие записи
//
// Три выборки независимы и выполняются параллельно; частично заполненный
// контекст не возвращается никогда - ошибка любой выборки валит весь вызов.
// Вызывающая сторона не должна трактовать неудачное построение как
// "ограничений нет"
func (s *Service) BuildContext(ctx context.Context, staffID int64, rangeStart, rangeEnd time.Time) (*domain.ValidationContext, error) {
	if staffID <= 0 {
		return nil, fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}
	if rangeStart.IsZero() || rangeEnd.IsZero() || !rangeStart.Before(rangeEnd) {
		return nil, fmt.Errorf("%w: rangeStart must be before rangeEnd", ErrInvalidRange)
	}

	staff, err := s.scheduleRepo.GetStaff(ctx, staffID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrStaffNotFound) {
			s.logger.Warn("BuildContext: staff id=%d not found", staffID)
			return nil, ErrStaffNotFound
		}
		s.logger.Error("BuildContext: failed to get staff id=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrUpstreamRead, err)
	}

	if !staff.Active {
		s.logger.Warn("BuildContext: staff id=%d is inactive", staffID)
		return nil, ErrStaffNotFound
	}

	// Расширяем окно выборки, чтобы захватить записи и исключения,
	// пересекающие границы запрошенного диапазона
	fetchStart := rangeStart.Add(-contextPaddingHours * time.Hour)
	fetchEnd := rangeEnd.Add(contextPaddingHours * time.Hour)

	var (
		weekly        domain.WeeklyWindows
		exceptionRows []domain.ExceptionRow
		bookings      []*domain.Booking
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		weekly, err = s.scheduleRepo.GetWeeklyWindows(gctx, staffID)
		if err != nil {
			return fmt.Errorf("%w: failed to get weekly windows: %v", ErrUpstreamRead, err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		exceptionRows, err = s.scheduleRepo.GetExceptionRows(gctx, staffID, fetchStart, fetchEnd)
		if err != nil {
			return fmt.Errorf("%w: failed to get schedule exceptions: %v", ErrUpstreamRead, err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		bookings, err = s.bookingRepo.GetByStaffInRange(gctx, staffID, fetchStart, fetchEnd)
		if err != nil {
			return fmt.Errorf("%w: failed to get bookings: %v", ErrUpstreamRead, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("BuildContext: staff=%d, range=[%s, %s): %v",
			staffID, rangeStart.Format(time.RFC3339), rangeEnd.Format(time.RFC3339), err)
		return nil, err
	}

	// Строки одной даты сворачиваются в одно DayException
	exceptions, err := domain.MergeExceptionRows(exceptionRows)
	if err != nil {
		s.logger.Error("BuildContext: failed to merge exception rows for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: failed to merge exceptions: %v", ErrInternal, err)
	}

	// Репозиторий уже отдает записи по возрастанию StartUTC,
	// сортировка здесь закрепляет инвариант контекста
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].StartUTC.Before(bookings[j].StartUTC)
	})

	s.logger.Info("BuildContext: staff=%d, range=[%s, %s): %d exception dates, %d bookings",
		staffID, rangeStart.Format(time.RFC3339), rangeEnd.Format(time.RFC3339),
		len(exceptions), len(bookings))

	return &domain.ValidationContext{
		StaffID:              staffID,
		DefaultWeeklyWindows: weekly,
		ExceptionsByDateID:   exceptions,
		Bookings:             bookings,
		Location:             s.location,
	}, nil
}

// ValidateSlot проверяет один кандидатный слот по готовому контексту
// "Сейчас" берётся из TimeProvider в момент вызова
func (s *Service) ValidateSlot(proposedStartUTC time.Time, durationMinutes int, vctx *domain.ValidationContext) (*domain.ValidationResult, error) {
	return Validate(s.timeProvider.Now(), proposedStartUTC, durationMinutes, vctx)
}
