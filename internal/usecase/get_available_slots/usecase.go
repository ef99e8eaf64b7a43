package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/service/validation"
)

// Usecase подбор свободных слотов мастера на дату
// Контекст валидации строится один раз на день, затем по сетке с шагом
// stepMinutes каждый кандидат прогоняется через чистый валидатор
type Usecase struct {
	validationService      ValidationService
	location               *time.Location
	stepMinutes            int
	defaultDurationMinutes int
	logger                 Logger
}

// NewUsecase создает новый экземпляр usecase подбора слотов
func NewUsecase(
	validationService ValidationService,
	location *time.Location,
	stepMinutes int,
	defaultDurationMinutes int,
	logger Logger,
) *Usecase {
	if stepMinutes <= 0 {
		stepMinutes = domain.DefaultSlotStepMinutes
	}
	if defaultDurationMinutes <= 0 {
		defaultDurationMinutes = domain.DefaultAppointmentDurationMin
	}

	return &Usecase{
		validationService:      validationService,
		location:               location,
		stepMinutes:            stepMinutes,
		defaultDurationMinutes: defaultDurationMinutes,
		logger:                 logger,
	}
}

// Execute возвращает свободные слоты мастера на указанную дату
func (u *Usecase) Execute(ctx context.Context, req *GetAvailableSlotsRequest) (*GetAvailableSlotsResponse, error) {
	if req == nil || req.StaffID <= 0 {
		return nil, fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	day, err := time.ParseInLocation(domain.DateFormat, req.Date, u.location)
	if err != nil {
		u.logger.Warn("GetAvailableSlots: invalid date=%q for staff=%d", req.Date, req.StaffID)
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD: %v", ErrInvalidInput, err)
	}

	duration := u.defaultDurationMinutes
	if req.DurationMinutes != nil {
		duration = *req.DurationMinutes
	}
	if duration < domain.MinAppointmentDurationMinutes || duration > domain.MaxAppointmentDurationMinutes {
		return nil, fmt.Errorf("%w: duration must be between %d and %d minutes",
			ErrInvalidInput, domain.MinAppointmentDurationMinutes, domain.MaxAppointmentDurationMinutes)
	}

	u.logger.Info("GetAvailableSlots: staff=%d, date=%s, duration=%d", req.StaffID, req.Date, duration)

	// Границы дня в бизнес-таймзоне; в дни перевода часов день короче
	// или длиннее 24 часов, поэтому конец считается через календарь, не +24h
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, u.location)
	dayEnd := time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, u.location)

	vctx, err := u.validationService.BuildContext(ctx, req.StaffID, dayStart.UTC(), dayEnd.UTC())
	if err != nil {
		switch {
		case errors.Is(err, validation.ErrStaffNotFound):
			u.logger.Warn("GetAvailableSlots: staff=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		case errors.Is(err, validation.ErrInvalidRange), errors.Is(err, validation.ErrInvalidInput):
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		default:
			u.logger.Error("GetAvailableSlots: failed to build context for staff=%d: %v", req.StaffID, err)
			return nil, fmt.Errorf("%w: build context: %v", ErrInternal, err)
		}
	}

	slots, err := u.sweepDay(dayStart, dayEnd, duration, vctx)
	if err != nil {
		u.logger.Error("GetAvailableSlots: sweep failed for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: sweep slots: %v", ErrInternal, err)
	}

	u.logger.Info("GetAvailableSlots: found %d slots for staff=%d on %s", len(slots), req.StaffID, req.Date)
	return fromDomainSlots(req.StaffID, req.Date, duration, slots), nil
}

// sweepDay обходит сетку кандидатов дня и собирает прошедшие валидацию слоты
// Отрицательные результаты валидации - это данные, а не ошибки: ошибкой
// считается только нарушение контракта валидатора
func (u *Usecase) sweepDay(dayStart, dayEnd time.Time, durationMinutes int, vctx *domain.ValidationContext) ([]domain.AvailableSlot, error) {
	step := time.Duration(u.stepMinutes) * time.Minute
	slots := make([]domain.AvailableSlot, 0)

	for candidate := dayStart; candidate.Before(dayEnd); candidate = candidate.Add(step) {
		result, err := u.validationService.ValidateSlot(candidate.UTC(), durationMinutes, vctx)
		if err != nil {
			return nil, err
		}

		if !result.Valid {
			continue
		}

		slots = append(slots, domain.AvailableSlot{
			StartUTC:        candidate.UTC(),
			StartLocal:      candidate.In(u.location),
			DurationMinutes: durationMinutes,
		})
	}

	return slots, nil
}
