package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-SalonService/internal/integrations/phorest"
	"github.com/m04kA/SMC-SalonService/internal/service/validation"
)

// Usecase создание записи к мастеру
// Слот проверяется дважды: предварительно движком валидации (быстрый отказ
// без транзакции) и повторно внутри сериализуемой транзакции с блокировкой
// существующих записей - гонки параллельных бронирований исключаются на
// уровне базы данных
type Usecase struct {
	validationService      ValidationService
	bookingRepo            BookingRepository
	scheduleRepo           ScheduleRepository
	phorestClient          PhorestClient
	txManager              TxManager
	location               *time.Location
	defaultDurationMinutes int
	logger                 Logger
}

// NewUsecase создает новый экземпляр usecase создания записи
func NewUsecase(
	validationService ValidationService,
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	phorestClient PhorestClient,
	txManager TxManager,
	location *time.Location,
	defaultDurationMinutes int,
	logger Logger,
) *Usecase {
	if defaultDurationMinutes <= 0 {
		defaultDurationMinutes = domain.DefaultAppointmentDurationMin
	}

	return &Usecase{
		validationService:      validationService,
		bookingRepo:            bookingRepo,
		scheduleRepo:           scheduleRepo,
		phorestClient:          phorestClient,
		txManager:              txManager,
		location:               location,
		defaultDurationMinutes: defaultDurationMinutes,
		logger:                 logger,
	}
}

// Execute создает запись клиента к мастеру
func (u *Usecase) Execute(ctx context.Context, req *CreateBookingRequest) (*CreateBookingResponse, error) {
	validated, err := validateRequest(req, u.defaultDurationMinutes)
	if err != nil {
		u.logger.Warn("CreateBooking: invalid request: %v", err)
		return nil, err
	}

	u.logger.Info("CreateBooking: client=%d books staff=%d at %s for %d min",
		req.ClientID, req.StaffID, validated.StartUTC.Format(time.RFC3339), validated.DurationMinutes)

	staff, err := u.scheduleRepo.GetStaff(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrStaffNotFound) {
			u.logger.Warn("CreateBooking: staff=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		u.logger.Error("CreateBooking: failed to fetch staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: fetch staff: %v", ErrInternal, err)
	}
	if !staff.Active {
		u.logger.Warn("CreateBooking: staff=%d is inactive", req.StaffID)
		return nil, ErrStaffNotFound
	}

	endUTC := validated.StartUTC.Add(time.Duration(validated.DurationMinutes) * time.Minute)

	// Предварительная проверка: контекст и чистая валидация без транзакции
	vctx, err := u.validationService.BuildContext(ctx, req.StaffID, validated.StartUTC, endUTC)
	if err != nil {
		return nil, u.mapValidationError("CreateBooking", req.StaffID, err)
	}

	result, err := u.validationService.ValidateSlot(validated.StartUTC, validated.DurationMinutes, vctx)
	if err != nil {
		u.logger.Error("CreateBooking: slot validation failed for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: validate slot: %v", ErrInternal, err)
	}
	if !result.Valid {
		u.logger.Info("CreateBooking: slot rejected for staff=%d, reason=%s", req.StaffID, result.Reason)
		return nil, reasonToError(result.Reason)
	}

	// Контакт в CRM ищем до транзакции: недоступность CRM не должна
	// блокировать локальное бронирование
	contact := u.resolveContact(ctx, req)

	booking := &domain.Booking{
		ClientID:     req.ClientID,
		StaffID:      req.StaffID,
		StartUTC:     validated.StartUTC,
		EndUTC:       endUTC,
		Status:       domain.StatusBooked,
		ServiceName:  req.ServiceName,
		ServicePrice: req.ServicePrice,
		Notes:        req.Notes,
	}

	var created *domain.Booking
	err = u.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		// Повторная проверка пересечений под блокировкой: записи диапазона
		// берутся с FOR UPDATE, конкурентная вставка того же слота будет ждать
		existing, err := u.bookingRepo.GetByStaffInRange(ctx, req.StaffID, validated.StartUTC, endUTC)
		if err != nil {
			return fmt.Errorf("recheck conflicts: %w", err)
		}

		for _, b := range existing {
			if b.Blocks() && b.Overlaps(validated.StartUTC, endUTC) {
				return ErrSlotTaken
			}
		}

		created, err = u.bookingRepo.Create(ctx, booking)
		if err != nil {
			return fmt.Errorf("create booking: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotTaken) {
			u.logger.Info("CreateBooking: slot taken during transactional recheck for staff=%d", req.StaffID)
			return nil, ErrSlotTaken
		}
		u.logger.Error("CreateBooking: transaction failed for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	u.logger.Info("CreateBooking: successfully created booking id=%d for client=%d", created.ID, req.ClientID)

	// Отправка в календарь Phorest - best-effort после фиксации транзакции
	u.pushToPhorest(ctx, created, staff, contact, req.Notes)

	return fromDomainBooking(created, u.location), nil
}

// resolveContact находит или создает контакт клиента в CRM
// Любая ошибка CRM деградирует до nil: запись будет создана локально
func (u *Usecase) resolveContact(ctx context.Context, req *CreateBookingRequest) *phorest.Contact {
	contact, err := u.phorestClient.SearchContact(ctx, req.ClientPhone)
	if err == nil {
		return contact
	}

	if !errors.Is(err, phorest.ErrContactNotFound) {
		u.logger.Warn("CreateBooking: CRM contact search failed for client=%d: %v", req.ClientID, err)
		return nil
	}

	contact, err = u.phorestClient.CreateContact(ctx, &phorest.ContactRequest{
		FirstName: req.ClientFirstName,
		LastName:  req.ClientLastName,
		Phone:     req.ClientPhone,
		Email:     req.ClientEmail,
	})
	if err != nil {
		u.logger.Warn("CreateBooking: CRM contact creation failed for client=%d: %v", req.ClientID, err)
		return nil
	}

	return contact
}

// pushToPhorest отправляет созданную запись во внешний календарь
// и сохраняет внешнюю ссылку; неудача не откатывает локальную запись
func (u *Usecase) pushToPhorest(ctx context.Context, booking *domain.Booking, staff *domain.StaffMember, contact *phorest.Contact, notes *string) {
	if staff.ExternalRef == nil || contact == nil {
		return
	}

	appointment, err := u.phorestClient.CreateAppointmentWithGracefulDegradation(ctx, &phorest.AppointmentRequest{
		StaffRef:    *staff.ExternalRef,
		ContactRef:  contact.ID,
		ServiceName: booking.ServiceName,
		StartTime:   booking.StartUTC,
		EndTime:     booking.EndUTC,
		Notes:       notes,
	})
	if err != nil || appointment == nil {
		u.logger.Warn("CreateBooking: Phorest push skipped for booking id=%d: %v", booking.ID, err)
		return
	}

	if err := u.bookingRepo.SetExternalRef(ctx, booking.ID, appointment.ID); err != nil {
		u.logger.Error("CreateBooking: failed to save external ref for booking id=%d: %v", booking.ID, err)
	}
}

// mapValidationError переводит ошибки движка валидации в ошибки usecase
func (u *Usecase) mapValidationError(op string, staffID int64, err error) error {
	switch {
	case errors.Is(err, validation.ErrStaffNotFound):
		u.logger.Warn("%s: staff=%d not found by validation engine", op, staffID)
		return ErrStaffNotFound
	case errors.Is(err, validation.ErrInvalidRange), errors.Is(err, validation.ErrInvalidInput):
		u.logger.Warn("%s: invalid validation input for staff=%d: %v", op, staffID, err)
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		u.logger.Error("%s: failed to build validation context for staff=%d: %v", op, staffID, err)
		return fmt.Errorf("%w: build context: %v", ErrInternal, err)
	}
}

// reasonToError переводит код причины отказа в доменную ошибку usecase
func reasonToError(reason domain.ReasonCode) error {
	switch reason {
	case domain.ReasonPastSlot:
		return ErrPastSlot
	case domain.ReasonInvalidDuration:
		return ErrInvalidDuration
	case domain.ReasonDayClosed:
		return ErrDayClosed
	case domain.ReasonOutsideWorkingHours:
		return ErrOutsideWorkingHours
	case domain.ReasonSlotConflict:
		return ErrSlotTaken
	default:
		return fmt.Errorf("%w: unknown rejection reason %q", ErrInternal, reason)
	}
}
