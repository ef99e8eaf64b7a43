package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SalonService/internal/service/bookings/models"
)

// Service сервис для работы с записями
type Service struct {
	bookingRepo   BookingRepository
	phorestClient PhorestClient
	location      *time.Location
	logger        Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	bookingRepo BookingRepository,
	phorestClient PhorestClient,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:   bookingRepo,
		phorestClient: phorestClient,
		location:      location,
		logger:        logger,
	}
}

// GetByID получает запись по ID
// Клиент может видеть только свою запись
func (s *Service) GetByID(ctx context.Context, id int64, clientID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for client=%d", id, clientID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if booking.ClientID != clientID {
		s.logger.Warn("GetByID: access denied for client=%d to booking id=%d", clientID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking, s.location), nil
}

// GetClientBookings получает историю записей клиента
// Опционально фильтрует по статусу
func (s *Service) GetClientBookings(ctx context.Context, req *models.GetClientBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetClientBookings: fetching bookings for client=%d, status=%v", req.ClientID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetClientBookings: invalid status=%s for client=%d", *req.Status, req.ClientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByClientID(ctx, req.ClientID, domainStatus)
	if err != nil {
		s.logger.Error("GetClientBookings: repository error for client=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: GetClientBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetClientBookings: successfully fetched %d bookings for client=%d", len(bookings), req.ClientID)
	return models.FromDomainBookingList(bookings, s.location), nil
}

// GetStaffBookings получает записи мастера с гибкой фильтрацией
// Поддерживает фильтрацию по периоду, статусу и включению отменённых записей
func (s *Service) GetStaffBookings(ctx context.Context, req *models.GetStaffBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetStaffBookings: fetching bookings for staff=%d", req.StaffID)

	if req.StaffID <= 0 {
		return nil, fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if req.FromUTC != nil && req.ToUTC != nil && !req.FromUTC.Before(*req.ToUTC) {
		s.logger.Warn("GetStaffBookings: invalid period for staff=%d", req.StaffID)
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetStaffBookings: invalid filter for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByStaffWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetStaffBookings: repository error for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: GetStaffBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetStaffBookings: successfully fetched %d bookings for staff=%d", len(bookings), req.StaffID)
	return models.FromDomainBookingList(bookings, s.location), nil
}

// Cancel отменяет запись
// Клиент может отменить только свою запись; отмена в Phorest выполняется
// best-effort: локальная отмена первична, внешний календарь догоняет
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by client=%d", bookingID, req.ClientID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if booking.ClientID != req.ClientID {
		s.logger.Warn("Cancel: access denied for client=%d to booking id=%d", req.ClientID, bookingID)
		return ErrAccessDenied
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, req.CancellationReason); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found during cancellation", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Отменяем запись во внешнем календаре, если она туда была отправлена
	if booking.ExternalRef != nil {
		if err := s.phorestClient.CancelAppointment(ctx, *booking.ExternalRef, req.CancellationReason); err != nil {
			s.logger.Error("Cancel: failed to cancel appointment in Phorest for booking id=%d, external_ref=%s: %v",
				bookingID, *booking.ExternalRef, err)
		}
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	return nil
}
