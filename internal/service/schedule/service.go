package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-SalonService/internal/service/schedule/models"
)

// defaultScheduleRangeDays период исключений по умолчанию для обзора расписания
const defaultScheduleRangeDays = 30

// Service сервис управления расписаниями мастеров
type Service struct {
	scheduleRepo ScheduleRepository
	txManager    TxManager
	location     *time.Location
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	txManager TxManager,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		txManager:    txManager,
		location:     location,
		logger:       logger,
	}
}

// GetSchedule возвращает недельный шаблон мастера и исключения периода
// Если период не задан, берутся исключения на defaultScheduleRangeDays вперед
func (s *Service) GetSchedule(ctx context.Context, req *models.GetScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: fetching schedule for staff=%d", req.StaffID)

	staff, err := s.scheduleRepo.GetStaff(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrStaffNotFound) {
			s.logger.Warn("GetSchedule: staff=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		s.logger.Error("GetSchedule: repository error for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	fromUTC, toUTC, err := s.resolveRange(req.FromDate, req.ToDate)
	if err != nil {
		s.logger.Warn("GetSchedule: invalid period for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	weekly, err := s.scheduleRepo.GetWeeklyWindows(ctx, req.StaffID)
	if err != nil {
		s.logger.Error("GetSchedule: failed to fetch weekly windows for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: GetSchedule - weekly windows: %v", ErrInternal, err)
	}

	exceptions, err := s.scheduleRepo.GetExceptionRows(ctx, req.StaffID, fromUTC, toUTC)
	if err != nil {
		s.logger.Error("GetSchedule: failed to fetch exceptions for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: GetSchedule - exceptions: %v", ErrInternal, err)
	}

	s.logger.Info("GetSchedule: successfully fetched schedule for staff=%d, %d exceptions", req.StaffID, len(exceptions))
	return models.FromDomainSchedule(staff, weekly, exceptions), nil
}

// UpdateWeeklyHours полностью заменяет недельное расписание мастера
// Замена (delete + insert) выполняется в одной транзакции
func (s *Service) UpdateWeeklyHours(ctx context.Context, req *models.UpdateWeeklyHoursRequest) error {
	s.logger.Info("UpdateWeeklyHours: updating weekly hours for staff=%d", req.StaffID)

	if _, err := s.scheduleRepo.GetStaff(ctx, req.StaffID); err != nil {
		if errors.Is(err, scheduleRepo.ErrStaffNotFound) {
			s.logger.Warn("UpdateWeeklyHours: staff=%d not found", req.StaffID)
			return ErrStaffNotFound
		}
		s.logger.Error("UpdateWeeklyHours: repository error for staff=%d: %v", req.StaffID, err)
		return fmt.Errorf("%w: UpdateWeeklyHours - repository error: %v", ErrInternal, err)
	}

	weekly, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("UpdateWeeklyHours: invalid weekly hours for staff=%d: %v", req.StaffID, err)
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		return s.scheduleRepo.ReplaceWeeklyWindows(ctx, req.StaffID, weekly)
	})
	if err != nil {
		s.logger.Error("UpdateWeeklyHours: failed to replace weekly windows for staff=%d: %v", req.StaffID, err)
		return fmt.Errorf("%w: UpdateWeeklyHours - replace windows: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateWeeklyHours: successfully updated weekly hours for staff=%d", req.StaffID)
	return nil
}

// CreateException создает исключение расписания для мастера
func (s *Service) CreateException(ctx context.Context, req *models.CreateExceptionRequest) error {
	s.logger.Info("CreateException: creating exception for staff=%d, date=%s", req.StaffID, req.Date)

	if _, err := s.scheduleRepo.GetStaff(ctx, req.StaffID); err != nil {
		if errors.Is(err, scheduleRepo.ErrStaffNotFound) {
			s.logger.Warn("CreateException: staff=%d not found", req.StaffID)
			return ErrStaffNotFound
		}
		s.logger.Error("CreateException: repository error for staff=%d: %v", req.StaffID, err)
		return fmt.Errorf("%w: CreateException - repository error: %v", ErrInternal, err)
	}

	row, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("CreateException: invalid exception for staff=%d: %v", req.StaffID, err)
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.scheduleRepo.CreateException(ctx, req.StaffID, *row); err != nil {
		s.logger.Error("CreateException: failed to create exception for staff=%d: %v", req.StaffID, err)
		return fmt.Errorf("%w: CreateException - create: %v", ErrInternal, err)
	}

	s.logger.Info("CreateException: successfully created %s exception for staff=%d, date=%s",
		row.Kind, req.StaffID, req.Date)
	return nil
}

// DeleteExceptions удаляет все исключения мастера на указанную дату
func (s *Service) DeleteExceptions(ctx context.Context, staffID int64, date string) error {
	s.logger.Info("DeleteExceptions: deleting exceptions for staff=%d, date=%s", staffID, date)

	dateID := domain.DateID(date)
	if err := dateID.Validate(); err != nil {
		s.logger.Warn("DeleteExceptions: invalid date=%s for staff=%d", date, staffID)
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.scheduleRepo.DeleteExceptions(ctx, staffID, dateID); err != nil {
		if errors.Is(err, scheduleRepo.ErrExceptionNotFound) {
			s.logger.Warn("DeleteExceptions: no exceptions for staff=%d, date=%s", staffID, date)
			return ErrExceptionNotFound
		}
		s.logger.Error("DeleteExceptions: failed to delete exceptions for staff=%d: %v", staffID, err)
		return fmt.Errorf("%w: DeleteExceptions - delete: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteExceptions: successfully deleted exceptions for staff=%d, date=%s", staffID, date)
	return nil
}

// resolveRange вычисляет UTC-границы периода исключений
func (s *Service) resolveRange(fromDate, toDate string) (time.Time, time.Time, error) {
	now := time.Now().In(s.location)

	fromUTC := now.UTC()
	if fromDate != "" {
		dateID := domain.DateID(fromDate)
		if err := dateID.Validate(); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("from date: %v", err)
		}
		midnight, err := dateID.Midnight(s.location)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("from date: %v", err)
		}
		fromUTC = midnight.UTC()
	}

	toUTC := fromUTC.Add(defaultScheduleRangeDays * 24 * time.Hour)
	if toDate != "" {
		dateID := domain.DateID(toDate)
		if err := dateID.Validate(); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("to date: %v", err)
		}
		midnight, err := dateID.Midnight(s.location)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("to date: %v", err)
		}
		// Конец периода включает весь последний день
		toUTC = midnight.Add(24 * time.Hour).UTC()
	}

	if !fromUTC.Before(toUTC) {
		return time.Time{}, time.Time{}, fmt.Errorf("from must be before to")
	}

	return fromUTC, toUTC, nil
}
