package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/integrations/phorest"
)

// ValidationService интерфейс движка валидации слотов
type ValidationService interface {
	BuildContext(ctx context.Context, staffID int64, rangeStart, rangeEnd time.Time) (*domain.ValidationContext, error)
	ValidateSlot(proposedStartUTC time.Time, durationMinutes int, vctx *domain.ValidationContext) (*domain.ValidationResult, error)
}

// BookingRepository интерфейс репозитория записей
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	GetByStaffInRange(ctx context.Context, staffID int64, fromUTC, toUTC time.Time) ([]*domain.Booking, error)
	SetExternalRef(ctx context.Context, id int64, externalRef string) error
}

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	GetStaff(ctx context.Context, staffID int64) (*domain.StaffMember, error)
}

// PhorestClient интерфейс клиента CRM Phorest
type PhorestClient interface {
	SearchContact(ctx context.Context, phone string) (*phorest.Contact, error)
	CreateContact(ctx context.Context, req *phorest.ContactRequest) (*phorest.Contact, error)
	CreateAppointmentWithGracefulDegradation(ctx context.Context, req *phorest.AppointmentRequest) (*phorest.Appointment, error)
}

// TxManager интерфейс менеджера транзакций
type TxManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
