package validate_slot

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

type ValidationService interface {
	BuildContext(ctx context.Context, staffID int64, rangeStart, rangeEnd time.Time) (*domain.ValidationContext, error)
	ValidateSlot(proposedStartUTC time.Time, durationMinutes int, vctx *domain.ValidationContext) (*domain.ValidationResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
