package validate_slot

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/service/validation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStaffID     = "некорректный ID мастера"
	msgInvalidStartTime   = "некорректное время начала, ожидается RFC3339"
	msgInvalidDuration    = "некорректная длительность записи"
	msgStaffNotFound      = "мастер не найден"
)

type Handler struct {
	service ValidationService
	logger  Logger
}

func NewHandler(service ValidationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/staff/{staffId}/slots/validate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	staffID, err := strconv.ParseInt(vars["staffId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /staff/{id}/slots/validate - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	var req ValidateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /staff/{id}/slots/validate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		h.logger.Warn("POST /staff/{id}/slots/validate - Invalid start time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartTime)
		return
	}
	startUTC := startTime.UTC()

	duration := domain.DefaultAppointmentDurationMin
	if req.DurationMinutes != nil {
		duration = *req.DurationMinutes
	}
	if duration < domain.MinAppointmentDurationMinutes || duration > domain.MaxAppointmentDurationMinutes {
		h.logger.Warn("POST /staff/{id}/slots/validate - Invalid duration: staff_id=%d, duration=%d", staffID, duration)
		handlers.RespondBadRequest(w, msgInvalidDuration)
		return
	}

	endUTC := startUTC.Add(time.Duration(duration) * time.Minute)

	vctx, err := h.service.BuildContext(r.Context(), staffID, startUTC, endUTC)
	if err != nil {
		switch {
		case errors.Is(err, validation.ErrStaffNotFound):
			h.logger.Warn("POST /staff/{id}/slots/validate - Staff not found: staff_id=%d", staffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, validation.ErrInvalidRange), errors.Is(err, validation.ErrInvalidInput):
			h.logger.Warn("POST /staff/{id}/slots/validate - Invalid input: staff_id=%d, error=%v", staffID, err)
			handlers.RespondBadRequest(w, msgInvalidStartTime)

		default:
			h.logger.Error("POST /staff/{id}/slots/validate - Failed to build context: staff_id=%d, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	result, err := h.service.ValidateSlot(startUTC, duration, vctx)
	if err != nil {
		h.logger.Error("POST /staff/{id}/slots/validate - Validation failed: staff_id=%d, error=%v", staffID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /staff/{id}/slots/validate - Slot validated: staff_id=%d, valid=%t, reason=%s",
		staffID, result.Valid, result.Reason)
	handlers.RespondJSON(w, http.StatusOK, FromDomainResult(result))
}
