package create_schedule_exception

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/service/schedule"
	"github.com/m04kA/SMC-SalonService/internal/service/schedule/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStaffID     = "некорректный ID мастера"
	msgInvalidException   = "некорректное исключение расписания"
	msgStaffNotFound      = "мастер не найден"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/staff/{staffId}/schedule/exceptions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	staffID, err := strconv.ParseInt(vars["staffId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /staff/{id}/schedule/exceptions - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	var req models.CreateExceptionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /staff/{id}/schedule/exceptions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.StaffID = staffID

	if err := h.service.CreateException(r.Context(), &req); err != nil {
		switch {
		case errors.Is(err, schedule.ErrStaffNotFound):
			h.logger.Warn("POST /staff/{id}/schedule/exceptions - Staff not found: staff_id=%d", staffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("POST /staff/{id}/schedule/exceptions - Invalid exception: staff_id=%d, error=%v", staffID, err)
			handlers.RespondBadRequest(w, msgInvalidException)

		default:
			h.logger.Error("POST /staff/{id}/schedule/exceptions - Failed to create exception: staff_id=%d, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /staff/{id}/schedule/exceptions - Exception created successfully: staff_id=%d, date=%s",
		staffID, req.Date)
	handlers.RespondJSON(w, http.StatusCreated, nil)
}
