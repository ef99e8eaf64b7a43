package delete_schedule_exception

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/service/schedule"
)

const (
	msgInvalidStaffID = "некорректный ID мастера"
	msgInvalidDate    = "некорректная дата, ожидается YYYYMMDD"
	msgNotFound       = "исключения расписания не найдены"
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

// Handle DELETE /api/v1/staff/{staffId}/schedule/exceptions/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	staffID, err := strconv.ParseInt(vars["staffId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /staff/{id}/schedule/exceptions/{date} - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	date := vars["date"]

	if err := h.service.DeleteExceptions(r.Context(), staffID, date); err != nil {
		switch {
		case errors.Is(err, schedule.ErrExceptionNotFound):
			h.logger.Warn("DELETE /staff/{id}/schedule/exceptions/{date} - Not found: staff_id=%d, date=%s", staffID, date)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("DELETE /staff/{id}/schedule/exceptions/{date} - Invalid date: staff_id=%d, date=%s", staffID, date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("DELETE /staff/{id}/schedule/exceptions/{date} - Failed to delete: staff_id=%d, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /staff/{id}/schedule/exceptions/{date} - Exceptions deleted successfully: staff_id=%d, date=%s",
		staffID, date)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
