package get_staff_bookings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/service/bookings"
	"github.com/m04kA/SMC-SalonService/internal/service/bookings/models"
)

const (
	msgInvalidStaffID = "некорректный ID мастера"
	msgInvalidPeriod  = "некорректный период, ожидается RFC3339"
	msgInvalidFilter  = "некорректные параметры фильтрации"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/staff/{staffId}/bookings
// Query params: from, to (RFC3339), status, includeInactive - все опциональные
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	staffID, err := strconv.ParseInt(vars["staffId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /staff/{id}/bookings - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	req := &models.GetStaffBookingsRequest{
		StaffID: staffID,
	}

	query := r.URL.Query()

	if fromStr := query.Get("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			h.logger.Warn("GET /staff/{id}/bookings - Invalid from: staff_id=%d, error=%v", staffID, err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)
			return
		}
		fromUTC := from.UTC()
		req.FromUTC = &fromUTC
	}

	if toStr := query.Get("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			h.logger.Warn("GET /staff/{id}/bookings - Invalid to: staff_id=%d, error=%v", staffID, err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)
			return
		}
		toUTC := to.UTC()
		req.ToUTC = &toUTC
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if query.Get("includeInactive") == "true" {
		req.IncludeInactive = true
	}

	result, err := h.service.GetStaffBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /staff/{id}/bookings - Invalid filter: staff_id=%d, error=%v", staffID, err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /staff/{id}/bookings - Failed to get bookings: staff_id=%d, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /staff/{id}/bookings - Retrieved %d bookings: staff_id=%d", result.Total, staffID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
