package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-SalonService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgStaffNotFound       = "мастер не найден"
	msgSlotTaken           = "выбранный временной слот занят"
	msgPastSlot            = "нельзя записаться на прошедшее время"
	msgInvalidDuration     = "некорректная длительность записи"
	msgDayClosed           = "салон закрыт в выбранную дату"
	msgOutsideWorkingHours = "слот вне рабочих часов мастера"
	msgInvalidInput        = "некорректные данные запроса"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req createBooking.CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.ClientID = clientID

	result, err := h.useCase.Execute(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrStaffNotFound):
			h.logger.Warn("POST /bookings - Staff not found: staff_id=%d", req.StaffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, createBooking.ErrSlotTaken):
			h.logger.Warn("POST /bookings - Slot taken: client_id=%d, staff_id=%d", clientID, req.StaffID)
			handlers.RespondError(w, http.StatusConflict, msgSlotTaken)

		case errors.Is(err, createBooking.ErrPastSlot):
			h.logger.Warn("POST /bookings - Past slot: client_id=%d, staff_id=%d", clientID, req.StaffID)
			handlers.RespondBadRequest(w, msgPastSlot)

		case errors.Is(err, createBooking.ErrInvalidDuration):
			h.logger.Warn("POST /bookings - Invalid duration: client_id=%d, staff_id=%d", clientID, req.StaffID)
			handlers.RespondBadRequest(w, msgInvalidDuration)

		case errors.Is(err, createBooking.ErrDayClosed):
			h.logger.Warn("POST /bookings - Day closed: client_id=%d, staff_id=%d", clientID, req.StaffID)
			handlers.RespondBadRequest(w, msgDayClosed)

		case errors.Is(err, createBooking.ErrOutsideWorkingHours):
			h.logger.Warn("POST /bookings - Outside working hours: client_id=%d, staff_id=%d", clientID, req.StaffID)
			handlers.RespondBadRequest(w, msgOutsideWorkingHours)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: client_id=%d, error=%v", clientID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: client_id=%d, staff_id=%d, error=%v",
				clientID, req.StaffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, client_id=%d, staff_id=%d",
		result.Booking.ID, clientID, req.StaffID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
