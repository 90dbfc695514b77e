package approve_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/cercle-asbl/ASBL-BookingService/internal/api/handlers"
	"github.com/cercle-asbl/ASBL-BookingService/internal/api/middleware"
	"github.com/cercle-asbl/ASBL-BookingService/internal/service/bookings"
	"github.com/cercle-asbl/ASBL-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID = "identifiant de réservation invalide"
	msgMissingUserID    = "identification de l'utilisateur manquante"
	msgNotFound         = "réservation introuvable"
	msgInvalidState     = "cette réservation n'attend pas d'approbation"
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

// Handle PATCH /api/v1/admin/bookings/{bookingId}/approve
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем bookingId из URL
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /admin/bookings/{id}/approve - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	// Роль уже проверена middleware RequireAdmin
	adminID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /admin/bookings/{id}/approve - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	booking, err := h.service.Approve(r.Context(), bookingID, &models.ApproveBookingRequest{AdminID: adminID})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /admin/bookings/{id}/approve - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrInvalidState):
			h.logger.Warn("PATCH /admin/bookings/{id}/approve - Invalid state: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgInvalidState)

		default:
			h.logger.Error("PATCH /admin/bookings/{id}/approve - Failed to approve booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /admin/bookings/{id}/approve - Booking approved: booking_id=%d, admin_id=%d",
		bookingID, adminID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
