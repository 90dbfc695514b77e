package pay_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/cercle-asbl/ASBL-BookingService/internal/api/handlers"
	"github.com/cercle-asbl/ASBL-BookingService/internal/api/middleware"
	"github.com/cercle-asbl/ASBL-BookingService/internal/service/bookings"
)

const (
	msgInvalidBookingID   = "identifiant de réservation invalide"
	msgInvalidRequestBody = "corps de la requête invalide"
	msgMissingUserID      = "identification de l'utilisateur manquante"
	msgNotFound           = "réservation introuvable"
	msgForbidden          = "accès refusé"
	msgInvalidState       = "cette réservation n'attend pas de paiement"
	msgExpired            = "le créneau de cette réservation est déjà passé"
	msgPaymentRequired    = "une référence de paiement est requise"
	msgPaymentFailed      = "le paiement n'a pas pu être confirmé"
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

// Handle POST /api/v1/bookings/{bookingId}/pay
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем bookingId из URL
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/pay - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/pay - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Декодируем body
	var req PayBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/pay - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Подтверждаем оплату
	booking, err := h.service.Pay(r.Context(), bookingID, req.ToServiceRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/pay - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/pay - Access denied: booking_id=%d, user_id=%d",
				bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidState):
			h.logger.Warn("POST /bookings/{id}/pay - Invalid state: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgInvalidState)

		case errors.Is(err, bookings.ErrAlreadyStarted):
			h.logger.Warn("POST /bookings/{id}/pay - Interval already started: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgExpired)

		case errors.Is(err, bookings.ErrPaymentRequired):
			h.logger.Warn("POST /bookings/{id}/pay - Payment ref missing: booking_id=%d", bookingID)
			handlers.RespondPaymentRequired(w, msgPaymentRequired)

		case errors.Is(err, bookings.ErrPaymentFailed):
			h.logger.Warn("POST /bookings/{id}/pay - Payment failed: booking_id=%d", bookingID)
			handlers.RespondPaymentRequired(w, msgPaymentFailed)

		default:
			h.logger.Error("POST /bookings/{id}/pay - Failed to pay booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/pay - Booking paid successfully: booking_id=%d, user_id=%d",
		bookingID, userID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
