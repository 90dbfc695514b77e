package submit_booking

import (
	"errors"
	"net/http"

	"github.com/cercle-asbl/ASBL-BookingService/internal/api/handlers"
	"github.com/cercle-asbl/ASBL-BookingService/internal/api/middleware"
	usecase "github.com/cercle-asbl/ASBL-BookingService/internal/usecase/submit_booking"
)

const (
	msgInvalidRequestBody   = "corps de la requête invalide"
	msgMissingUserID        = "identification de l'utilisateur manquante"
	msgResourceNotFound     = "ressource introuvable"
	msgResourceUnavailable  = "cette ressource n'est pas ouverte à la réservation"
	msgIntervalInPast       = "le créneau demandé est déjà passé"
	msgResourceStarted      = "l'activité a déjà commencé"
	msgConflict             = "ce créneau est déjà réservé"
	msgCapacityExceeded     = "plus assez de places disponibles"
	msgPriceMismatch        = "le prix affiché a changé, veuillez recharger la page"
	msgPaymentRequired      = "une référence de paiement est requise"
	msgPaymentFailed        = "le paiement n'a pas pu être confirmé"
	msgChildcareUnavailable = "pas de garderie disponible pour cet événement"
)

type Handler struct {
	usecase SubmitBookingUsecase
	logger  Logger
}

func NewHandler(uc SubmitBookingUsecase, logger Logger) *Handler {
	return &Handler{
		usecase: uc,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Декодируем body
	var req SubmitBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Подаем заявку
	resp, err := h.usecase.Execute(r.Context(), req.ToUsecaseRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, usecase.ErrResourceNotFound):
			h.logger.Warn("POST /bookings - Resource not found: resource_id=%d", req.ResourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, usecase.ErrResourceUnavailable):
			h.logger.Warn("POST /bookings - Resource unavailable: resource_id=%d", req.ResourceID)
			handlers.RespondConflict(w, msgResourceUnavailable)

		case errors.Is(err, usecase.ErrIntervalInPast):
			h.logger.Warn("POST /bookings - Interval in past: resource_id=%d", req.ResourceID)
			handlers.RespondBadRequest(w, msgIntervalInPast)

		case errors.Is(err, usecase.ErrResourceStarted):
			h.logger.Warn("POST /bookings - Resource started: resource_id=%d", req.ResourceID)
			handlers.RespondBadRequest(w, msgResourceStarted)

		case errors.Is(err, usecase.ErrConflict):
			h.logger.Info("POST /bookings - Slot conflict: resource_id=%d, user_id=%d", req.ResourceID, userID)
			handlers.RespondConflict(w, msgConflict)

		case errors.Is(err, usecase.ErrCapacityExceeded):
			h.logger.Info("POST /bookings - Capacity exceeded: resource_id=%d, user_id=%d", req.ResourceID, userID)
			handlers.RespondConflict(w, msgCapacityExceeded)

		case errors.Is(err, usecase.ErrPriceMismatch):
			h.logger.Warn("POST /bookings - Price mismatch: resource_id=%d, user_id=%d", req.ResourceID, userID)
			handlers.RespondConflict(w, msgPriceMismatch)

		case errors.Is(err, usecase.ErrPaymentRequired):
			h.logger.Warn("POST /bookings - Payment required: resource_id=%d, user_id=%d", req.ResourceID, userID)
			handlers.RespondPaymentRequired(w, msgPaymentRequired)

		case errors.Is(err, usecase.ErrPaymentFailed):
			h.logger.Warn("POST /bookings - Payment failed: resource_id=%d, user_id=%d", req.ResourceID, userID)
			handlers.RespondPaymentRequired(w, msgPaymentFailed)

		case errors.Is(err, usecase.ErrChildcareUnavailable):
			h.logger.Warn("POST /bookings - Childcare unavailable: resource_id=%d", req.ResourceID)
			handlers.RespondBadRequest(w, msgChildcareUnavailable)

		default:
			h.logger.Error("POST /bookings - Failed to submit booking: resource_id=%d, user_id=%d, error=%v",
				req.ResourceID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, status=%s",
		resp.BookingID, userID, resp.Status)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}
