package check_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/cercle-asbl/ASBL-BookingService/internal/api/handlers"
	"github.com/cercle-asbl/ASBL-BookingService/internal/service/bookings"
	"github.com/cercle-asbl/ASBL-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidResourceID = "identifiant de ressource invalide"
	msgInvalidInterval   = "créneau demandé invalide"
	msgNotFound          = "espace introuvable"
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

// Handle GET /api/v1/resources/{resourceId}/availability?startAt=...&endAt=...
// Временные параметры в формате RFC 3339
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем resourceId из URL
	vars := mux.Vars(r)
	resourceID, err := strconv.ParseInt(vars["resourceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /resources/{id}/availability - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	query := r.URL.Query()
	startAt, err := time.Parse(time.RFC3339, query.Get("startAt"))
	if err != nil {
		h.logger.Warn("GET /resources/{id}/availability - Invalid startAt: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInterval)
		return
	}
	endAt, err := time.Parse(time.RFC3339, query.Get("endAt"))
	if err != nil {
		h.logger.Warn("GET /resources/{id}/availability - Invalid endAt: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInterval)
		return
	}

	resp, err := h.service.CheckAvailability(r.Context(), &models.CheckAvailabilityRequest{
		ResourceID: resourceID,
		StartAt:    startAt,
		EndAt:      endAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrResourceNotFound):
			h.logger.Warn("GET /resources/{id}/availability - Space not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /resources/{id}/availability - Invalid interval: resource_id=%d", resourceID)
			handlers.RespondBadRequest(w, msgInvalidInterval)

		default:
			h.logger.Error("GET /resources/{id}/availability - Failed to check availability: resource_id=%d, error=%v",
				resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
