package get_pending_bookings

import (
	"net/http"

	"github.com/cercle-asbl/ASBL-BookingService/internal/api/handlers"
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

// Handle GET /api/v1/admin/bookings/pending
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GetPendingApproval(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/bookings/pending - Failed to get pending bookings: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
