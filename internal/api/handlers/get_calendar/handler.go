package get_calendar

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/cercle-asbl/ASBL-BookingService/internal/api/handlers"
	usecase "github.com/cercle-asbl/ASBL-BookingService/internal/usecase/get_calendar"
)

const (
	msgInvalidResourceID = "identifiant de ressource invalide"
	msgInvalidPeriod     = "période demandée invalide"
	msgNotFound          = "ressource introuvable"
)

type Handler struct {
	usecase GetCalendarUsecase
	logger  Logger
}

func NewHandler(uc GetCalendarUsecase, logger Logger) *Handler {
	return &Handler{
		usecase: uc,
		logger:  logger,
	}
}

// Handle GET /api/v1/resources/{resourceId}/calendar?year=2026&month=9
// Без параметров отдает текущий месяц
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем resourceId из URL
	vars := mux.Vars(r)
	resourceID, err := strconv.ParseInt(vars["resourceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /resources/{id}/calendar - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	req := &usecase.Request{
		ResourceID:    resourceID,
		OnlyConfirmed: r.URL.Query().Get("onlyConfirmed") == "true",
	}

	query := r.URL.Query()
	if yearStr := query.Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			h.logger.Warn("GET /resources/{id}/calendar - Invalid year: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)
			return
		}
		req.Year = year
	}
	if monthStr := query.Get("month"); monthStr != "" {
		month, err := strconv.Atoi(monthStr)
		if err != nil || month < 1 || month > 12 {
			h.logger.Warn("GET /resources/{id}/calendar - Invalid month: %s", monthStr)
			handlers.RespondBadRequest(w, msgInvalidPeriod)
			return
		}
		req.Month = time.Month(month)
	}

	resp, err := h.usecase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrResourceNotFound):
			h.logger.Warn("GET /resources/{id}/calendar - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, usecase.ErrInvalidInput):
			h.logger.Warn("GET /resources/{id}/calendar - Invalid input: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		default:
			h.logger.Error("GET /resources/{id}/calendar - Failed to get calendar: resource_id=%d, error=%v",
				resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
