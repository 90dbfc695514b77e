package submit_booking

import (
	"fmt"
	"time"

	"github.com/cercle-asbl/ASBL-BookingService/internal/domain"
)

// validateRequest проверяет структурную корректность заявки
// Бизнес-проверки (доступность ресурса, пересечения, вместимость)
// выполняются дальше по потоку
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidInput)
	}
	if req.UserID <= 0 {
		return fmt.Errorf("%w: user_id must be positive", ErrInvalidInput)
	}
	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resource_id must be positive", ErrInvalidInput)
	}
	if req.DeclaredPrice < 0 {
		return fmt.Errorf("%w: declared price must not be negative", ErrInvalidInput)
	}
	if req.AddChildcare {
		if req.NumberOfChildren < domain.MinBookingQuantity {
			return fmt.Errorf("%w: number of children must be at least %d",
				ErrInvalidInput, domain.MinBookingQuantity)
		}
		if req.NumberOfChildren > domain.MaxBookingQuantity {
			return fmt.Errorf("%w: number of children must not exceed %d",
				ErrInvalidInput, domain.MaxBookingQuantity)
		}
	}
	return nil
}

// validateSpaceInterval проверяет интервал бронирования пространства
func validateSpaceInterval(req *Request, now time.Time) error {
	if req.StartAt == nil || req.EndAt == nil {
		return fmt.Errorf("%w: start_at and end_at are required for space booking", ErrInvalidInput)
	}
	if !req.EndAt.After(*req.StartAt) {
		return fmt.Errorf("%w: end_at must be after start_at", ErrInvalidInput)
	}
	if req.EndAt.Sub(*req.StartAt) > domain.MaxSpaceBookingHours*time.Hour {
		return fmt.Errorf("%w: booking must not exceed %d hours",
			ErrInvalidInput, domain.MaxSpaceBookingHours)
	}
	if req.StartAt.Before(now) {
		return fmt.Errorf("%w: start_at %s is before current time",
			ErrIntervalInPast, req.StartAt.Format(time.RFC3339))
	}
	return nil
}

// validateQuantity проверяет количество участников/детей
func validateQuantity(quantity int) error {
	if quantity < domain.MinBookingQuantity {
		return fmt.Errorf("%w: quantity must be at least %d",
			ErrInvalidInput, domain.MinBookingQuantity)
	}
	if quantity > domain.MaxBookingQuantity {
		return fmt.Errorf("%w: quantity must not exceed %d",
			ErrInvalidInput, domain.MaxBookingQuantity)
	}
	return nil
}
