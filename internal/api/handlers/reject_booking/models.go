package reject_booking

import (
	"github.com/cercle-asbl/ASBL-BookingService/internal/service/bookings/models"
)

// RejectBookingRequest HTTP request model
type RejectBookingRequest struct {
	Reason string `json:"reason"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *RejectBookingRequest) ToServiceRequest(adminID int64) *models.RejectBookingRequest {
	return &models.RejectBookingRequest{
		AdminID: adminID,
		Reason:  r.Reason,
	}
}
