package pay_booking

import (
	"github.com/cercle-asbl/ASBL-BookingService/internal/service/bookings/models"
)

// PayBookingRequest HTTP request model
type PayBookingRequest struct {
	PaymentRef string `json:"paymentRef"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *PayBookingRequest) ToServiceRequest(userID int64) *models.PayBookingRequest {
	return &models.PayBookingRequest{
		UserID:     userID,
		PaymentRef: r.PaymentRef,
	}
}
