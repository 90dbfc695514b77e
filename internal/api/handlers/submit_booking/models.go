package submit_booking

import (
	"time"

	usecase "github.com/cercle-asbl/ASBL-BookingService/internal/usecase/submit_booking"
)

// SubmitBookingRequest HTTP request model
type SubmitBookingRequest struct {
	ResourceID int64 `json:"resourceId"`

	// Интервал — только для пространств (RFC 3339)
	StartAt *time.Time `json:"startAt,omitempty"`
	EndAt   *time.Time `json:"endAt,omitempty"`

	// Quantity количество участников/детей; по умолчанию 1
	Quantity int `json:"quantity,omitempty"`

	// DeclaredPrice цена, которую видел и подтвердил клиент
	DeclaredPrice float64 `json:"declaredPrice"`

	PaymentRef *string `json:"paymentRef,omitempty"`

	// Опциональная гардери к событию
	AddChildcare           bool    `json:"addChildcare,omitempty"`
	NumberOfChildren       int     `json:"numberOfChildren,omitempty"`
	DeclaredChildcarePrice float64 `json:"declaredChildcarePrice,omitempty"`
}

// ToUsecaseRequest конвертирует HTTP request в модель usecase
func (r *SubmitBookingRequest) ToUsecaseRequest(userID int64) *usecase.Request {
	quantity := r.Quantity
	if quantity == 0 {
		quantity = 1
	}

	return &usecase.Request{
		UserID:                 userID,
		ResourceID:             r.ResourceID,
		StartAt:                r.StartAt,
		EndAt:                  r.EndAt,
		Quantity:               quantity,
		DeclaredPrice:          r.DeclaredPrice,
		PaymentRef:             r.PaymentRef,
		AddChildcare:           r.AddChildcare,
		NumberOfChildren:       r.NumberOfChildren,
		DeclaredChildcarePrice: r.DeclaredChildcarePrice,
	}
}
