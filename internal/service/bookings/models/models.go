package models

import (
	"errors"
	"time"

	"github.com/cercle-asbl/ASBL-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// ApproveBookingRequest запрос на одобрение заявки админом
type ApproveBookingRequest struct {
	AdminID int64 `json:"adminId"`
}

// RejectBookingRequest запрос на отказ по заявке с причиной
type RejectBookingRequest struct {
	AdminID int64  `json:"adminId"`
	Reason  string `json:"reason"`
}

// PayBookingRequest запрос на оплату одобренного бронирования
type PayBookingRequest struct {
	UserID     int64  `json:"userId"`
	PaymentRef string `json:"paymentRef"`
}

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID  int64 `json:"userId"`
	IsAdmin bool  `json:"-"`
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// CheckAvailabilityRequest запрос проверки свободности слота пространства
type CheckAvailabilityRequest struct {
	ResourceID int64     `json:"resourceId"`
	StartAt    time.Time `json:"startAt"`
	EndAt      time.Time `json:"endAt"`
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"userId"`
	ResourceID   int64  `json:"resourceId"`
	ResourceType string `json:"resourceType"`

	StartAt *time.Time `json:"startAt,omitempty"`
	EndAt   *time.Time `json:"endAt,omitempty"`

	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"totalPrice"`
	Status     string  `json:"status"`

	// Денормализованные данные
	ResourceName string  `json:"resourceName"`
	UnitPrice    float64 `json:"unitPrice"`

	PaymentRef      *string `json:"paymentRef,omitempty"`
	ApprovedBy      *int64  `json:"approvedBy,omitempty"`
	ApprovedAt      *string `json:"approvedAt,omitempty"` // ISO 8601
	RejectionReason *string `json:"rejectionReason,omitempty"`
	CancelledAt     *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// AvailabilityResponse ответ проверки свободности слота
type AvailabilityResponse struct {
	ResourceID int64     `json:"resourceId"`
	StartAt    time.Time `json:"startAt"`
	EndAt      time.Time `json:"endAt"`
	Available  bool      `json:"available"`
}

// Методы конвертации

// ToDomainBookingStatus валидирует и конвертирует статус из строки
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	status := domain.BookingStatus(s)
	switch status {
	case domain.StatusPendingApproval,
		domain.StatusApproved,
		domain.StatusConfirmed,
		domain.StatusCancelled,
		domain.StatusRejected:
		return status, nil
	default:
		return "", ErrInvalidStatus
	}
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:              b.ID,
		UserID:          b.UserID,
		ResourceID:      b.ResourceID,
		ResourceType:    string(b.ResourceType),
		StartAt:         b.StartAt,
		EndAt:           b.EndAt,
		Quantity:        b.Quantity,
		TotalPrice:      b.TotalPrice,
		Status:          string(b.Status),
		ResourceName:    b.ResourceName,
		UnitPrice:       b.UnitPrice,
		PaymentRef:      b.PaymentRef,
		ApprovedBy:      b.ApprovedBy,
		RejectionReason: b.RejectionReason,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}

	if b.ApprovedAt != nil {
		approvedStr := b.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &approvedStr
	}
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}
	return resp
}
