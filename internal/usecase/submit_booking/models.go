package submit_booking

import (
	"time"

	"github.com/cercle-asbl/ASBL-BookingService/internal/domain"
)

// Request данные заявки на бронирование
type Request struct {
	UserID     int64
	ResourceID int64

	// Интервал — только для пространств
	StartAt *time.Time
	EndAt   *time.Time

	// Quantity количество участников/детей; для пространств игнорируется
	Quantity int

	// DeclaredPrice цена, которую видел и подтвердил клиент
	// Сверяется с расчетом сервера перед принятием заявки
	DeclaredPrice float64

	// PaymentRef ссылка на платеж; обязательна для платных заявок,
	// не требующих одобрения
	PaymentRef *string

	// AddChildcare записать детей в привязанную сессию гардери
	// того же события (одной транзакцией с основной заявкой)
	AddChildcare     bool
	NumberOfChildren int

	// DeclaredChildcarePrice цена гардери, подтвержденная клиентом
	DeclaredChildcarePrice float64
}

// ChildcareData данные сопутствующего бронирования гардери
type ChildcareData struct {
	BookingID  int64   `json:"booking_id"`
	SessionID  int64   `json:"session_id"`
	Children   int     `json:"children"`
	TotalPrice float64 `json:"total_price"`
}

// Response результат принятой заявки
type Response struct {
	BookingID    int64                `json:"booking_id"`
	ResourceID   int64                `json:"resource_id"`
	ResourceName string               `json:"resource_name"`
	Status       domain.BookingStatus `json:"status"`
	TotalPrice   float64              `json:"total_price"`
	CreatedAt    time.Time            `json:"created_at"`

	// Childcare заполняется, если вместе с событием забронирована гардери
	Childcare *ChildcareData `json:"childcare,omitempty"`
}
