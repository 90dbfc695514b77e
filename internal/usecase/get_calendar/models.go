package get_calendar

import (
	"time"

	"github.com/cercle-asbl/ASBL-BookingService/internal/domain"
)

// Request запрос календаря занятости ресурса
type Request struct {
	ResourceID int64

	// Year/Month месяц календаря; нулевые значения — текущий месяц
	Year  int
	Month time.Month

	// OnlyConfirmed если true — только подтвержденные бронирования
	// (публичный календарь без заявок в ожидании)
	OnlyConfirmed bool
}

// Slot занятый интервал в календаре
// Идентификатор пользователя не раскрывается: календарь публичный
type Slot struct {
	BookingID int64                `json:"booking_id"`
	StartAt   time.Time            `json:"start_at"`
	EndAt     time.Time            `json:"end_at"`
	Status    domain.BookingStatus `json:"status"`
}

// Response календарь занятости ресурса за месяц
type Response struct {
	ResourceID   int64     `json:"resource_id"`
	ResourceName string    `json:"resource_name"`
	PeriodFrom   time.Time `json:"period_from"`
	PeriodTo     time.Time `json:"period_to"`
	Slots        []Slot    `json:"slots"`
}
