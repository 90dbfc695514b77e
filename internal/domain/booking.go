package domain

import "time"

// BookingStatus статус бронирования
type BookingStatus string

const (
	// StatusPendingApproval ожидает одобрения админа (аудитории)
	// Бронирование в этом статусе мягко блокирует слот/вместимость
	StatusPendingApproval BookingStatus = "pending_approval"

	// StatusApproved одобрено админом, ожидает оплаты пользователем
	StatusApproved BookingStatus = "approved"

	// StatusConfirmed оплачено и подтверждено
	StatusConfirmed BookingStatus = "confirmed"

	// StatusCancelled отменено пользователем или админом
	StatusCancelled BookingStatus = "cancelled"

	// StatusRejected отклонено админом с указанием причины
	StatusRejected BookingStatus = "rejected"
)

// Booking бронирование ресурса одним пользователем
type Booking struct {
	ID           int64
	UserID       int64
	ResourceID   int64
	ResourceType ResourceType

	// Интервал бронирования — только для пространств
	// События и сессии имеют фиксированное окно в каталоге
	StartAt *time.Time
	EndAt   *time.Time

	// Quantity количество участников/детей; всегда 1 для пространств
	Quantity int

	TotalPrice float64

	// PaymentRef ссылка на платеж (payment intent), nil до оплаты
	PaymentRef *string

	Status BookingStatus

	// Denormalized data for history
	ResourceName string
	UnitPrice    float64

	ApprovedBy      *int64
	ApprovedAt      *time.Time
	RejectionReason *string
	CancelledAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive возвращает true, если бронирование учитывается при проверке
// пересечений и вместимости (soft lock: pending_approval тоже считается)
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled && b.Status != StatusRejected
}

// CanBeCancelled возвращает true, если бронирование можно отменить
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPendingApproval ||
		b.Status == StatusApproved ||
		b.Status == StatusConfirmed
}

// IsCancelled возвращает true, если бронирование отменено
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IsTerminal возвращает true для конечных статусов
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCancelled || b.Status == StatusRejected
}

// Overlaps проверяет пересечение с полуоткрытым интервалом [start, end)
// Касающиеся интервалы (конец одного равен началу другого) не пересекаются
func (b *Booking) Overlaps(start, end time.Time) bool {
	if b.StartAt == nil || b.EndAt == nil {
		return false
	}
	return b.StartAt.Before(end) && b.EndAt.After(start)
}

// HasStarted возвращает true, если интервал бронирования уже начался
// Для событий и сессий начало определяется окном ресурса, не бронированием
func (b *Booking) HasStarted(now time.Time) bool {
	if b.StartAt == nil {
		return false
	}
	return !b.StartAt.After(now)
}

// CalendarFilter фильтр выборки активных бронирований ресурса за период
type CalendarFilter struct {
	ResourceID int64     // Обязательный параметр
	PeriodFrom time.Time // Начало периода
	PeriodTo   time.Time // Конец периода
	// OnlyConfirmed если true — только подтвержденные бронирования
	// (публичный календарь); иначе все активные
	OnlyConfirmed bool
}
