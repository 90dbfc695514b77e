package domain

// Business validation constants
const (
	// MinBookingQuantity минимальное количество (участников/детей)
	MinBookingQuantity = 1

	// MaxBookingQuantity верхняя граница количества в одном бронировании
	MaxBookingQuantity = 100

	// MaxRejectionReasonLength максимальная длина причины отказа
	MaxRejectionReasonLength = 500

	// MaxSpaceBookingHours максимальная длительность бронирования пространства
	MaxSpaceBookingHours = 24
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, учитываемые при проверке пересечений и вместимости
// Pending_approval мягко блокирует слот до явного отказа или отмены
var ActiveStatuses = []BookingStatus{
	StatusPendingApproval,
	StatusApproved,
	StatusConfirmed,
}

// InactiveStatuses статусы, освобождающие слот/вместимость
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
	StatusRejected,
}
