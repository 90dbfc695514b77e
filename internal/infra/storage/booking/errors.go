package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrInvalidTransition возвращается, когда условное обновление статуса
	// не затронуло ни одной строки: бронирование уже в другом статусе
	ErrInvalidTransition = errors.New("booking.repository: booking is not in a state allowing this transition")

	// ErrOverlapConstraint возвращается, когда вставка нарушила
	// exclusion constraint на пересечение интервалов (страховка схемы)
	ErrOverlapConstraint = errors.New("booking.repository: overlapping booking exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
