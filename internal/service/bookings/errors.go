package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = errors.New("resource not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidState возвращается, когда статус бронирования не допускает
	// запрошенный переход
	ErrInvalidState = errors.New("booking is not in a state allowing this operation")

	// ErrAlreadyStarted возвращается при попытке отменить или оплатить
	// бронирование, интервал которого уже начался
	ErrAlreadyStarted = errors.New("booking interval has already started")

	// ErrReasonRequired возвращается, когда отказ пришел без причины
	ErrReasonRequired = errors.New("rejection reason is required")

	// ErrPaymentFailed возвращается, когда платеж не подтвержден шлюзом
	ErrPaymentFailed = errors.New("payment verification failed")

	// ErrPaymentRequired возвращается, когда платная заявка пришла без
	// ссылки на платеж
	ErrPaymentRequired = errors.New("payment reference is required")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
