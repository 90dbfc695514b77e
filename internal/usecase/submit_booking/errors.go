package submit_booking

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("submit_booking: invalid input data")

	// ErrResourceNotFound возвращается, когда ресурс не найден в каталоге
	ErrResourceNotFound = errors.New("submit_booking: resource not found")

	// ErrResourceUnavailable возвращается, когда ресурс закрыт для бронирования
	ErrResourceUnavailable = errors.New("submit_booking: resource is not available for booking")

	// ErrIntervalInPast возвращается, когда запрошенный интервал уже прошел
	ErrIntervalInPast = errors.New("submit_booking: requested interval is in the past")

	// ErrResourceStarted возвращается, когда событие/сессия уже началось
	ErrResourceStarted = errors.New("submit_booking: event or session has already started")

	// ErrConflict возвращается при пересечении с существующим активным
	// бронированием пространства
	ErrConflict = errors.New("submit_booking: overlapping booking exists for this space")

	// ErrCapacityExceeded возвращается, когда запрошенное количество
	// превышает остаток вместимости; сообщение содержит остаток
	ErrCapacityExceeded = errors.New("submit_booking: capacity exceeded")

	// ErrPriceMismatch возвращается, когда заявленная клиентом цена
	// не совпадает с рассчитанной сервером
	ErrPriceMismatch = errors.New("submit_booking: declared price does not match computed price")

	// ErrPaymentRequired возвращается, когда платная заявка пришла без
	// ссылки на платеж
	ErrPaymentRequired = errors.New("submit_booking: payment reference is required")

	// ErrPaymentFailed возвращается, когда платеж не подтвержден шлюзом
	ErrPaymentFailed = errors.New("submit_booking: payment verification failed")

	// ErrChildcareUnavailable возвращается, когда у события нет привязанной
	// сессии гардери либо сессия закрыта
	ErrChildcareUnavailable = errors.New("submit_booking: childcare is not available for this event")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("submit_booking: internal error")
)

// capacityExceededError формирует ошибку превышения вместимости с остатком
func capacityExceededError(remaining int) error {
	if remaining < 0 {
		remaining = 0
	}
	return fmt.Errorf("%w: remaining capacity %d", ErrCapacityExceeded, remaining)
}
