package paymentgate

import "errors"

var (
	// ErrPaymentNotVerified возвращается, когда платеж не прошел
	// (intent не в статусе succeeded)
	ErrPaymentNotVerified = errors.New("paymentgate: payment not verified")

	// ErrMissingPaymentRef возвращается при пустой ссылке на платеж
	ErrMissingPaymentRef = errors.New("paymentgate: payment reference is required")

	// ErrGateUnavailable возвращается при транспортных ошибках платежного
	// шлюза; вызывающий код трактует её как неуспех оплаты, не как fatal
	ErrGateUnavailable = errors.New("paymentgate: payment gate unavailable")
)
