package paymentgate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// fakePaymentPrefix префикс тестовых платежных токенов
// Принимаются без обращения к Stripe, только при allowFakePayments
const fakePaymentPrefix = "test_"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client проверяет платежи через Stripe Payment Intents
// Сервис не создает платежи сам: он только подтверждает, что переданный
// payment intent действительно оплачен
type Client struct {
	api               *client.API
	allowFakePayments bool
	timeout           time.Duration
	log               Logger
}

// NewClient создает новый экземпляр платежного клиента
func NewClient(apiKey string, allowFakePayments bool, timeout time.Duration, log Logger) *Client {
	api := &client.API{}
	api.Init(apiKey, nil)

	return &Client{
		api:               api,
		allowFakePayments: allowFakePayments,
		timeout:           timeout,
		log:               log,
	}
}

// Verify проверяет, что платеж по ссылке paymentRef прошел успешно
// Возвращает nil при успехе, ErrPaymentNotVerified при неуспешном платеже,
// ErrGateUnavailable при транспортных ошибках Stripe
func (c *Client) Verify(ctx context.Context, paymentRef string) error {
	if strings.TrimSpace(paymentRef) == "" {
		return ErrMissingPaymentRef
	}

	if c.allowFakePayments && strings.HasPrefix(paymentRef, fakePaymentPrefix) {
		c.log.Info("PaymentGate: accepting fake payment token %s", paymentRef)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	}

	intent, err := c.api.PaymentIntents.Get(paymentRef, params)
	if err != nil {
		// Ошибки Stripe API (intent не найден и т.п.) — платеж не подтвержден;
		// сетевые ошибки и таймауты — шлюз недоступен
		if stripeErr, ok := err.(*stripe.Error); ok {
			c.log.Warn("PaymentGate: stripe rejected intent %s: %s", paymentRef, stripeErr.Msg)
			return fmt.Errorf("%w: %s", ErrPaymentNotVerified, stripeErr.Msg)
		}
		c.log.Error("PaymentGate: failed to retrieve intent %s: %v", paymentRef, err)
		return fmt.Errorf("%w: %v", ErrGateUnavailable, err)
	}

	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		c.log.Warn("PaymentGate: intent %s has status %s", paymentRef, intent.Status)
		return fmt.Errorf("%w: intent status %s", ErrPaymentNotVerified, intent.Status)
	}

	return nil
}
