package submit_booking

import (
	"context"
	"time"

	"github.com/cercle-asbl/ASBL-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetActiveByResource(ctx context.Context, resourceID int64) ([]*domain.Booking, error)
}

// ResourceCatalog интерфейс каталога бронируемых ресурсов
type ResourceCatalog interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	GetByIDAndType(ctx context.Context, id int64, resourceType domain.ResourceType) (*domain.Resource, error)
}

// PaymentGate интерфейс проверки платежей
type PaymentGate interface {
	Verify(ctx context.Context, paymentRef string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
