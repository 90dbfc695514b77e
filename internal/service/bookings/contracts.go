package bookings

import (
	"context"
	"time"

	"github.com/cercle-asbl/ASBL-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetPendingApproval(ctx context.Context) ([]*domain.Booking, error)
	ExistsOverlapping(ctx context.Context, resourceID int64, start, end time.Time) (bool, error)
	Approve(ctx context.Context, id int64, approverID int64) error
	Reject(ctx context.Context, id int64, approverID int64, reason string) error
	ConfirmPayment(ctx context.Context, id int64, paymentRef string) error
	Cancel(ctx context.Context, id int64) error
}

// ResourceCatalog интерфейс каталога бронируемых ресурсов
type ResourceCatalog interface {
	GetByIDAndType(ctx context.Context, id int64, resourceType domain.ResourceType) (*domain.Resource, error)
}

// PaymentGate интерфейс проверки платежей
type PaymentGate interface {
	Verify(ctx context.Context, paymentRef string) error
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
