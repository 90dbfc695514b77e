package get_calendar

import (
	"context"
	"time"

	"github.com/cercle-asbl/ASBL-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByCalendar(ctx context.Context, filter domain.CalendarFilter) ([]*domain.Booking, error)
}

// ResourceCatalog интерфейс каталога бронируемых ресурсов
type ResourceCatalog interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
