package get_pending_bookings

import (
	"context"

	"github.com/cercle-asbl/ASBL-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetPendingApproval(ctx context.Context) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
