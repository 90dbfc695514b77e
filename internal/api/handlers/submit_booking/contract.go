package submit_booking

import (
	"context"

	usecase "github.com/cercle-asbl/ASBL-BookingService/internal/usecase/submit_booking"
)

type SubmitBookingUsecase interface {
	Execute(ctx context.Context, req *usecase.Request) (*usecase.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
