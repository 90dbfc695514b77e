package get_calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cercle-asbl/ASBL-BookingService/internal/domain"
	catalogstorage "github.com/cercle-asbl/ASBL-BookingService/internal/infra/storage/catalog"
)

// Usecase отдает календарь занятости пространства за месяц
type Usecase struct {
	bookingRepo  BookingRepository
	catalog      ResourceCatalog
	timeProvider TimeProvider
	log          Logger
}

// NewUsecase создает новый экземпляр usecase календаря
func NewUsecase(bookingRepo BookingRepository, catalog ResourceCatalog, timeProvider TimeProvider, log Logger) *Usecase {
	return &Usecase{
		bookingRepo:  bookingRepo,
		catalog:      catalog,
		timeProvider: timeProvider,
		log:          log,
	}
}

// Execute возвращает активные бронирования ресурса за запрошенный месяц
func (uc *Usecase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация
	if req == nil || req.ResourceID <= 0 {
		return nil, fmt.Errorf("%w: resource_id must be positive", ErrInvalidInput)
	}
	if req.Month < 0 || req.Month > 12 {
		return nil, fmt.Errorf("%w: invalid month %d", ErrInvalidInput, req.Month)
	}

	// 2. Проверяем существование ресурса
	resource, err := uc.catalog.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, catalogstorage.ErrResourceNotFound) {
			return nil, fmt.Errorf("%w: resource %d", ErrResourceNotFound, req.ResourceID)
		}
		uc.log.Error("GetCalendar: failed to get resource %d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 3. Границы месяца: [первое число, первое число следующего месяца)
	year, month := req.Year, req.Month
	if year == 0 || month == 0 {
		now := uc.timeProvider.Now().UTC()
		year, month = now.Year(), now.Month()
	}
	periodFrom := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	periodTo := periodFrom.AddDate(0, 1, 0)

	// 4. Выборка активных бронирований за период
	bookings, err := uc.bookingRepo.GetByCalendar(ctx, domain.CalendarFilter{
		ResourceID:    resource.ID,
		PeriodFrom:    periodFrom,
		PeriodTo:      periodTo,
		OnlyConfirmed: req.OnlyConfirmed,
	})
	if err != nil {
		uc.log.Error("GetCalendar: failed to list bookings for resource %d: %v", resource.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	slots := make([]Slot, 0, len(bookings))
	for _, b := range bookings {
		if b.StartAt == nil || b.EndAt == nil {
			continue
		}
		slots = append(slots, Slot{
			BookingID: b.ID,
			StartAt:   *b.StartAt,
			EndAt:     *b.EndAt,
			Status:    b.Status,
		})
	}

	return &Response{
		ResourceID:   resource.ID,
		ResourceName: resource.Name,
		PeriodFrom:   periodFrom,
		PeriodTo:     periodTo,
		Slots:        slots,
	}, nil
}
