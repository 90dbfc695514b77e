package submit_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cercle-asbl/ASBL-BookingService/internal/domain"
	bookingstorage "github.com/cercle-asbl/ASBL-BookingService/internal/infra/storage/booking"
	catalogstorage "github.com/cercle-asbl/ASBL-BookingService/internal/infra/storage/catalog"
	"github.com/cercle-asbl/ASBL-BookingService/internal/integrations/paymentgate"
	"github.com/cercle-asbl/ASBL-BookingService/internal/pricing"
)

// Usecase принимает заявки на бронирование
// Критическая секция (проверка пересечений/вместимости + вставка)
// выполняется одной serializable-транзакцией: два конкурирующих запроса
// на один слот не могут пройти проверку одновременно
type Usecase struct {
	bookingRepo  BookingRepository
	catalog      ResourceCatalog
	payments     PaymentGate
	txManager    TransactionManager
	timeProvider TimeProvider
	log          Logger
}

// NewUsecase создает новый экземпляр usecase подачи заявки
func NewUsecase(
	bookingRepo BookingRepository,
	catalog ResourceCatalog,
	payments PaymentGate,
	txManager TransactionManager,
	timeProvider TimeProvider,
	log Logger,
) *Usecase {
	return &Usecase{
		bookingRepo:  bookingRepo,
		catalog:      catalog,
		payments:     payments,
		txManager:    txManager,
		timeProvider: timeProvider,
		log:          log,
	}
}

// Execute обрабатывает заявку на бронирование
//
// Поток: валидация → каталог → расчет и сверка цены → быстрая проверка
// пересечений/вместимости без блокировок → платеж (вне транзакции) →
// serializable-транзакция {повторная проверка по снимку FOR UPDATE, вставка}
func (uc *Usecase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация структуры запроса
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Получаем ресурс из каталога
	resource, err := uc.catalog.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, catalogstorage.ErrResourceNotFound) {
			return nil, fmt.Errorf("%w: resource %d", ErrResourceNotFound, req.ResourceID)
		}
		uc.log.Error("SubmitBooking: failed to get resource %d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 3. Ресурс должен быть открыт для бронирования
	if !resource.IsBookable() {
		return nil, fmt.Errorf("%w: resource %d has status %s",
			ErrResourceUnavailable, resource.ID, resource.Status)
	}

	// 4. Типоспецифичные проверки и расчет цены
	booking, err := uc.prepareBooking(req, resource, now)
	if err != nil {
		return nil, err
	}

	// 5. Опциональная гардери к событию: валидируем до платежа,
	// чтобы не списывать деньги за невозможную заявку
	var childcare *childcareDraft
	if req.AddChildcare {
		childcare, err = uc.prepareChildcare(ctx, req, resource, now)
		if err != nil {
			return nil, err
		}
	}

	// 6. Предварительная проверка пересечений/вместимости без блокировок:
	// заведомо проигрышная заявка отклоняется до обращения к платежному
	// шлюзу. Решающая проверка все равно выполнится в транзакции
	if err := uc.admit(ctx, resource, booking); err != nil {
		return nil, uc.mapAdmissionError(err, resource)
	}
	if childcare != nil {
		if err := uc.admit(ctx, childcare.session, childcare.booking); err != nil {
			return nil, uc.mapAdmissionError(err, childcare.session)
		}
	}

	// 7. Определяем начальный статус и проверяем платеж
	// Платеж проверяется до открытия транзакции: внешний вызов
	// внутри serializable-транзакции держал бы блокировки на время
	// сетевого запроса
	totalDue := booking.TotalPrice
	if childcare != nil {
		totalDue += childcare.booking.TotalPrice
	}

	switch {
	case resource.Type == domain.ResourceSpace && resource.RequiresApproval:
		// Одобряемые пространства: оплата после решения админа
		booking.Status = domain.StatusPendingApproval
	case totalDue > 0:
		if err := uc.verifyPayment(ctx, req.PaymentRef); err != nil {
			return nil, err
		}
		booking.Status = domain.StatusConfirmed
		booking.PaymentRef = req.PaymentRef
	default:
		// Бесплатные заявки подтверждаются сразу
		booking.Status = domain.StatusConfirmed
	}
	if childcare != nil {
		childcare.booking.Status = booking.Status
		childcare.booking.PaymentRef = booking.PaymentRef
	}

	// 8. Критическая секция: проверка и вставка одной транзакцией
	var created, createdChildcare *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.admit(txCtx, resource, booking); err != nil {
			return err
		}

		var txErr error
		created, txErr = uc.bookingRepo.Create(txCtx, booking)
		if txErr != nil {
			return txErr
		}

		if childcare != nil {
			if err := uc.admit(txCtx, childcare.session, childcare.booking); err != nil {
				return err
			}
			createdChildcare, txErr = uc.bookingRepo.Create(txCtx, childcare.booking)
			if txErr != nil {
				return txErr
			}
		}
		return nil
	})
	if err != nil {
		return nil, uc.mapAdmissionError(err, resource)
	}

	uc.log.Info("SubmitBooking: booking %d created for user %d, resource %d (%s), status %s",
		created.ID, created.UserID, created.ResourceID, created.ResourceType, created.Status)

	resp := &Response{
		BookingID:    created.ID,
		ResourceID:   created.ResourceID,
		ResourceName: created.ResourceName,
		Status:       created.Status,
		TotalPrice:   created.TotalPrice,
		CreatedAt:    created.CreatedAt,
	}
	if createdChildcare != nil {
		resp.Childcare = &ChildcareData{
			BookingID:  createdChildcare.ID,
			SessionID:  createdChildcare.ResourceID,
			Children:   createdChildcare.Quantity,
			TotalPrice: createdChildcare.TotalPrice,
		}
	}
	return resp, nil
}

// childcareDraft подготовленное, но еще не вставленное бронирование гардери
type childcareDraft struct {
	session *domain.Resource
	booking *domain.Booking
}

// prepareBooking выполняет типоспецифичные проверки и собирает
// черновик бронирования с рассчитанной ценой
func (uc *Usecase) prepareBooking(req *Request, resource *domain.Resource, now time.Time) (*domain.Booking, error) {
	booking := &domain.Booking{
		UserID:       req.UserID,
		ResourceID:   resource.ID,
		ResourceType: resource.Type,
		ResourceName: resource.Name,
		UnitPrice:    resource.Price,
	}

	switch resource.Type {
	case domain.ResourceSpace:
		if err := validateSpaceInterval(req, now); err != nil {
			return nil, err
		}
		price, err := pricing.ForSpace(resource, *req.StartAt, *req.EndAt)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		booking.StartAt = req.StartAt
		booking.EndAt = req.EndAt
		booking.Quantity = 1
		booking.TotalPrice = price

	case domain.ResourceEvent, domain.ResourceChildcareSession:
		if err := validateQuantity(req.Quantity); err != nil {
			return nil, err
		}
		if resource.HasStarted(now) {
			return nil, fmt.Errorf("%w: resource %d", ErrResourceStarted, resource.ID)
		}
		price, err := pricing.PerUnit(resource, req.Quantity)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		booking.Quantity = req.Quantity
		booking.TotalPrice = price

	default:
		return nil, fmt.Errorf("%w: unknown resource type %s", ErrInternal, resource.Type)
	}

	// Сверяем цену, подтвержденную клиентом, с расчетом сервера
	if !pricing.Matches(req.DeclaredPrice, booking.TotalPrice) {
		uc.log.Warn("SubmitBooking: price mismatch for resource %d: declared %.2f, computed %.2f",
			resource.ID, req.DeclaredPrice, booking.TotalPrice)
		return nil, fmt.Errorf("%w: declared %.2f, expected %.2f",
			ErrPriceMismatch, req.DeclaredPrice, booking.TotalPrice)
	}

	return booking, nil
}

// prepareChildcare собирает черновик бронирования привязанной сессии гардери
func (uc *Usecase) prepareChildcare(ctx context.Context, req *Request, event *domain.Resource, now time.Time) (*childcareDraft, error) {
	if event.Type != domain.ResourceEvent || event.ChildcareSessionID == nil {
		return nil, fmt.Errorf("%w: resource %d has no attached childcare session",
			ErrChildcareUnavailable, event.ID)
	}

	session, err := uc.catalog.GetByIDAndType(ctx, *event.ChildcareSessionID, domain.ResourceChildcareSession)
	if err != nil {
		if errors.Is(err, catalogstorage.ErrResourceNotFound) {
			return nil, fmt.Errorf("%w: session %d not found",
				ErrChildcareUnavailable, *event.ChildcareSessionID)
		}
		uc.log.Error("SubmitBooking: failed to get childcare session %d: %v",
			*event.ChildcareSessionID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if !session.IsBookable() {
		return nil, fmt.Errorf("%w: session %d has status %s",
			ErrChildcareUnavailable, session.ID, session.Status)
	}
	if session.HasStarted(now) {
		return nil, fmt.Errorf("%w: session %d", ErrResourceStarted, session.ID)
	}

	price, err := pricing.PerUnit(session, req.NumberOfChildren)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !pricing.Matches(req.DeclaredChildcarePrice, price) {
		return nil, fmt.Errorf("%w: childcare declared %.2f, expected %.2f",
			ErrPriceMismatch, req.DeclaredChildcarePrice, price)
	}

	return &childcareDraft{
		session: session,
		booking: &domain.Booking{
			UserID:       req.UserID,
			ResourceID:   session.ID,
			ResourceType: session.Type,
			ResourceName: session.Name,
			UnitPrice:    session.Price,
			Quantity:     req.NumberOfChildren,
			TotalPrice:   price,
		},
	}, nil
}

// verifyPayment проверяет платеж через шлюз и приводит его ошибки
// к ошибкам usecase
func (uc *Usecase) verifyPayment(ctx context.Context, paymentRef *string) error {
	if paymentRef == nil || *paymentRef == "" {
		return ErrPaymentRequired
	}

	err := uc.payments.Verify(ctx, *paymentRef)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, paymentgate.ErrMissingPaymentRef):
		return ErrPaymentRequired
	case errors.Is(err, paymentgate.ErrPaymentNotVerified):
		return fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	case errors.Is(err, paymentgate.ErrGateUnavailable):
		// Недоступность шлюза — неуспех оплаты, не фатальная ошибка:
		// заявка остается неподтвержденной, пользователь может повторить
		uc.log.Warn("SubmitBooking: payment gate unavailable for ref %s: %v", *paymentRef, err)
		return fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	default:
		uc.log.Error("SubmitBooking: payment gate error for ref %s: %v", *paymentRef, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

// admit проверяет, что бронирование проходит по пересечениям
// и вместимости относительно снимка активных бронирований ресурса
// Внутри транзакции снимок берется FOR UPDATE, вне — обычным чтением
func (uc *Usecase) admit(txCtx context.Context, resource *domain.Resource, booking *domain.Booking) error {
	active, err := uc.bookingRepo.GetActiveByResource(txCtx, resource.ID)
	if err != nil {
		return err
	}

	if resource.IsExclusive() {
		for _, existing := range active {
			if existing.Overlaps(*booking.StartAt, *booking.EndAt) {
				return fmt.Errorf("%w: resource %d, interval [%s, %s)",
					ErrConflict, resource.ID,
					booking.StartAt.Format(time.RFC3339),
					booking.EndAt.Format(time.RFC3339))
			}
		}
		return nil
	}

	// Capacity == nil означает неограниченную вместимость
	if resource.Capacity == nil {
		return nil
	}
	committed := 0
	for _, existing := range active {
		committed += existing.Quantity
	}
	if committed+booking.Quantity > *resource.Capacity {
		return capacityExceededError(*resource.Capacity - committed)
	}
	return nil
}

// mapAdmissionError приводит ошибки транзакции к ошибкам usecase
// Нарушение EXCLUDE-ограничения в БД — тот же конфликт слота, что и
// проверка пересечений: ограничение страхует от обхода критической секции
func (uc *Usecase) mapAdmissionError(err error, resource *domain.Resource) error {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, ErrCapacityExceeded):
		uc.log.Info("SubmitBooking: admission rejected for resource %d: %v", resource.ID, err)
		return err
	case errors.Is(err, bookingstorage.ErrOverlapConstraint):
		uc.log.Warn("SubmitBooking: exclusion constraint hit for resource %d: %v", resource.ID, err)
		return fmt.Errorf("%w: %v", ErrConflict, err)
	default:
		uc.log.Error("SubmitBooking: transaction failed for resource %d: %v", resource.ID, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
