package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cercle-asbl/ASBL-BookingService/internal/domain"
	bookingRepo "github.com/cercle-asbl/ASBL-BookingService/internal/infra/storage/booking"
	catalogRepo "github.com/cercle-asbl/ASBL-BookingService/internal/infra/storage/catalog"
	"github.com/cercle-asbl/ASBL-BookingService/internal/integrations/paymentgate"
	"github.com/cercle-asbl/ASBL-BookingService/internal/service/bookings/models"
)

// Service сервис для работы с жизненным циклом бронирований
// Переходы статусов выполняются условными UPDATE в репозитории:
// конкурирующий переход получает ErrInvalidState, а не теряется молча
type Service struct {
	bookingRepo  BookingRepository
	catalog      ResourceCatalog
	payments     PaymentGate
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	catalog ResourceCatalog,
	payments PaymentGate,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		catalog:      catalog,
		payments:     payments,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Пользователь видит только своё бронирование, админ — любое
func (s *Service) GetByID(ctx context.Context, id int64, userID int64, isAdmin bool) (*models.BookingResponse, error) {
	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if booking.UserID != userID && !isAdmin {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// GetPendingApproval получает очередь заявок, ожидающих решения админа
// Отсортирована по времени создания: старые заявки первыми
func (s *Service) GetPendingApproval(ctx context.Context) (*models.BookingListResponse, error) {
	bookings, err := s.bookingRepo.GetPendingApproval(ctx)
	if err != nil {
		s.logger.Error("GetPendingApproval: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetPendingApproval - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetPendingApproval: %d bookings awaiting decision", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// Approve одобряет заявку на бронирование
// Допустим только из статуса pending_approval; бронирование переходит
// в approved и ждет оплаты пользователем
func (s *Service) Approve(ctx context.Context, bookingID int64, req *models.ApproveBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Approve: approving booking id=%d by admin=%d", bookingID, req.AdminID)

	booking, err := s.getBooking(ctx, "Approve", bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != domain.StatusPendingApproval {
		s.logger.Warn("Approve: booking id=%d has status=%s", bookingID, booking.Status)
		return nil, fmt.Errorf("%w: status %s", ErrInvalidState, booking.Status)
	}

	if err := s.bookingRepo.Approve(ctx, bookingID, req.AdminID); err != nil {
		return nil, s.mapTransitionError("Approve", bookingID, err)
	}

	s.logger.Info("Approve: booking id=%d approved by admin=%d", bookingID, req.AdminID)
	return s.fetchUpdated(ctx, "Approve", bookingID)
}

// Reject отклоняет заявку с обязательной причиной
// Отклоненная заявка освобождает слот для других пользователей
func (s *Service) Reject(ctx context.Context, bookingID int64, req *models.RejectBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Reject: rejecting booking id=%d by admin=%d", bookingID, req.AdminID)

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	if len(reason) > domain.MaxRejectionReasonLength {
		return nil, fmt.Errorf("%w: reason must not exceed %d characters",
			ErrInvalidInput, domain.MaxRejectionReasonLength)
	}

	booking, err := s.getBooking(ctx, "Reject", bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != domain.StatusPendingApproval {
		s.logger.Warn("Reject: booking id=%d has status=%s", bookingID, booking.Status)
		return nil, fmt.Errorf("%w: status %s", ErrInvalidState, booking.Status)
	}

	if err := s.bookingRepo.Reject(ctx, bookingID, req.AdminID, reason); err != nil {
		return nil, s.mapTransitionError("Reject", bookingID, err)
	}

	s.logger.Info("Reject: booking id=%d rejected by admin=%d", bookingID, req.AdminID)
	return s.fetchUpdated(ctx, "Reject", bookingID)
}

// Pay подтверждает оплату одобренного бронирования
// Платеж проверяется через шлюз до перехода approved → confirmed
func (s *Service) Pay(ctx context.Context, bookingID int64, req *models.PayBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Pay: paying booking id=%d by user=%d", bookingID, req.UserID)

	booking, err := s.getBooking(ctx, "Pay", bookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID != req.UserID {
		s.logger.Warn("Pay: access denied for user=%d to booking id=%d", req.UserID, bookingID)
		return nil, ErrAccessDenied
	}

	if booking.Status != domain.StatusApproved {
		s.logger.Warn("Pay: booking id=%d has status=%s", bookingID, booking.Status)
		return nil, fmt.Errorf("%w: status %s", ErrInvalidState, booking.Status)
	}

	// Одобрение истекает вместе с началом интервала: оплачивать прошедший
	// слот бессмысленно
	if booking.HasStarted(s.timeProvider.Now()) {
		s.logger.Warn("Pay: booking id=%d interval has already started", bookingID)
		return nil, ErrAlreadyStarted
	}

	paymentRef := strings.TrimSpace(req.PaymentRef)
	if booking.TotalPrice > 0 {
		if paymentRef == "" {
			return nil, ErrPaymentRequired
		}
		if err := s.payments.Verify(ctx, paymentRef); err != nil {
			switch {
			case errors.Is(err, paymentgate.ErrMissingPaymentRef):
				return nil, ErrPaymentRequired
			case errors.Is(err, paymentgate.ErrPaymentNotVerified):
				s.logger.Warn("Pay: payment rejected for booking id=%d: %v", bookingID, err)
				return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
			case errors.Is(err, paymentgate.ErrGateUnavailable):
				// Недоступность шлюза — неуспех оплаты: бронирование
				// остается approved, оплату можно повторить
				s.logger.Warn("Pay: payment gate unavailable for booking id=%d: %v", bookingID, err)
				return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
			default:
				s.logger.Error("Pay: payment gate error for booking id=%d: %v", bookingID, err)
				return nil, fmt.Errorf("%w: payment gate: %v", ErrInternal, err)
			}
		}
	}

	if err := s.bookingRepo.ConfirmPayment(ctx, bookingID, paymentRef); err != nil {
		return nil, s.mapTransitionError("Pay", bookingID, err)
	}

	s.logger.Info("Pay: booking id=%d confirmed", bookingID)
	return s.fetchUpdated(ctx, "Pay", bookingID)
}

// Cancel отменяет бронирование
// Пользователь может отменить только своё и только до начала интервала;
// админ — любое активное бронирование
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	booking, err := s.getBooking(ctx, "Cancel", bookingID)
	if err != nil {
		return err
	}

	if booking.UserID != req.UserID && !req.IsAdmin {
		s.logger.Warn("Cancel: access denied for user=%d to booking id=%d", req.UserID, bookingID)
		return ErrAccessDenied
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return fmt.Errorf("%w: status %s", ErrInvalidState, booking.Status)
	}

	if !req.IsAdmin {
		started, err := s.bookingStarted(ctx, booking)
		if err != nil {
			return err
		}
		if started {
			s.logger.Warn("Cancel: booking id=%d has already started", bookingID)
			return ErrAlreadyStarted
		}
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID); err != nil {
		return s.mapTransitionError("Cancel", bookingID, err)
	}

	s.logger.Info("Cancel: booking id=%d cancelled by user=%d", bookingID, req.UserID)
	return nil
}

// CheckAvailability проверяет, свободен ли слот пространства
// Результат — мгновенный снимок без блокировок: гарантию дает только
// подача заявки
func (s *Service) CheckAvailability(ctx context.Context, req *models.CheckAvailabilityRequest) (*models.AvailabilityResponse, error) {
	if !req.EndAt.After(req.StartAt) {
		return nil, fmt.Errorf("%w: endAt must be after startAt", ErrInvalidInput)
	}

	resource, err := s.catalog.GetByIDAndType(ctx, req.ResourceID, domain.ResourceSpace)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrResourceNotFound) {
			s.logger.Warn("CheckAvailability: space id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		s.logger.Error("CheckAvailability: catalog error for resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: CheckAvailability - catalog error: %v", ErrInternal, err)
	}

	exists, err := s.bookingRepo.ExistsOverlapping(ctx, resource.ID, req.StartAt, req.EndAt)
	if err != nil {
		s.logger.Error("CheckAvailability: repository error for resource id=%d: %v", resource.ID, err)
		return nil, fmt.Errorf("%w: CheckAvailability - repository error: %v", ErrInternal, err)
	}

	return &models.AvailabilityResponse{
		ResourceID: resource.ID,
		StartAt:    req.StartAt,
		EndAt:      req.EndAt,
		Available:  !exists && resource.IsBookable(),
	}, nil
}

// Вспомогательные методы

// getBooking получает бронирование, приводя ошибки репозитория к ошибкам сервиса
func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// bookingStarted проверяет, начался ли интервал бронирования
// Бронирования пространств несут интервал сами; у регистраций на события
// и сессии гардери окно хранится на ресурсе в каталоге
func (s *Service) bookingStarted(ctx context.Context, booking *domain.Booking) (bool, error) {
	now := s.timeProvider.Now()
	if booking.StartAt != nil {
		return booking.HasStarted(now), nil
	}

	resource, err := s.catalog.GetByIDAndType(ctx, booking.ResourceID, booking.ResourceType)
	if err != nil {
		s.logger.Error("Cancel: catalog error for resource id=%d: %v", booking.ResourceID, err)
		return false, fmt.Errorf("%w: Cancel - catalog error: %v", ErrInternal, err)
	}
	return resource.HasStarted(now), nil
}

// fetchUpdated перечитывает бронирование после перехода статуса
func (s *Service) fetchUpdated(ctx context.Context, op string, id int64) (*models.BookingResponse, error) {
	booking, err := s.getBooking(ctx, op, id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainBooking(booking), nil
}

// mapTransitionError приводит ошибки условных переходов к ошибкам сервиса
// Нулевое число затронутых строк означает, что конкурирующий запрос
// уже перевел бронирование в другой статус
func (s *Service) mapTransitionError(op string, id int64, err error) error {
	switch {
	case errors.Is(err, bookingRepo.ErrInvalidTransition):
		s.logger.Warn("%s: booking id=%d changed status concurrently", op, id)
		return fmt.Errorf("%w: concurrent status change", ErrInvalidState)
	case errors.Is(err, bookingRepo.ErrBookingNotFound):
		return ErrBookingNotFound
	default:
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}
