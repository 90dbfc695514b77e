package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/cercle-asbl/ASBL-BookingService/internal/domain"
	"github.com/cercle-asbl/ASBL-BookingService/pkg/dbmetrics"
	"github.com/cercle-asbl/ASBL-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var bookingColumns = []string{
	"id",
	"user_id",
	"resource_id",
	"resource_type",
	"start_at",
	"end_at",
	"quantity",
	"total_price",
	"payment_ref",
	"status",
	"resource_name",
	"unit_price",
	"approved_by",
	"approved_at",
	"rejection_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её —
// проверка допуска и вставка обязаны выполняться в одной транзакции
// (см. usecase submit_booking)
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"user_id",
			"resource_id",
			"resource_type",
			"start_at",
			"end_at",
			"quantity",
			"total_price",
			"payment_ref",
			"status",
			"resource_name",
			"unit_price",
			"rejection_reason",
		).
		Values(
			booking.UserID,
			booking.ResourceID,
			booking.ResourceType,
			booking.StartAt,
			booking.EndAt,
			booking.Quantity,
			booking.TotalPrice,
			booking.PaymentRef,
			booking.Status,
			booking.ResourceName,
			booking.UnitPrice,
			booking.RejectionReason,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isExclusionViolation(err) {
			return nil, ErrOverlapConstraint
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetActiveByResource получает активные бронирования ресурса
// (pending_approval, approved, confirmed)
// Внутри транзакции добавляет FOR UPDATE: снимок блокируется до коммита,
// это часть атомарной последовательности "проверка допуска + вставка"
func (r *Repository) GetActiveByResource(ctx context.Context, resourceID int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	activeStatuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		activeStatuses[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"resource_id": resourceID}).
		Where(squirrel.Eq{"status": activeStatuses}).
		OrderBy("start_at ASC NULLS LAST, id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByResource - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByResource - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ExistsOverlapping проверяет существование активного бронирования ресурса,
// пересекающегося с полуоткрытым интервалом [start, end)
// Используется для публичной проверки доступности (без блокировки)
func (r *Repository) ExistsOverlapping(ctx context.Context, resourceID int64, start, end time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	inactiveStatuses := make([]string, len(domain.InactiveStatuses))
	for i, s := range domain.InactiveStatuses {
		inactiveStatuses[i] = string(s)
	}

	query, args, err := psqlbuilder.Select("COUNT(*) > 0").
		From("bookings").
		Where(squirrel.Eq{"resource_id": resourceID}).
		Where(squirrel.NotEq{"status": inactiveStatuses}).
		Where(squirrel.Lt{"start_at": end}).
		Where(squirrel.Gt{"end_at": start}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: ExistsOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: ExistsOverlapping - scan result: %v", ErrScanRow, err)
	}

	return exists, nil
}

// GetByUserID получает список бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByCalendar получает бронирования ресурса за период для календаря
// Активные бронирования пространств сортируются по началу интервала
func (r *Repository) GetByCalendar(ctx context.Context, filter domain.CalendarFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"resource_id": filter.ResourceID}).
		Where(squirrel.Lt{"start_at": filter.PeriodTo}).
		Where(squirrel.Gt{"end_at": filter.PeriodFrom}).
		OrderBy("start_at ASC")

	if filter.OnlyConfirmed {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": domain.StatusConfirmed})
	} else {
		inactiveStatuses := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactiveStatuses[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactiveStatuses})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCalendar - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCalendar - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetPendingApproval получает очередь бронирований, ожидающих одобрения
func (r *Repository) GetPendingApproval(ctx context.Context) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"status": domain.StatusPendingApproval}).
		OrderBy("created_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetPendingApproval - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetPendingApproval - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// Approve переводит бронирование pending_approval -> approved
// Условный UPDATE: конкурирующие переходы на одном бронировании
// не могут сработать дважды
func (r *Repository) Approve(ctx context.Context, id int64, approverID int64) error {
	return r.conditionalUpdate(ctx, "Approve",
		psqlbuilder.Update("bookings").
			Set("status", domain.StatusApproved).
			Set("approved_by", approverID).
			Set("approved_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": id}).
			Where(squirrel.Eq{"status": domain.StatusPendingApproval}),
	)
}

// Reject переводит бронирование pending_approval -> rejected с причиной
func (r *Repository) Reject(ctx context.Context, id int64, approverID int64, reason string) error {
	return r.conditionalUpdate(ctx, "Reject",
		psqlbuilder.Update("bookings").
			Set("status", domain.StatusRejected).
			Set("rejection_reason", reason).
			Set("approved_by", approverID).
			Set("approved_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": id}).
			Where(squirrel.Eq{"status": domain.StatusPendingApproval}),
	)
}

// ConfirmPayment переводит бронирование approved -> confirmed
// с сохранением ссылки на платеж
func (r *Repository) ConfirmPayment(ctx context.Context, id int64, paymentRef string) error {
	return r.conditionalUpdate(ctx, "ConfirmPayment",
		psqlbuilder.Update("bookings").
			Set("status", domain.StatusConfirmed).
			Set("payment_ref", paymentRef).
			Where(squirrel.Eq{"id": id}).
			Where(squirrel.Eq{"status": domain.StatusApproved}),
	)
}

// Cancel переводит активное бронирование в cancelled
// Отмена уже отмененного бронирования не затрагивает строк и
// возвращает ErrInvalidTransition
func (r *Repository) Cancel(ctx context.Context, id int64) error {
	activeStatuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		activeStatuses[i] = string(s)
	}

	return r.conditionalUpdate(ctx, "Cancel",
		psqlbuilder.Update("bookings").
			Set("status", domain.StatusCancelled).
			Set("cancelled_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": id}).
			Where(squirrel.Eq{"status": activeStatuses}),
	)
}

// conditionalUpdate выполняет условный UPDATE перехода статуса
// 0 затронутых строк означает, что бронирование не существует либо
// уже не в требуемом статусе — различает вызывающий код через GetByID
func (r *Repository) conditionalUpdate(ctx context.Context, op string, builder squirrel.UpdateBuilder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrInvalidTransition
	}

	return nil
}

// scanBooking сканирует одну строку в бронирование
func scanBooking(row interface{ Scan(...interface{}) error }) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ResourceID,
		&booking.ResourceType,
		&booking.StartAt,
		&booking.EndAt,
		&booking.Quantity,
		&booking.TotalPrice,
		&booking.PaymentRef,
		&booking.Status,
		&booking.ResourceName,
		&booking.UnitPrice,
		&booking.ApprovedBy,
		&booking.ApprovedAt,
		&booking.RejectionReason,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// isExclusionViolation проверяет нарушение exclusion constraint (23P01)
func isExclusionViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23P01"
	}
	return false
}
