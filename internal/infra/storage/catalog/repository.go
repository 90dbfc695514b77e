package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/cercle-asbl/ASBL-BookingService/internal/domain"
	"github.com/cercle-asbl/ASBL-BookingService/pkg/dbmetrics"
	"github.com/cercle-asbl/ASBL-BookingService/pkg/psqlbuilder"
)

// Repository read-only репозиторий каталога бронируемых ресурсов
// Каталог редактируется административно, не трафиком бронирований,
// поэтому репозиторий не предоставляет операций записи
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var resourceColumns = []string{
	"id",
	"type",
	"name",
	"status",
	"capacity",
	"price",
	"requires_approval",
	"hourly_pricing",
	"starts_at",
	"ends_at",
	"childcare_session_id",
	"session_date",
	"session_start",
	"session_end",
	"created_at",
	"updated_at",
}

// GetByID получает ресурс по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(resourceColumns...).
		From("resources").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	resource, err := scanResource(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan resource: %v", ErrScanRow, err)
	}

	return resource, nil
}

// GetByIDAndType получает ресурс по ID с проверкой типа
// Возвращает ErrResourceNotFound, если ресурс существует, но имеет другой тип
func (r *Repository) GetByIDAndType(ctx context.Context, id int64, resourceType domain.ResourceType) (*domain.Resource, error) {
	resource, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if resource.Type != resourceType {
		return nil, ErrResourceNotFound
	}
	return resource, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanResource(row rowScanner) (*domain.Resource, error) {
	var resource domain.Resource
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&resource.ID,
		&resource.Type,
		&resource.Name,
		&resource.Status,
		&resource.Capacity,
		&resource.Price,
		&resource.RequiresApproval,
		&resource.HourlyPricing,
		&resource.StartsAt,
		&resource.EndsAt,
		&resource.ChildcareSessionID,
		&resource.SessionDate,
		&resource.SessionStart,
		&resource.SessionEnd,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	resource.CreatedAt = createdAt.Time
	resource.UpdatedAt = updatedAt.Time

	return &resource, nil
}
