package domain

import (
	"time"

	"github.com/cercle-asbl/ASBL-BookingService/pkg/types"
)

// ResourceType тип бронируемого ресурса
type ResourceType string

const (
	// ResourceSpace эксклюзивное пространство: одно активное бронирование
	// занимает весь ресурс на свой интервал
	ResourceSpace ResourceType = "space"

	// ResourceEvent событие с ограничением по числу участников
	ResourceEvent ResourceType = "event"

	// ResourceChildcareSession сессия гардери с ограничением по числу детей
	ResourceChildcareSession ResourceType = "childcare_session"
)

// ResourceStatus статус доступности ресурса
// Пространства используют available/unavailable, события и сессии — open/closed
type ResourceStatus string

const (
	ResourceStatusAvailable   ResourceStatus = "available"
	ResourceStatusUnavailable ResourceStatus = "unavailable"
	ResourceStatusOpen        ResourceStatus = "open"
	ResourceStatusClosed      ResourceStatus = "closed"
)

// Resource бронируемый ресурс из каталога
// Общие поля вынесены наверх, поля вариантов — опциональные
type Resource struct {
	ID     int64
	Type   ResourceType
	Name   string
	Status ResourceStatus

	// Capacity максимальное суммарное количество (участников/детей)
	// nil для эксклюзивных пространств
	Capacity *int

	// Price базовая цена пространства либо цена за единицу (участник/ребенок)
	Price float64

	// Только для пространств
	RequiresApproval bool // требуется одобрение админа (аудитории)
	HourlyPricing    bool // цена за час, иначе фиксированная за бронирование

	// Только для событий
	StartsAt           *time.Time
	EndsAt             *time.Time
	ChildcareSessionID *int64 // привязанная сессия гардери (опционально)

	// Только для сессий гардери
	SessionDate  *time.Time
	SessionStart types.TimeString
	SessionEnd   types.TimeString

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsExclusive возвращает true для ресурсов, бронируемых целиком на интервал
func (r *Resource) IsExclusive() bool {
	return r.Type == ResourceSpace
}

// IsCapacityLimited возвращает true для ресурсов с ограничением вместимости
func (r *Resource) IsCapacityLimited() bool {
	return r.Type == ResourceEvent || r.Type == ResourceChildcareSession
}

// IsBookable возвращает true, если ресурс открыт для бронирования
func (r *Resource) IsBookable() bool {
	return r.Status == ResourceStatusAvailable || r.Status == ResourceStatusOpen
}

// Window возвращает фиксированный интервал события или сессии
// Для пространств возвращает ok=false: интервал задает само бронирование
func (r *Resource) Window() (start, end time.Time, ok bool) {
	switch r.Type {
	case ResourceEvent:
		if r.StartsAt == nil || r.EndsAt == nil {
			return time.Time{}, time.Time{}, false
		}
		return *r.StartsAt, *r.EndsAt, true
	case ResourceChildcareSession:
		if r.SessionDate == nil || r.SessionStart.IsZero() || r.SessionEnd.IsZero() {
			return time.Time{}, time.Time{}, false
		}
		s, err := r.SessionStart.At(*r.SessionDate)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		e, err := r.SessionEnd.At(*r.SessionDate)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		return s, e, true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// HasStarted возвращает true, если событие/сессия уже началось
func (r *Resource) HasStarted(now time.Time) bool {
	start, _, ok := r.Window()
	if !ok {
		return false
	}
	return !start.After(now)
}
