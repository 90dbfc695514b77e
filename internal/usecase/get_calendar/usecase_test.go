package get_calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cercle-asbl/ASBL-BookingService/internal/domain"
	catalogstorage "github.com/cercle-asbl/ASBL-BookingService/internal/infra/storage/catalog"
)

type fakeRepo struct {
	lastFilter domain.CalendarFilter
	bookings   []*domain.Booking
}

func (r *fakeRepo) GetByCalendar(_ context.Context, filter domain.CalendarFilter) ([]*domain.Booking, error) {
	r.lastFilter = filter
	return r.bookings, nil
}

type fakeCatalog struct {
	resource *domain.Resource
}

func (c *fakeCatalog) GetByID(_ context.Context, id int64) (*domain.Resource, error) {
	if c.resource == nil || c.resource.ID != id {
		return nil, catalogstorage.ErrResourceNotFound
	}
	return c.resource, nil
}

type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testNow = time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)

func testSpace() *domain.Resource {
	return &domain.Resource{
		ID:     1,
		Type:   domain.ResourceSpace,
		Name:   "Grande salle",
		Status: domain.ResourceStatusAvailable,
	}
}

func TestGetCalendar_MonthBounds(t *testing.T) {
	repo := &fakeRepo{}
	uc := NewUsecase(repo, &fakeCatalog{resource: testSpace()}, &fixedTime{now: testNow}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		ResourceID: 1,
		Year:       2026,
		Month:      time.September,
	})

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), resp.PeriodFrom)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), resp.PeriodTo)
	assert.Equal(t, resp.PeriodFrom, repo.lastFilter.PeriodFrom)
	assert.Equal(t, resp.PeriodTo, repo.lastFilter.PeriodTo)
}

func TestGetCalendar_DefaultsToCurrentMonth(t *testing.T) {
	repo := &fakeRepo{}
	uc := NewUsecase(repo, &fakeCatalog{resource: testSpace()}, &fixedTime{now: testNow}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{ResourceID: 1})

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), resp.PeriodFrom)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), resp.PeriodTo)
}

func TestGetCalendar_SlotsWithoutUserData(t *testing.T) {
	start := time.Date(2026, 9, 12, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	repo := &fakeRepo{bookings: []*domain.Booking{{
		ID:      5,
		UserID:  7,
		StartAt: &start,
		EndAt:   &end,
		Status:  domain.StatusConfirmed,
	}}}
	uc := NewUsecase(repo, &fakeCatalog{resource: testSpace()}, &fixedTime{now: testNow}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		ResourceID: 1,
		Year:       2026,
		Month:      time.September,
	})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, int64(5), resp.Slots[0].BookingID)
	assert.Equal(t, start, resp.Slots[0].StartAt)
}

func TestGetCalendar_OnlyConfirmedPassedToFilter(t *testing.T) {
	repo := &fakeRepo{}
	uc := NewUsecase(repo, &fakeCatalog{resource: testSpace()}, &fixedTime{now: testNow}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		ResourceID:    1,
		Year:          2026,
		Month:         time.September,
		OnlyConfirmed: true,
	})

	require.NoError(t, err)
	assert.True(t, repo.lastFilter.OnlyConfirmed)
}

func TestGetCalendar_ResourceNotFound(t *testing.T) {
	uc := NewUsecase(&fakeRepo{}, &fakeCatalog{}, &fixedTime{now: testNow}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{ResourceID: 9})
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestGetCalendar_InvalidResourceID(t *testing.T) {
	uc := NewUsecase(&fakeRepo{}, &fakeCatalog{}, &fixedTime{now: testNow}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{ResourceID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
