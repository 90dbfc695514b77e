package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func interval(startHour, endHour int) (time.Time, time.Time) {
	day := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	return day.Add(time.Duration(startHour) * time.Hour), day.Add(time.Duration(endHour) * time.Hour)
}

func bookingAt(startHour, endHour int, status BookingStatus) *Booking {
	start, end := interval(startHour, endHour)
	return &Booking{
		StartAt: &start,
		EndAt:   &end,
		Status:  status,
	}
}

func TestOverlaps_Intersecting(t *testing.T) {
	b := bookingAt(10, 12, StatusConfirmed)

	start, end := interval(11, 13)
	assert.True(t, b.Overlaps(start, end))

	start, end = interval(9, 11)
	assert.True(t, b.Overlaps(start, end))

	// Полностью внутри
	start, end = interval(10, 11)
	assert.True(t, b.Overlaps(start, end))

	// Полностью накрывает
	start, end = interval(9, 13)
	assert.True(t, b.Overlaps(start, end))
}

func TestOverlaps_TouchingIntervalsDoNotConflict(t *testing.T) {
	b := bookingAt(10, 12, StatusConfirmed)

	// Начало нового равно концу существующего
	start, end := interval(12, 14)
	assert.False(t, b.Overlaps(start, end))

	// Конец нового равен началу существующего
	start, end = interval(8, 10)
	assert.False(t, b.Overlaps(start, end))
}

func TestOverlaps_Disjoint(t *testing.T) {
	b := bookingAt(10, 12, StatusConfirmed)

	start, end := interval(14, 16)
	assert.False(t, b.Overlaps(start, end))
}

func TestOverlaps_NoIntervalMeansNoOverlap(t *testing.T) {
	// Регистрации на события не имеют собственного интервала
	b := &Booking{Status: StatusConfirmed}

	start, end := interval(10, 12)
	assert.False(t, b.Overlaps(start, end))
}

func TestIsActive_SoftLockStatuses(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusPendingApproval}).IsActive())
	assert.True(t, (&Booking{Status: StatusApproved}).IsActive())
	assert.True(t, (&Booking{Status: StatusConfirmed}).IsActive())
}

func TestIsActive_ReleasedStatuses(t *testing.T) {
	assert.False(t, (&Booking{Status: StatusCancelled}).IsActive())
	assert.False(t, (&Booking{Status: StatusRejected}).IsActive())
}

func TestCanBeCancelled(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusPendingApproval}).CanBeCancelled())
	assert.True(t, (&Booking{Status: StatusApproved}).CanBeCancelled())
	assert.True(t, (&Booking{Status: StatusConfirmed}).CanBeCancelled())
	assert.False(t, (&Booking{Status: StatusCancelled}).CanBeCancelled())
	assert.False(t, (&Booking{Status: StatusRejected}).CanBeCancelled())
}

func TestHasStarted(t *testing.T) {
	b := bookingAt(10, 12, StatusConfirmed)

	before := time.Date(2026, 9, 12, 9, 59, 0, 0, time.UTC)
	atStart := time.Date(2026, 9, 12, 10, 0, 0, 0, time.UTC)
	after := time.Date(2026, 9, 12, 11, 0, 0, 0, time.UTC)

	assert.False(t, b.HasStarted(before))
	assert.True(t, b.HasStarted(atStart))
	assert.True(t, b.HasStarted(after))
}

func TestResourceWindow_Event(t *testing.T) {
	start, end := interval(18, 21)
	r := &Resource{
		Type:     ResourceEvent,
		StartsAt: &start,
		EndsAt:   &end,
	}

	gotStart, gotEnd, ok := r.Window()
	assert.True(t, ok)
	assert.Equal(t, start, gotStart)
	assert.Equal(t, end, gotEnd)
}

func TestResourceWindow_SpaceHasNoWindow(t *testing.T) {
	r := &Resource{Type: ResourceSpace}

	_, _, ok := r.Window()
	assert.False(t, ok)
}

func TestResourceIsBookable(t *testing.T) {
	assert.True(t, (&Resource{Status: ResourceStatusAvailable}).IsBookable())
	assert.True(t, (&Resource{Status: ResourceStatusOpen}).IsBookable())
	assert.False(t, (&Resource{Status: ResourceStatusUnavailable}).IsBookable())
	assert.False(t, (&Resource{Status: ResourceStatusClosed}).IsBookable())
}
