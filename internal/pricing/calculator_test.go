package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cercle-asbl/ASBL-BookingService/internal/domain"
	"github.com/cercle-asbl/ASBL-BookingService/pkg/ptr"
)

func space(price float64, hourly bool) *domain.Resource {
	return &domain.Resource{
		ID:            1,
		Type:          domain.ResourceSpace,
		Name:          "Grande salle",
		Status:        domain.ResourceStatusAvailable,
		Price:         price,
		HourlyPricing: hourly,
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 9, 12, hour, minute, 0, 0, time.UTC)
}

func TestForSpace_HourlyExactHours(t *testing.T) {
	price, err := ForSpace(space(25, true), at(10, 0), at(13, 0))

	require.NoError(t, err)
	assert.Equal(t, 75.0, price)
}

func TestForSpace_HourlyRoundsUpStartedHour(t *testing.T) {
	// 2.5 часа тарифицируются как 3
	price, err := ForSpace(space(25, true), at(10, 0), at(12, 30))

	require.NoError(t, err)
	assert.Equal(t, 75.0, price)
}

func TestForSpace_HourlyMinimumOneHour(t *testing.T) {
	price, err := ForSpace(space(25, true), at(10, 0), at(10, 15))

	require.NoError(t, err)
	assert.Equal(t, 25.0, price)
}

func TestForSpace_FlatIgnoresDuration(t *testing.T) {
	short, err := ForSpace(space(100, false), at(10, 0), at(11, 0))
	require.NoError(t, err)

	long, err := ForSpace(space(100, false), at(10, 0), at(20, 0))
	require.NoError(t, err)

	assert.Equal(t, 100.0, short)
	assert.Equal(t, short, long)
}

func TestForSpace_Deterministic(t *testing.T) {
	first, err := ForSpace(space(30, true), at(9, 0), at(11, 45))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		price, err := ForSpace(space(30, true), at(9, 0), at(11, 45))
		require.NoError(t, err)
		assert.Equal(t, first, price)
	}
}

func TestForSpace_InvalidInterval(t *testing.T) {
	_, err := ForSpace(space(25, true), at(12, 0), at(10, 0))
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = ForSpace(space(25, true), at(12, 0), at(12, 0))
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestForSpace_WrongResourceType(t *testing.T) {
	event := &domain.Resource{Type: domain.ResourceEvent, Price: 10}

	_, err := ForSpace(event, at(10, 0), at(12, 0))
	assert.ErrorIs(t, err, ErrWrongResourceType)
}

func TestPerUnit_MultipliesByQuantity(t *testing.T) {
	event := &domain.Resource{
		Type:     domain.ResourceEvent,
		Capacity: ptr.Ptr(50),
		Price:    12.5,
	}

	price, err := PerUnit(event, 4)

	require.NoError(t, err)
	assert.Equal(t, 50.0, price)
}

func TestPerUnit_FreeEvent(t *testing.T) {
	event := &domain.Resource{
		Type:     domain.ResourceEvent,
		Capacity: ptr.Ptr(50),
		Price:    0,
	}

	price, err := PerUnit(event, 3)

	require.NoError(t, err)
	assert.Equal(t, 0.0, price)
}

func TestPerUnit_InvalidQuantity(t *testing.T) {
	event := &domain.Resource{Type: domain.ResourceEvent, Price: 10}

	_, err := PerUnit(event, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = PerUnit(event, -2)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestPerUnit_WrongResourceType(t *testing.T) {
	_, err := PerUnit(space(25, true), 2)
	assert.ErrorIs(t, err, ErrWrongResourceType)
}

func TestMatches_WithinTolerance(t *testing.T) {
	assert.True(t, Matches(75.0, 75.0))
	assert.True(t, Matches(75.004, 75.0))
	assert.True(t, Matches(74.996, 75.0))
}

func TestMatches_OutsideTolerance(t *testing.T) {
	assert.False(t, Matches(75.01, 75.0))
	assert.False(t, Matches(70.0, 75.0))
	assert.False(t, Matches(0, 75.0))
}
