package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("09:30")

	require.NoError(t, err)
	assert.Equal(t, "09:30", ts.String())
}

func TestNewTimeStringFromString_Invalid(t *testing.T) {
	_, err := NewTimeStringFromString("25:00")
	assert.ErrorIs(t, err, ErrInvalidTimeString)

	_, err = NewTimeStringFromString("9h30")
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_At(t *testing.T) {
	ts, err := NewTimeStringFromString("14:45")
	require.NoError(t, err)

	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	got, err := ts.At(date)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 12, 14, 45, 0, 0, time.UTC), got)
}

func TestTimeString_IsBefore(t *testing.T) {
	morning, _ := NewTimeStringFromString("09:00")
	evening, _ := NewTimeStringFromString("18:00")

	assert.True(t, morning.IsBefore(evening))
	assert.False(t, evening.IsBefore(morning))
}

func TestTimeString_ScanTrimsSeconds(t *testing.T) {
	var ts TimeString
	require.NoError(t, ts.Scan("10:15:00"))
	assert.Equal(t, "10:15", ts.String())
}

func TestTimeString_JSONRoundTrip(t *testing.T) {
	ts, _ := NewTimeStringFromString("08:05")

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"08:05"`, string(data))

	var decoded TimeString
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, ts, decoded)
}

func TestTimeString_IsZero(t *testing.T) {
	var zero TimeString
	assert.True(t, zero.IsZero())

	ts, _ := NewTimeStringFromString("00:00")
	assert.False(t, ts.IsZero())
}
