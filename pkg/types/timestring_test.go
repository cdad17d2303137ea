package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"09:00", false},
		{"00:00", false},
		{"23:59", false},
		{"24:00", true},
		{"9:00", true},
		{"09:60", true},
		{"", true},
		{"mediodía", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			ts, err := NewTimeStringFromString(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.in, ts.String())
		})
	}
}

func TestTimeStringOrdering(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("09:30"))
	assert.True(t, TimeString("09:30").IsAfter("09:00"))
	assert.False(t, TimeString("09:00").IsBefore("09:00"))
	assert.False(t, TimeString("09:00").IsAfter("09:00"))

	// The zero value sorts before every valid time, so it works as an
	// "no lower bound" sentinel.
	assert.False(t, TimeString("00:00").IsBefore(""))
}

func TestAddMinutes(t *testing.T) {
	got, err := TimeString("09:00").AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:30"), got)

	got, err = TimeString("23:00").AddMinutes(59)
	require.NoError(t, err)
	assert.Equal(t, TimeString("23:59"), got)

	// A working day never wraps past midnight.
	_, err = TimeString("23:30").AddMinutes(31)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)

	_, err = TimeString("bogus").AddMinutes(10)
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTotalMinutes(t *testing.T) {
	assert.Equal(t, 0, TimeString("00:00").TotalMinutes())
	assert.Equal(t, 570, TimeString("09:30").TotalMinutes())
	assert.Equal(t, 1439, TimeString("23:59").TotalMinutes())
	assert.Equal(t, 0, TimeString("nope").TotalMinutes())
}

func TestMinutesUntil(t *testing.T) {
	got, err := TimeString("09:00").MinutesUntil("10:30")
	require.NoError(t, err)
	assert.Equal(t, 90, got)

	got, err = TimeString("10:30").MinutesUntil("09:00")
	require.NoError(t, err)
	assert.Equal(t, -90, got)
}

func TestScan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("09:30:00"))
	assert.Equal(t, TimeString("09:30"), ts)

	require.NoError(t, ts.Scan([]byte("14:45")))
	assert.Equal(t, TimeString("14:45"), ts)

	require.NoError(t, ts.Scan(time.Date(2026, 3, 1, 18, 15, 42, 0, time.UTC)))
	assert.Equal(t, TimeString("18:15"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}
