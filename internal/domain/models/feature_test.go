package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHorizon(t *testing.T) {
	cases := []struct {
		in    string
		label string
		off   time.Duration
	}{
		{"+0d", "+0d", 0},
		{"0d", "+0d", 0},
		{"+3d", "+3d", 72 * time.Hour},
		{"-1d", "-1d", -24 * time.Hour},
		{"+4h", "+4h", 4 * time.Hour},
		{" +1d ", "+1d", 24 * time.Hour},
	}
	for _, tc := range cases {
		h, err := ParseHorizon(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.label, h.Label, tc.in)
		assert.Equal(t, tc.off, h.Offset, tc.in)
	}
}

func TestParseHorizonRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "d", "+d", "3", "+3w", "threedays"} {
		_, err := ParseHorizon(in)
		assert.Error(t, err, in)
	}
}

func TestTimePointShiftKeepsLongitude(t *testing.T) {
	tp := NewTimePoint(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC), 114.17)
	shifted := tp.Shift(24 * time.Hour)
	assert.Equal(t, 114.17, shifted.Longitude)
	assert.Equal(t, 16, shifted.Time.Day())
	assert.False(t, shifted.Equal(tp))
	assert.True(t, tp.Equal(tp))
}

func TestSignalKeyStableAcrossZones(t *testing.T) {
	at := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	a := Signal{Symbol: "AAPL", Timestamp: at, Horizon: "+0d"}
	b := Signal{Symbol: "AAPL", Timestamp: at.In(time.FixedZone("HKT", 8*3600)), Horizon: "+0d"}
	assert.Equal(t, a.Key(), b.Key())
}
