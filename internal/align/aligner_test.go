package align

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GFQuant/internal/domain/models"
)

func bar(ts time.Time, close float64) models.MarketBar {
	return models.MarketBar{Symbol: "AAPL", Timestamp: ts, Close: close}
}

func row(horizon string, ts time.Time) models.FeatureRow {
	return models.FeatureRow{
		TimePoint: models.NewTimePoint(ts, 114.17),
		Horizon:   horizon,
	}
}

func TestAlignPicksLatestNonFutureRow(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC) }

	res := Align(
		[]models.MarketBar{bar(day(10), 100)},
		[]models.FeatureRow{
			row("+0d", day(5)),
			row("+0d", day(9)),
			row("+0d", day(11)), // future, must not be chosen
		},
	)

	require.Len(t, res.Rows, 1)
	assert.Empty(t, res.Gaps)
	f, ok := res.Rows[0].Feature("+0d")
	require.True(t, ok)
	assert.Equal(t, day(9), f.TimePoint.Time)
}

// A feature row at exactly the bar timestamp is eligible.
func TestAlignInclusiveOnExactMatch(t *testing.T) {
	at := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	res := Align(
		[]models.MarketBar{bar(at, 100)},
		[]models.FeatureRow{row("+0d", at)},
	)

	require.Len(t, res.Rows, 1)
	f, ok := res.Rows[0].Feature("+0d")
	require.True(t, ok)
	assert.True(t, f.TimePoint.Time.Equal(at))
}

func TestAlignRecordsGapPerMissingHorizon(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC) }

	res := Align(
		[]models.MarketBar{bar(day(10), 100)},
		[]models.FeatureRow{
			row("+0d", day(9)),
			row("+7d", day(11)), // only future rows for this horizon
		},
	)

	require.Len(t, res.Rows, 1)
	_, ok := res.Rows[0].Feature("+7d")
	assert.False(t, ok)

	require.Len(t, res.Gaps, 1)
	assert.Equal(t, "+7d", res.Gaps[0].Horizon)
	assert.Equal(t, "AAPL", res.Gaps[0].Symbol)
	assert.Equal(t, day(10), res.Gaps[0].Timestamp)
}

// A bar with no aligned horizon at all is dropped but every gap is kept.
func TestAlignDropsBarWithNoFeatures(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC) }

	res := Align(
		[]models.MarketBar{bar(day(1), 100)},
		[]models.FeatureRow{
			row("+0d", day(5)),
			row("+1d", day(5)),
		},
	)

	assert.Empty(t, res.Rows)
	assert.Len(t, res.Gaps, 2)
}

func TestAlignOutputAscendingByBarTime(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC) }

	res := Align(
		[]models.MarketBar{bar(day(12), 3), bar(day(10), 1), bar(day(11), 2)},
		[]models.FeatureRow{row("+0d", day(1))},
	)

	require.Len(t, res.Rows, 3)
	for i := 1; i < len(res.Rows); i++ {
		assert.True(t, res.Rows[i-1].Bar.Timestamp.Before(res.Rows[i].Bar.Timestamp))
	}
}

func TestAlignEmptyInputs(t *testing.T) {
	res := Align(nil, nil)
	assert.Empty(t, res.Rows)
	assert.Empty(t, res.Gaps)

	res = Align(nil, []models.FeatureRow{row("+0d", time.Now())})
	assert.Empty(t, res.Rows)
}
