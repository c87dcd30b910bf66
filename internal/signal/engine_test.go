package signal

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GFQuant/internal/domain/models"
)

// fixedScorer returns a constant strength regardless of input.
type fixedScorer struct {
	strength float64
	err      error
}

func (s fixedScorer) Name() string { return "fixed" }

func (s fixedScorer) Score(context.Context, models.AlignedRow, string) (float64, error) {
	return s.strength, s.err
}

func alignedBar(symbol string, ts time.Time, close float64, horizons ...string) models.AlignedRow {
	features := make(map[string]models.FeatureRow, len(horizons))
	for _, h := range horizons {
		features[h] = models.FeatureRow{
			TimePoint: models.NewTimePoint(ts, 114.17),
			Horizon:   h,
		}
	}
	return models.AlignedRow{
		Bar:      models.MarketBar{Symbol: symbol, Timestamp: ts, Close: close},
		Features: features,
	}
}

func TestNewEngineRejectsInvertedThresholds(t *testing.T) {
	_, err := NewEngine(1.0, 1.0)
	assert.Error(t, err)

	_, err = NewEngine(-1.0, 1.0)
	assert.Error(t, err)

	_, err = NewEngine(1.0, -1.0)
	assert.NoError(t, err)
}

func TestDecideThresholdBands(t *testing.T) {
	e, err := NewEngine(1.0, -1.0)
	require.NoError(t, err)

	row := alignedBar("AAPL", time.Now(), 100, "+0d")

	cases := []struct {
		strength float64
		want     models.Decision
	}{
		{2.0, models.Buy},
		{1.0, models.Buy}, // boundary is inclusive
		{0.999, models.Hold},
		{0, models.Hold},
		{-0.999, models.Hold},
		{-1.0, models.Sell},
		{-2.0, models.Sell},
	}
	for _, tc := range cases {
		s, err := e.Decide(context.Background(), row, "+0d", fixedScorer{strength: tc.strength})
		require.NoError(t, err)
		assert.Equal(t, tc.want, s.Decision, "strength %v", tc.strength)
		assert.Equal(t, tc.strength, s.Strength)
		assert.Equal(t, "fixed", s.Scorer)
	}
}

func TestDecidePropagatesScorerError(t *testing.T) {
	e, err := NewEngine(1.0, -1.0)
	require.NoError(t, err)

	row := alignedBar("AAPL", time.Now(), 100, "+0d")
	_, err = e.Decide(context.Background(), row, "+0d", fixedScorer{err: fmt.Errorf("boom")})
	assert.Error(t, err)
}

func TestDecideAllEmitsOnePerHorizonInStableOrder(t *testing.T) {
	e, err := NewEngine(1.0, -1.0)
	require.NoError(t, err)

	row := alignedBar("AAPL", time.Now(), 100, "+3d", "+0d", "+1d")
	signals, err := e.DecideAll(context.Background(), row, fixedScorer{strength: 0.5})
	require.NoError(t, err)
	require.Len(t, signals, 3)

	assert.Equal(t, "+0d", signals[0].Horizon)
	assert.Equal(t, "+1d", signals[1].Horizon)
	assert.Equal(t, "+3d", signals[2].Horizon)
	for _, s := range signals {
		assert.Equal(t, models.Hold, s.Decision)
		assert.Equal(t, "AAPL", s.Symbol)
	}
}

func TestDecideAllAbortsRowOnScorerError(t *testing.T) {
	e, err := NewEngine(1.0, -1.0)
	require.NoError(t, err)

	row := alignedBar("AAPL", time.Now(), 100, "+0d", "+1d")
	signals, err := e.DecideAll(context.Background(), row, fixedScorer{err: fmt.Errorf("boom")})
	assert.Error(t, err)
	assert.Nil(t, signals)
}
