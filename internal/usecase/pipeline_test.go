package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GFQuant/internal/calendar"
	"GFQuant/internal/domain/models"
	drepo "GFQuant/internal/domain/repository"
	domsvc "GFQuant/internal/domain/service"
	"GFQuant/internal/features"
	"GFQuant/internal/signal"
)

type fakeBarSource struct {
	bars []models.MarketBar
	err  error
}

func (s *fakeBarSource) GetBars(context.Context, string, time.Time, time.Time, drepo.Timeframe) ([]models.MarketBar, error) {
	return s.bars, s.err
}

// fakeStore keys signals the way the real store does, so re-runs overwrite
// instead of duplicating.
type fakeStore struct {
	mu       sync.Mutex
	signals  map[string]models.Signal
	features []models.FeatureRow
	bars     []models.MarketBar
}

func newFakeStore() *fakeStore {
	return &fakeStore{signals: make(map[string]models.Signal)}
}

func (s *fakeStore) Init(context.Context) error { return nil }

func (s *fakeStore) StoreSignals(_ context.Context, signals []models.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sig := range signals {
		s.signals[sig.Key()] = sig
	}
	return nil
}

func (s *fakeStore) StoreFeatures(_ context.Context, _ string, rows []models.FeatureRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.features = append(s.features, rows...)
	return nil
}

func (s *fakeStore) StoreBars(_ context.Context, bars []models.MarketBar) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bars = append(s.bars, bars...)
	return nil
}

func (s *fakeStore) QuerySignals(context.Context, string, time.Time, time.Time, int) ([]models.Signal, error) {
	return nil, nil
}

func (s *fakeStore) QueryBars(context.Context, string, time.Time, time.Time, int) ([]models.MarketBar, error) {
	return nil, nil
}

func (s *fakeStore) Health(context.Context) error { return nil }
func (s *fakeStore) Close() error                 { return nil }

type fakePublisher struct {
	mu        sync.Mutex
	published []models.Signal
}

func (p *fakePublisher) PublishSignals(_ context.Context, signals []models.Signal) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, signals...)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

type fakeMetrics struct {
	mu     sync.Mutex
	runs   map[string]int
	errors map[string]int
	gaps   int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{runs: make(map[string]int), errors: make(map[string]int)}
}

func (m *fakeMetrics) RecordRun(trigger, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[trigger+"/"+result]++
}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}

func (m *fakeMetrics) RecordGap(string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gaps++
}

func (m *fakeMetrics) RecordSignal(string, string, string) {}
func (m *fakeMetrics) RecordLastClose(string, float64)     {}
func (m *fakeMetrics) RecordLatency(string, float64)       {}

type constScorer struct{ strength float64 }

func (s constScorer) Name() string { return "const" }

func (s constScorer) Score(context.Context, models.AlignedRow, string) (float64, error) {
	return s.strength, nil
}

// flakyScorer fails for one bar timestamp only.
type flakyScorer struct{ poison time.Time }

func (s flakyScorer) Name() string { return "flaky" }

func (s flakyScorer) Score(_ context.Context, row models.AlignedRow, _ string) (float64, error) {
	if row.Bar.Timestamp.Equal(s.poison) {
		return 0, fmt.Errorf("poisoned bar")
	}
	return 0.5, nil
}

func dailyBars(symbol string, startDay int, closes ...float64) []models.MarketBar {
	bars := make([]models.MarketBar, 0, len(closes))
	for i, c := range closes {
		bars = append(bars, models.MarketBar{
			Symbol:    symbol,
			Timestamp: time.Date(2024, 6, startDay+i, 0, 0, 0, 0, time.UTC),
			Open:      c, High: c, Low: c, Close: c,
			Volume: 1000,
		})
	}
	return bars
}

type pipelineDeps struct {
	source  *fakeBarSource
	store   *fakeStore
	pub     *fakePublisher
	metrics *fakeMetrics
}

func newTestPipeline(t *testing.T, scorer domsvc.Scorer, bars []models.MarketBar, horizons ...models.Horizon) (*Pipeline, *pipelineDeps) {
	t.Helper()
	if len(horizons) == 0 {
		horizons = []models.Horizon{models.HorizonFromDays(0)}
	}
	engine, err := signal.NewEngine(1.0, -1.0)
	require.NoError(t, err)
	shifter := features.NewShifter(calendar.NewEngine(calendar.NopCorrector{}, calendar.MinYear, calendar.MaxYear))

	deps := &pipelineDeps{
		source:  &fakeBarSource{bars: bars},
		store:   newFakeStore(),
		pub:     &fakePublisher{},
		metrics: newFakeMetrics(),
	}
	p, err := NewPipeline(shifter, engine, scorer, deps.source, deps.store, deps.pub, deps.metrics, nil, horizons, 114.17, 2)
	require.NoError(t, err)
	return p, deps
}

func TestNewPipelineRejectsBadHorizons(t *testing.T) {
	engine, err := signal.NewEngine(1.0, -1.0)
	require.NoError(t, err)
	shifter := features.NewShifter(calendar.NewEngine(calendar.NopCorrector{}, calendar.MinYear, calendar.MaxYear))

	_, err = NewPipeline(shifter, engine, constScorer{}, &fakeBarSource{}, newFakeStore(), nil, newFakeMetrics(), nil, nil, 114.17, 2)
	assert.ErrorIs(t, err, features.ErrInvalidHorizon)
}

// Three daily bars closing 100, 102, 99 with momentum scoring and thresholds
// +1/-1 emit hold, buy, sell in order.
func TestRunMomentumEndToEnd(t *testing.T) {
	bars := dailyBars("AAPL", 3, 100, 102, 99)
	p, deps := newTestPipeline(t, signal.NewMomentumScorer(), bars)

	res, err := p.Run(context.Background(), "AAPL",
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		drepo.TF1d)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Bars)
	require.Len(t, res.Signals, 3)
	assert.Equal(t, models.Hold, res.Signals[0].Decision)
	assert.Equal(t, models.Buy, res.Signals[1].Decision)
	assert.Equal(t, models.Sell, res.Signals[2].Decision)
	assert.Empty(t, res.Gaps)
	assert.Empty(t, res.Skips)

	assert.Len(t, deps.store.signals, 3)
	assert.Len(t, deps.store.bars, 3)
	assert.Len(t, deps.store.features, 3)
	assert.Len(t, deps.pub.published, 3)
	assert.Equal(t, 1, deps.metrics.runs["batch/ok"])
}

// Re-running the same window writes the same keys, not duplicates.
func TestRunIdempotentByKey(t *testing.T) {
	bars := dailyBars("AAPL", 3, 100, 102, 99)
	p, deps := newTestPipeline(t, constScorer{strength: 2.0}, bars)

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	first, err := p.Run(context.Background(), "AAPL", from, to, drepo.TF1d)
	require.NoError(t, err)
	second, err := p.Run(context.Background(), "AAPL", from, to, drepo.TF1d)
	require.NoError(t, err)

	assert.Equal(t, len(first.Signals), len(second.Signals))
	assert.Len(t, deps.store.signals, 3, "same keys overwrite")
	for _, sig := range deps.store.signals {
		assert.Equal(t, models.Buy, sig.Decision)
	}
}

// A scheduled re-run over the same window must overwrite each signal key
// with the same strength: the stateful momentum scorer is reset per windowed
// run, so the window's first bar scores 0 every time instead of scoring
// against the previous run's last close.
func TestRunMomentumIdempotentAcrossRuns(t *testing.T) {
	bars := dailyBars("AAPL", 3, 100, 102, 99)
	p, deps := newTestPipeline(t, signal.NewMomentumScorer(), bars)

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	first, err := p.Run(context.Background(), "AAPL", from, to, drepo.TF1d)
	require.NoError(t, err)
	second, err := p.Run(context.Background(), "AAPL", from, to, drepo.TF1d)
	require.NoError(t, err)

	require.Len(t, second.Signals, len(first.Signals))
	for i := range first.Signals {
		assert.Equal(t, first.Signals[i].Strength, second.Signals[i].Strength, "signal %d", i)
		assert.Equal(t, first.Signals[i].Decision, second.Signals[i].Decision, "signal %d", i)
	}
	assert.Equal(t, models.Hold, second.Signals[0].Decision, "window's first bar scores 0 on every run")
	assert.Len(t, deps.store.signals, 3)
}

func TestRunEmptyWindow(t *testing.T) {
	p, deps := newTestPipeline(t, constScorer{}, nil)

	res, err := p.Run(context.Background(), "AAPL",
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		drepo.TF1d)
	require.NoError(t, err)
	assert.Zero(t, res.Bars)
	assert.Empty(t, res.Signals)
	assert.Equal(t, 1, deps.metrics.runs["batch/empty"])
}

func TestRunSourceError(t *testing.T) {
	p, deps := newTestPipeline(t, constScorer{}, nil)
	deps.source.err = fmt.Errorf("upstream down")

	_, err := p.Run(context.Background(), "AAPL",
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		drepo.TF1d)
	assert.Error(t, err)
	assert.Equal(t, 1, deps.metrics.runs["batch/error"])
	assert.Equal(t, 1, deps.metrics.errors["get_bars"])
}

// A scorer failure poisons only its row; the rest of the batch still emits.
func TestRunScorerErrorIsolatedPerRow(t *testing.T) {
	bars := dailyBars("AAPL", 3, 100, 102, 99)
	poison := bars[1].Timestamp
	p, deps := newTestPipeline(t, flakyScorer{poison: poison}, bars)

	res, err := p.Run(context.Background(), "AAPL",
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		drepo.TF1d)
	require.NoError(t, err)

	require.Len(t, res.Signals, 2)
	for _, s := range res.Signals {
		assert.False(t, s.Timestamp.Equal(poison))
	}
	assert.Equal(t, 1, deps.metrics.errors["score"])
	assert.Equal(t, 1, deps.metrics.runs["batch/ok"], "run still succeeds")
}

// Horizons shifted past the supported era become skips, and bars without
// eligible rows for a horizon become gaps, without failing the run.
func TestRunRecordsSkipsAndGaps(t *testing.T) {
	// The second bar's +7d shift lands in 2100, past the supported era.
	bars := []models.MarketBar{
		{Symbol: "AAPL", Timestamp: time.Date(2099, 12, 20, 0, 0, 0, 0, time.UTC), Close: 100},
		{Symbol: "AAPL", Timestamp: time.Date(2099, 12, 27, 0, 0, 0, 0, time.UTC), Close: 101},
	}
	p, deps := newTestPipeline(t, constScorer{}, bars,
		models.HorizonFromDays(0), models.HorizonFromDays(7))

	res, err := p.Run(context.Background(), "AAPL",
		time.Date(2099, 12, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC),
		drepo.TF1d)
	require.NoError(t, err)

	require.Len(t, res.Skips, 1)
	assert.Equal(t, "+7d", res.Skips[0].Horizon)

	// The only surviving +7d row sits at Dec 27, after the first bar.
	require.Len(t, res.Gaps, 1)
	assert.Equal(t, "+7d", res.Gaps[0].Horizon)
	assert.Equal(t, 1, deps.metrics.gaps)

	require.Len(t, res.Signals, 3, "+0d per bar plus +7d on the second")
	assert.Equal(t, 1, deps.metrics.runs["batch/ok"])
}

func TestRunBarsRejectsMixedSymbols(t *testing.T) {
	p, _ := newTestPipeline(t, constScorer{}, nil)

	bars := append(dailyBars("AAPL", 3, 100), dailyBars("MSFT", 3, 400)...)
	_, err := p.RunBars(context.Background(), bars, "live")
	assert.Error(t, err)
}

func TestRunBarsEmptyIsNoop(t *testing.T) {
	p, deps := newTestPipeline(t, constScorer{}, nil)

	res, err := p.RunBars(context.Background(), nil, "live")
	require.NoError(t, err)
	assert.Zero(t, res.Bars)
	assert.Empty(t, deps.metrics.runs)
}

func TestRunBarsUsesTriggerLabel(t *testing.T) {
	p, deps := newTestPipeline(t, constScorer{}, nil)

	_, err := p.RunBars(context.Background(), dailyBars("AAPL", 3, 100), "webhook")
	require.NoError(t, err)
	assert.Equal(t, 1, deps.metrics.runs["webhook/ok"])
}
