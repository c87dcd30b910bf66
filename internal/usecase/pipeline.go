package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"GFQuant/internal/align"
	"GFQuant/internal/domain/models"
	drepo "GFQuant/internal/domain/repository"
	domsvc "GFQuant/internal/domain/service"
	"GFQuant/internal/features"
	"GFQuant/internal/signal"
	applogger "GFQuant/pkg/logger"
)

// Pipeline runs the feature/signal batch: fetch bars, generate horizon-shifted
// feature rows at each bar timestamp, align backward-looking, score and emit
// signals, then persist and publish.
type Pipeline struct {
	shifter *features.Shifter
	engine  *signal.Engine
	scorer  domsvc.Scorer
	source  drepo.BarSource
	store   drepo.SignalStore
	pub     drepo.Publisher
	metrics drepo.Metrics
	l       *applogger.Logger

	horizons  []models.Horizon
	longitude float64
	workers   int
}

// NewPipeline wires the batch pipeline. Horizons are validated once here;
// a bad set is a configuration error, not a runtime condition.
func NewPipeline(
	shifter *features.Shifter,
	engine *signal.Engine,
	scorer domsvc.Scorer,
	source drepo.BarSource,
	store drepo.SignalStore,
	pub drepo.Publisher,
	metrics drepo.Metrics,
	l *applogger.Logger,
	horizons []models.Horizon,
	longitude float64,
	workers int,
) (*Pipeline, error) {
	if err := features.ValidateHorizons(horizons); err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		shifter:   shifter,
		engine:    engine,
		scorer:    scorer,
		source:    source,
		store:     store,
		pub:       pub,
		metrics:   metrics,
		l:         l,
		horizons:  horizons,
		longitude: longitude,
		workers:   workers,
	}, nil
}

// RunResult summarizes one pipeline run.
type RunResult struct {
	Symbol  string
	Bars    int
	Signals []models.Signal
	Gaps    []models.AlignmentGap
	Skips   []features.Skip
}

// Run executes the pipeline for one symbol over [from, to]. A stateful
// scorer is reset first: the window fully determines its input, so repeated
// runs over the same window emit identical signals.
func (p *Pipeline) Run(ctx context.Context, symbol string, from, to time.Time, tf drepo.Timeframe) (*RunResult, error) {
	if r, ok := p.scorer.(domsvc.Resettable); ok {
		r.Reset()
	}
	bars, err := p.source.GetBars(ctx, symbol, from, to, tf)
	if err != nil {
		p.metrics.RecordError("get_bars")
		p.metrics.RecordRun("batch", "error")
		return nil, fmt.Errorf("run %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		if p.l != nil {
			p.l.Warn("pipeline: no bars in window",
				applogger.String("symbol", symbol),
				applogger.String("from", from.Format(time.RFC3339)),
				applogger.String("to", to.Format(time.RFC3339)),
			)
		}
		p.metrics.RecordRun("batch", "empty")
		return &RunResult{Symbol: symbol}, nil
	}
	return p.runBars(ctx, symbol, bars, "batch")
}

// RunBars executes the pipeline over externally supplied bars, e.g. from the
// live collector or a webhook push. Bars must share one symbol.
func (p *Pipeline) RunBars(ctx context.Context, bars []models.MarketBar, trigger string) (*RunResult, error) {
	if len(bars) == 0 {
		return &RunResult{}, nil
	}
	symbol := bars[0].Symbol
	for _, b := range bars[1:] {
		if b.Symbol != symbol {
			return nil, fmt.Errorf("run bars: mixed symbols %s and %s", symbol, b.Symbol)
		}
	}
	return p.runBars(ctx, symbol, bars, trigger)
}

func (p *Pipeline) runBars(ctx context.Context, symbol string, bars []models.MarketBar, trigger string) (*RunResult, error) {
	start := time.Now()

	rows, skips, err := p.generateFeatures(ctx, bars)
	if err != nil {
		p.metrics.RecordError("generate_features")
		p.metrics.RecordRun(trigger, "error")
		return nil, fmt.Errorf("run %s: %w", symbol, err)
	}

	res := align.Align(bars, rows)
	for _, g := range res.Gaps {
		p.metrics.RecordGap(g.Symbol, g.Horizon)
	}

	signals := p.decide(ctx, res.Rows)

	if err := p.persist(ctx, symbol, bars, rows, signals); err != nil {
		p.metrics.RecordRun(trigger, "error")
		return nil, fmt.Errorf("run %s: %w", symbol, err)
	}

	p.metrics.RecordLastClose(symbol, bars[len(bars)-1].Close)
	p.metrics.RecordRun(trigger, "ok")
	p.metrics.RecordLatency("pipeline_run", time.Since(start).Seconds())

	if p.l != nil {
		p.l.Info("pipeline: run complete",
			applogger.String("symbol", symbol),
			applogger.String("trigger", trigger),
			applogger.Int("bars", len(bars)),
			applogger.Int("signals", len(signals)),
			applogger.Int("gaps", len(res.Gaps)),
			applogger.Int("skips", len(skips)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}

	return &RunResult{
		Symbol:  symbol,
		Bars:    len(bars),
		Signals: signals,
		Gaps:    res.Gaps,
		Skips:   skips,
	}, nil
}

// generateFeatures computes horizon-shifted feature rows with each bar
// timestamp as base. Computation is pure, so bars fan out over a bounded
// worker pool; results keep deterministic order via their index.
func (p *Pipeline) generateFeatures(ctx context.Context, bars []models.MarketBar) ([]models.FeatureRow, []features.Skip, error) {
	// Dedupe base instants; several symbols' bars in one slice may share them.
	seen := make(map[int64]struct{}, len(bars))
	bases := make([]models.TimePoint, 0, len(bars))
	for _, b := range bars {
		k := b.Timestamp.Unix()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		bases = append(bases, models.NewTimePoint(b.Timestamp, p.longitude))
	}

	type result struct {
		rows  []models.FeatureRow
		skips []features.Skip
		err   error
	}

	results := make([]result, len(bases))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.workers)

	for i, base := range bases {
		wg.Add(1)
		go func(i int, base models.TimePoint) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			rows, skips, err := p.shifter.Generate(base, p.horizons)
			results[i] = result{rows: rows, skips: skips, err: err}
		}(i, base)
	}
	wg.Wait()

	var rows []models.FeatureRow
	var skips []features.Skip
	for _, r := range results {
		if r.err != nil {
			return nil, nil, r.err
		}
		rows = append(rows, r.rows...)
		skips = append(skips, r.skips...)
	}
	return rows, skips, nil
}

// decide scores every aligned row. A scorer failure poisons only its row;
// the rest of the batch still emits.
func (p *Pipeline) decide(ctx context.Context, rows []models.AlignedRow) []models.Signal {
	var signals []models.Signal
	for _, row := range rows {
		out, err := p.engine.DecideAll(ctx, row, p.scorer)
		if err != nil {
			p.metrics.RecordError("score")
			if p.l != nil {
				p.l.Error("pipeline: row scoring failed",
					applogger.String("symbol", row.Bar.Symbol),
					applogger.String("ts", row.Bar.Timestamp.Format(time.RFC3339)),
					applogger.Error(err),
				)
			}
			continue
		}
		for _, s := range out {
			p.metrics.RecordSignal(s.Symbol, s.Horizon, string(s.Decision))
		}
		signals = append(signals, out...)
	}
	return signals
}

func (p *Pipeline) persist(ctx context.Context, symbol string, bars []models.MarketBar, rows []models.FeatureRow, signals []models.Signal) error {
	if err := p.store.StoreBars(ctx, bars); err != nil {
		p.metrics.RecordError("store_bars")
		return err
	}

	// Stable order keeps re-runs byte-identical in storage.
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].TimePoint.Time.Equal(rows[j].TimePoint.Time) {
			return rows[i].TimePoint.Time.Before(rows[j].TimePoint.Time)
		}
		return rows[i].Horizon < rows[j].Horizon
	})
	if err := p.store.StoreFeatures(ctx, symbol, rows); err != nil {
		p.metrics.RecordError("store_features")
		return err
	}

	if err := p.store.StoreSignals(ctx, signals); err != nil {
		p.metrics.RecordError("store_signals")
		return err
	}

	if p.pub != nil && len(signals) > 0 {
		if err := p.pub.PublishSignals(ctx, signals); err != nil {
			p.metrics.RecordError("publish_signals")
			return err
		}
	}
	return nil
}

// Horizons returns the configured horizon set.
func (p *Pipeline) Horizons() []models.Horizon { return p.horizons }

// Longitude returns the configured observer longitude.
func (p *Pipeline) Longitude() float64 { return p.longitude }
