package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"GFQuant/internal/domain/models"
	domrepo "GFQuant/internal/domain/repository"
)

// BarSink receives completed bars.
type BarSink interface {
	OnBar(ctx context.Context, bar models.MarketBar) error
}

// BarSinkFunc adapts a function to BarSink.
type BarSinkFunc func(ctx context.Context, bar models.MarketBar) error

func (f BarSinkFunc) OnBar(ctx context.Context, bar models.MarketBar) error { return f(ctx, bar) }

// BarBuilder aggregates a live tick stream into fixed-window OHLCV bars.
// It sits between the tick stream and the pipeline: validates ticks, folds
// them into the open bucket per symbol, and emits a bar once a tick arrives
// for a later bucket. Flush closes all open buckets.
type BarBuilder struct {
	sink    BarSink
	metrics domrepo.Metrics
	tf      domrepo.Timeframe

	mu   sync.Mutex
	open map[string]*models.MarketBar // keyed by symbol, bucket start in Timestamp
}

type BuilderOption func(*BarBuilder)

// WithTimeframe sets the aggregation bucket.
func WithTimeframe(tf domrepo.Timeframe) BuilderOption {
	return func(b *BarBuilder) {
		if domrepo.IsValidTimeframe(tf) {
			b.tf = tf
		}
	}
}

// NewBarBuilder creates a tick aggregator that emits bars into sink.
func NewBarBuilder(sink BarSink, metrics domrepo.Metrics, opts ...BuilderOption) *BarBuilder {
	b := &BarBuilder{
		sink:    sink,
		metrics: metrics,
		tf:      domrepo.TF1m,
		open:    make(map[string]*models.MarketBar),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Process folds one tick into its bucket, emitting the previous bucket's bar
// if the tick opens a new one. Out-of-order ticks older than the open bucket
// are dropped.
func (b *BarBuilder) Process(ctx context.Context, t *models.Tick) error {
	if err := validateTick(t); err != nil {
		b.metrics.RecordError("bar_builder_validate")
		return err
	}

	bucket := time.Unix(t.Timestamp, 0).UTC().Truncate(b.tf.Duration())

	b.mu.Lock()
	cur, ok := b.open[t.Symbol]
	if ok && bucket.Before(cur.Timestamp) {
		b.mu.Unlock()
		b.metrics.RecordError("bar_builder_stale_tick")
		return nil
	}

	var done *models.MarketBar
	if ok && bucket.After(cur.Timestamp) {
		done = cur
		ok = false
	}
	if !ok {
		b.open[t.Symbol] = &models.MarketBar{
			Symbol:    t.Symbol,
			Timestamp: bucket,
			Open:      t.Price,
			High:      t.Price,
			Low:       t.Price,
			Close:     t.Price,
			Volume:    t.Volume,
		}
	} else {
		if t.Price > cur.High {
			cur.High = t.Price
		}
		if t.Price < cur.Low {
			cur.Low = t.Price
		}
		cur.Close = t.Price
		cur.Volume += t.Volume
	}
	b.mu.Unlock()

	b.metrics.RecordLastClose(t.Symbol, t.Price)

	if done != nil {
		return b.emit(ctx, *done)
	}
	return nil
}

// Flush emits all open buckets. Call on shutdown or at window boundaries.
func (b *BarBuilder) Flush(ctx context.Context) error {
	b.mu.Lock()
	bars := make([]models.MarketBar, 0, len(b.open))
	for _, bar := range b.open {
		bars = append(bars, *bar)
	}
	b.open = make(map[string]*models.MarketBar)
	b.mu.Unlock()

	for _, bar := range bars {
		if err := b.emit(ctx, bar); err != nil {
			return err
		}
	}
	return nil
}

func (b *BarBuilder) emit(ctx context.Context, bar models.MarketBar) error {
	start := time.Now()
	if err := b.sink.OnBar(ctx, bar); err != nil {
		b.metrics.RecordError("bar_builder_emit")
		return fmt.Errorf("emit bar %s@%s: %w", bar.Symbol, bar.Timestamp, err)
	}
	b.metrics.RecordLatency("bar_emit", time.Since(start).Seconds())
	return nil
}

func validateTick(t *models.Tick) error {
	if t == nil {
		return fmt.Errorf("tick nil")
	}
	if t.Symbol == "" {
		return fmt.Errorf("symbol empty")
	}
	if t.Timestamp <= 0 {
		return fmt.Errorf("timestamp invalid")
	}
	if t.Price < 0 || t.Volume < 0 {
		return fmt.Errorf("negative price/volume")
	}
	return nil
}
