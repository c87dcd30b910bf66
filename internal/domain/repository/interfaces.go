package repository

import (
	"context"
	"time"

	"GFQuant/internal/domain/models"
)

// BarSource supplies historical OHLCV bars from the market-data collaborator.
type BarSource interface {
	GetBars(ctx context.Context, symbol string, from, to time.Time, tf Timeframe) ([]models.MarketBar, error)
}

// TickStream is a live trade stream used to build intraday bars.
type TickStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Tick, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// SignalStore persists pipeline output. Writes are append-only and keyed by
// (symbol, timestamp, horizon) so re-runs are idempotent.
type SignalStore interface {
	Init(ctx context.Context) error
	StoreSignals(ctx context.Context, signals []models.Signal) error
	StoreFeatures(ctx context.Context, symbol string, rows []models.FeatureRow) error
	StoreBars(ctx context.Context, bars []models.MarketBar) error
	QuerySignals(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.Signal, error)
	QueryBars(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.MarketBar, error)
	Health(ctx context.Context) error
	Close() error
}

// Publisher hands emitted signals to the execution collaborator.
type Publisher interface {
	PublishSignals(ctx context.Context, signals []models.Signal) error
	Close() error
}

// Metrics records pipeline observability counters.
type Metrics interface {
	RecordRun(trigger, result string)
	RecordSignal(symbol, horizon, decision string)
	RecordGap(symbol, horizon string)
	RecordError(kind string)
	RecordLastClose(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
