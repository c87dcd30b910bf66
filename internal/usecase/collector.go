package usecase

import (
	"context"

	"GFQuant/internal/domain/models"
	drepo "GFQuant/internal/domain/repository"
	mid "GFQuant/internal/middleware"
	applogger "GFQuant/pkg/logger"
)

// Collector consumes the live tick stream, folds ticks into bars through the
// bar builder, and feeds each completed bar through the pipeline.
type Collector struct {
	stream   drepo.TickStream
	pipeline *Pipeline
	builder  *mid.BarBuilder
	metrics  drepo.Metrics
	l        *applogger.Logger
}

// NewCollector creates a live collector. The bar builder's sink is wired to
// the pipeline's incremental entry point.
func NewCollector(stream drepo.TickStream, pipeline *Pipeline, metrics drepo.Metrics, l *applogger.Logger, tf drepo.Timeframe) *Collector {
	c := &Collector{
		stream:   stream,
		pipeline: pipeline,
		metrics:  metrics,
		l:        l,
	}
	c.builder = mid.NewBarBuilder(
		mid.BarSinkFunc(c.onBar),
		metrics,
		mid.WithTimeframe(tf),
	)
	return c
}

// IsConnected returns true if the tick stream is connected.
func (c *Collector) IsConnected() bool {
	return c.stream.IsConnected()
}

// Start connects, subscribes and launches the consume loop.
func (c *Collector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	tickCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, tickCh, errCh)
	return nil
}

func (c *Collector) consume(ctx context.Context, tickCh <-chan *models.Tick, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				if c.l != nil {
					c.l.Warn("collector: stream error, reconnecting", applogger.Error(err))
				}
				_ = c.stream.Reconnect(ctx)
			}
		case t := <-tickCh:
			if t == nil {
				continue
			}
			if err := c.builder.Process(ctx, t); err != nil && c.l != nil {
				c.l.Warn("collector: tick rejected",
					applogger.String("symbol", t.Symbol),
					applogger.Error(err),
				)
			}
		}
	}
}

func (c *Collector) onBar(ctx context.Context, bar models.MarketBar) error {
	_, err := c.pipeline.RunBars(ctx, []models.MarketBar{bar}, "live")
	return err
}

// Shutdown flushes open buckets and closes the stream.
func (c *Collector) Shutdown(ctx context.Context) error {
	if err := c.builder.Flush(ctx); err != nil && c.l != nil {
		c.l.Error("collector: flush on shutdown failed", applogger.Error(err))
	}
	return c.stream.Close()
}
