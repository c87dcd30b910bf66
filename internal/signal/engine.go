// Package signal turns scored aligned rows into discrete trading decisions.
package signal

import (
	"context"
	"fmt"
	"sort"

	"GFQuant/internal/domain/models"
	domsvc "GFQuant/internal/domain/service"
)

// Engine applies a fixed threshold policy to scorer output. It holds no state
// across calls; a stateful scorer owns whatever state it needs.
type Engine struct {
	buy  float64
	sell float64
}

// NewEngine creates a signal engine. buy must be strictly above sell so the
// hold band is non-empty.
func NewEngine(buy, sell float64) (*Engine, error) {
	if buy <= sell {
		return nil, fmt.Errorf("signal engine: buy threshold %v must exceed sell threshold %v", buy, sell)
	}
	return &Engine{buy: buy, sell: sell}, nil
}

// Decide scores one aligned row for one horizon and applies the threshold
// policy. Scorer failures propagate for this row only.
func (e *Engine) Decide(ctx context.Context, row models.AlignedRow, horizon string, scorer domsvc.Scorer) (models.Signal, error) {
	strength, err := scorer.Score(ctx, row, horizon)
	if err != nil {
		return models.Signal{}, fmt.Errorf("score %s %s: %w", row.Bar.Symbol, horizon, err)
	}

	decision := models.Hold
	switch {
	case strength >= e.buy:
		decision = models.Buy
	case strength <= e.sell:
		decision = models.Sell
	}

	return models.Signal{
		Symbol:    row.Bar.Symbol,
		Timestamp: row.Bar.Timestamp,
		Horizon:   horizon,
		Decision:  decision,
		Strength:  strength,
		Scorer:    scorer.Name(),
		Row:       row,
	}, nil
}

// DecideAll emits one signal per aligned horizon of the row, in stable
// horizon order. The first scorer error aborts the row; callers isolate
// failures per row, not per batch.
func (e *Engine) DecideAll(ctx context.Context, row models.AlignedRow, scorer domsvc.Scorer) ([]models.Signal, error) {
	horizons := make([]string, 0, len(row.Features))
	for h := range row.Features {
		horizons = append(horizons, h)
	}
	sort.Strings(horizons)

	signals := make([]models.Signal, 0, len(horizons))
	for _, h := range horizons {
		s, err := e.Decide(ctx, row, h, scorer)
		if err != nil {
			return nil, err
		}
		signals = append(signals, s)
	}
	return signals, nil
}
