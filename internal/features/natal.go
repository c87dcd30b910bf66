package features

import (
	"fmt"
	"sort"

	"GFQuant/internal/calendar"
	"GFQuant/internal/domain/models"
	"GFQuant/internal/elements"
)

// NatalChart is the pillar set of an instrument's listing moment. It plays the
// role of a fixed reference chart against the per-timestamp feature rows.
type NatalChart struct {
	Symbol   string
	At       models.TimePoint
	Pillars  models.FourPillars
	Elements models.ElementVector
}

// NatalBook holds per-instrument natal charts, computed once at startup from
// the configured listing dates. Immutable afterwards.
type NatalBook struct {
	charts map[string]NatalChart
}

// NewNatalBook computes a natal chart per listing. A listing outside the
// supported era is a configuration error.
func NewNatalBook(engine *calendar.Engine, listings map[string]models.TimePoint) (*NatalBook, error) {
	charts := make(map[string]NatalChart, len(listings))
	for symbol, tp := range listings {
		fp, err := engine.Compute(tp)
		if err != nil {
			return nil, fmt.Errorf("natal chart %s: %w", symbol, err)
		}
		charts[symbol] = NatalChart{
			Symbol:   symbol,
			At:       tp,
			Pillars:  fp,
			Elements: elements.Score(fp),
		}
	}
	return &NatalBook{charts: charts}, nil
}

// Chart returns the natal chart for a symbol, if configured.
func (b *NatalBook) Chart(symbol string) (NatalChart, bool) {
	c, ok := b.charts[symbol]
	return c, ok
}

// Symbols lists the charted symbols in stable order.
func (b *NatalBook) Symbols() []string {
	out := make([]string, 0, len(b.charts))
	for s := range b.charts {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
