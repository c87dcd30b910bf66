package signal

import (
	"context"

	"GFQuant/internal/domain/models"
)

// MomentumScorer scores each bar by its close-over-close change. Stateful:
// it remembers the previous bar's close per symbol, and that state belongs
// to the scorer, not the engine. The first bar of a symbol scores 0. Repeat
// calls for the same bar (one per horizon) score against the same previous
// bar; bars must arrive in ascending time order per symbol.
type MomentumScorer struct {
	state map[string]*momentumState
}

type momentumState struct {
	prevClose float64
	curClose  float64
	curTS     int64
	hasPrev   bool
}

func NewMomentumScorer() *MomentumScorer {
	return &MomentumScorer{state: make(map[string]*momentumState)}
}

func (s *MomentumScorer) Name() string { return "momentum" }

// Reset clears all per-symbol state. Windowed batch runs reset before
// scoring so the first bar of a window always scores 0, regardless of
// what ran before.
func (s *MomentumScorer) Reset() {
	s.state = make(map[string]*momentumState)
}

func (s *MomentumScorer) Score(_ context.Context, row models.AlignedRow, _ string) (float64, error) {
	ts := row.Bar.Timestamp.Unix()
	st, ok := s.state[row.Bar.Symbol]
	if !ok {
		s.state[row.Bar.Symbol] = &momentumState{curClose: row.Bar.Close, curTS: ts}
		return 0, nil
	}
	if ts != st.curTS {
		st.prevClose = st.curClose
		st.hasPrev = true
		st.curClose = row.Bar.Close
		st.curTS = ts
	}
	if !st.hasPrev {
		return 0, nil
	}
	return st.curClose - st.prevClose, nil
}

// ElementBalanceScorer scores a row by the dot product of its element vector
// with configured per-element weights, centered on the vector mean so a
// perfectly balanced chart scores 0. Stateless.
type ElementBalanceScorer struct {
	weights map[models.Element]float64
}

func NewElementBalanceScorer(weights map[models.Element]float64) *ElementBalanceScorer {
	return &ElementBalanceScorer{weights: weights}
}

func (s *ElementBalanceScorer) Name() string { return "element_balance" }

func (s *ElementBalanceScorer) Score(_ context.Context, row models.AlignedRow, horizon string) (float64, error) {
	f, ok := row.Feature(horizon)
	if !ok {
		return 0, nil
	}
	mean := f.Elements.Total() / 5
	var strength float64
	for _, e := range models.Elements() {
		strength += s.weights[e] * (f.Elements.Get(e) - mean)
	}
	return strength, nil
}
