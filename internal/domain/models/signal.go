package models

import (
	"fmt"
	"time"
)

// Decision is the discrete trading decision emitted by the signal engine.
type Decision string

const (
	Buy  Decision = "buy"
	Sell Decision = "sell"
	Hold Decision = "hold"
)

// Signal is the terminal artifact of the pipeline. Immutable once emitted.
// The (Symbol, Timestamp, Horizon) key is unique per run so that re-runs are
// idempotent and duplicate writes deduplicate downstream.
type Signal struct {
	Symbol    string
	Timestamp time.Time
	Horizon   string
	Decision  Decision
	Strength  float64
	Scorer    string
	Row       AlignedRow
}

// Key returns the storage key for idempotent persistence.
func (s Signal) Key() string {
	return fmt.Sprintf("%s|%d|%s", s.Symbol, s.Timestamp.Unix(), s.Horizon)
}
