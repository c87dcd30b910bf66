package models

import "time"

// Tick is a single trade print from the live market stream.
type Tick struct {
	Symbol    string
	Timestamp int64 // unix seconds
	Price     float64
	Volume    float64
}

// MarketBar is an OHLCV bar supplied by the market-data collaborator.
// Read-only to the pipeline.
type MarketBar struct {
	Symbol    string
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}
