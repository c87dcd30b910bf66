package models

import "time"

// AlignedRow pairs one market bar with the latest non-future feature row per
// horizon. Horizons with no eligible feature row are absent from Features and
// recorded as AlignmentGaps by the aligner.
type AlignedRow struct {
	Bar      MarketBar
	Features map[string]FeatureRow // keyed by horizon label
}

// Feature returns the feature row for a horizon, if aligned.
func (r AlignedRow) Feature(horizon string) (FeatureRow, bool) {
	f, ok := r.Features[horizon]
	return f, ok
}

// AlignmentGap records a bar/horizon combination that could not be aligned.
type AlignmentGap struct {
	Symbol    string
	Timestamp time.Time
	Horizon   string
	Reason    string
}
