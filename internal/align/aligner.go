// Package align joins market bars with the latest non-future feature row per
// horizon. Backward-looking only: a bar never sees a feature computed after
// its own timestamp.
package align

import (
	"sort"

	"GFQuant/internal/domain/models"
)

// Result is the outcome of one alignment pass. Rows are ascending by bar
// timestamp; that ordering is a contract relied on by stateful scorers.
type Result struct {
	Rows []models.AlignedRow
	Gaps []models.AlignmentGap
}

// Align pairs each bar with, per horizon, the feature row whose TimePoint is
// the latest one <= the bar timestamp (inclusive on exact match). Horizons
// with no eligible row become recorded gaps; a bar with no aligned horizon at
// all is dropped entirely, each horizon gap still recorded.
func Align(bars []models.MarketBar, rows []models.FeatureRow) Result {
	byHorizon := make(map[string][]models.FeatureRow)
	for _, r := range rows {
		byHorizon[r.Horizon] = append(byHorizon[r.Horizon], r)
	}
	horizons := make([]string, 0, len(byHorizon))
	for h, hr := range byHorizon {
		sort.Slice(hr, func(i, j int) bool { return hr[i].TimePoint.Time.Before(hr[j].TimePoint.Time) })
		byHorizon[h] = hr
		horizons = append(horizons, h)
	}
	sort.Strings(horizons)

	sorted := make([]models.MarketBar, len(bars))
	copy(sorted, bars)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp.Before(sorted[j].Timestamp) })

	var res Result
	for _, bar := range sorted {
		features := make(map[string]models.FeatureRow, len(horizons))
		for _, h := range horizons {
			hr := byHorizon[h]
			// First row strictly after the bar; the one before it is the match.
			i := sort.Search(len(hr), func(i int) bool { return hr[i].TimePoint.Time.After(bar.Timestamp) })
			if i == 0 {
				res.Gaps = append(res.Gaps, models.AlignmentGap{
					Symbol:    bar.Symbol,
					Timestamp: bar.Timestamp,
					Horizon:   h,
					Reason:    "no feature row at or before bar",
				})
				continue
			}
			features[h] = hr[i-1]
		}
		if len(features) == 0 {
			continue
		}
		res.Rows = append(res.Rows, models.AlignedRow{Bar: bar, Features: features})
	}
	return res
}
