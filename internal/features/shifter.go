// Package features generates horizon-shifted calendrical feature rows.
package features

import (
	"errors"
	"fmt"

	"GFQuant/internal/calendar"
	"GFQuant/internal/domain/models"
	"GFQuant/internal/elements"
)

// ErrInvalidHorizon marks a malformed horizon set. Fatal at configuration
// validation time, before any batch processing begins.
var ErrInvalidHorizon = errors.New("features: invalid horizon")

// Skip records a horizon excluded from one base TimePoint, with its cause.
// Out-of-era horizons are skipped per row, never fatal for the batch.
type Skip struct {
	Horizon string
	Err     error
}

// Shifter produces one feature row per configured horizon for a base
// TimePoint.
type Shifter struct {
	engine *calendar.Engine
}

func NewShifter(engine *calendar.Engine) *Shifter {
	return &Shifter{engine: engine}
}

// ValidateHorizons rejects empty sets and duplicate labels.
func ValidateHorizons(horizons []models.Horizon) error {
	if len(horizons) == 0 {
		return fmt.Errorf("%w: empty horizon set", ErrInvalidHorizon)
	}
	seen := make(map[string]struct{}, len(horizons))
	for _, h := range horizons {
		if h.Label == "" {
			return fmt.Errorf("%w: unlabeled horizon", ErrInvalidHorizon)
		}
		if _, dup := seen[h.Label]; dup {
			return fmt.Errorf("%w: duplicate label %q", ErrInvalidHorizon, h.Label)
		}
		seen[h.Label] = struct{}{}
	}
	return nil
}

// Generate computes a feature row at base shifted by each horizon. Horizons
// whose shifted TimePoint falls outside the supported era are returned as
// skips; any other engine failure aborts.
func (s *Shifter) Generate(base models.TimePoint, horizons []models.Horizon) ([]models.FeatureRow, []Skip, error) {
	rows := make([]models.FeatureRow, 0, len(horizons))
	var skips []Skip
	for _, h := range horizons {
		tp := base.Shift(h.Offset)
		fp, err := s.engine.Compute(tp)
		if err != nil {
			if errors.Is(err, calendar.ErrUnsupportedEra) {
				skips = append(skips, Skip{Horizon: h.Label, Err: err})
				continue
			}
			return nil, nil, fmt.Errorf("generate %s: %w", h.Label, err)
		}
		rows = append(rows, models.FeatureRow{
			TimePoint: tp,
			Horizon:   h.Label,
			Pillars:   fp,
			Elements:  elements.Score(fp),
		})
	}
	return rows, skips, nil
}
