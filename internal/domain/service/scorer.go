package service

import (
	"context"

	"GFQuant/internal/domain/models"
)

// Scorer maps an aligned row and a horizon to a real-valued strength.
// It is an injected capability: any model implementation can be substituted
// without touching the signal engine. A stateful scorer owns its own state.
type Scorer interface {
	Score(ctx context.Context, row models.AlignedRow, horizon string) (float64, error)
	Name() string
}

// Resettable is implemented by stateful scorers whose state is scoped to one
// window. Windowed batch runs reset the scorer before scoring so that re-runs
// over the same window stay idempotent; incremental triggers never reset.
type Resettable interface {
	Reset()
}
