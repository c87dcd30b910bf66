// Package elements derives five-element strength vectors from four-pillar
// values using static stem/branch correspondence tables.
package elements

import "GFQuant/internal/domain/models"

// Per-pillar weights: the visible stem and branch count in full, hidden stems
// share a fixed fractional budget.
const (
	stemWeight   = 1.0
	branchWeight = 1.0
	hiddenBudget = 0.5
)

// VectorTotal is the invariant sum of every scored ElementVector:
// 4 pillars x (1.0 stem + 1.0 branch + 0.5 hidden budget).
const VectorTotal = 4 * (stemWeight + branchWeight + hiddenBudget)

// Score derives the element strength vector for a four-pillar value.
// Pure: equal inputs always produce equal vectors, and the vector total is
// VectorTotal for every input.
func Score(fp models.FourPillars) models.ElementVector {
	var v models.ElementVector
	for _, p := range fp.Pillars() {
		v.Add(StemElement(p.Stem), stemWeight)
		v.Add(BranchElement(p.Branch), branchWeight)
		for _, h := range HiddenStems(p.Branch) {
			v.Add(StemElement(h.Stem), h.Weight)
		}
	}
	return v
}
