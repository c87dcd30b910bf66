package calendar

import (
	"math"
	"time"
)

// Corrector adjusts a civil timestamp to local apparent solar time. Hour and
// day pillar boundaries are defined on apparent solar time, so the choice of
// approximation shifts pillars for moments near block edges.
type Corrector interface {
	Apply(t time.Time, longitude float64) time.Time
	Name() string
}

// SpencerCorrector applies the longitude offset from the zone meridian plus
// the Spencer (1971) Fourier-series equation-of-time approximation. Accurate
// to well under a minute, which is ample at two-hour block granularity.
type SpencerCorrector struct{}

func (SpencerCorrector) Name() string { return "spencer" }

func (SpencerCorrector) Apply(t time.Time, longitude float64) time.Time {
	_, zoneOff := t.Zone()
	meridian := float64(zoneOff) / 3600.0 * 15.0 // degrees east of the zone meridian
	lonMinutes := 4.0 * (longitude - meridian)

	b := 2 * math.Pi * float64(t.YearDay()-1) / 365.0
	eot := 229.18 * (0.000075 +
		0.001868*math.Cos(b) - 0.032077*math.Sin(b) -
		0.014615*math.Cos(2*b) - 0.040849*math.Sin(2*b))

	offset := time.Duration((lonMinutes + eot) * float64(time.Minute))
	return t.Add(offset)
}

// NopCorrector leaves civil time untouched.
type NopCorrector struct{}

func (NopCorrector) Name() string { return "none" }

func (NopCorrector) Apply(t time.Time, _ float64) time.Time { return t }

// CorrectorFor resolves a corrector by config name; unknown names fall back
// to the Spencer approximation.
func CorrectorFor(name string) Corrector {
	if name == "none" {
		return NopCorrector{}
	}
	return SpencerCorrector{}
}
