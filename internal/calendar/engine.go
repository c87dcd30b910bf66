package calendar

import (
	"errors"
	"fmt"

	"GFQuant/internal/domain/models"
)

// ErrUnsupportedEra marks a TimePoint outside the solar-term table range.
// The engine never extrapolates beyond the table.
var ErrUnsupportedEra = errors.New("calendar: time outside supported era")

// Engine converts civil timestamps into sexagenary four-pillar values.
// Pure: equal TimePoints always yield equal FourPillars.
type Engine struct {
	corrector Corrector
	minYear   int
	maxYear   int
}

// NewEngine creates an engine with the given solar-time correction strategy
// and supported year range. The range is clamped to the term tables.
func NewEngine(corrector Corrector, minYear, maxYear int) *Engine {
	if corrector == nil {
		corrector = SpencerCorrector{}
	}
	if minYear < MinYear {
		minYear = MinYear
	}
	if maxYear > MaxYear || maxYear == 0 {
		maxYear = MaxYear
	}
	return &Engine{corrector: corrector, minYear: minYear, maxYear: maxYear}
}

// Corrector returns the active solar-time correction strategy.
func (e *Engine) Corrector() Corrector { return e.corrector }

// Compute derives the four pillars for one TimePoint.
func (e *Engine) Compute(tp models.TimePoint) (models.FourPillars, error) {
	if tp.Time.IsZero() {
		return models.FourPillars{}, fmt.Errorf("compute pillars: zero time")
	}

	// Pillar boundaries are defined on apparent solar time.
	t := e.corrector.Apply(tp.Time, tp.Longitude)

	if t.Year() < e.minYear || t.Year() > e.maxYear {
		return models.FourPillars{}, fmt.Errorf("%w: year %d not in [%d, %d]", ErrUnsupportedEra, t.Year(), e.minYear, e.maxYear)
	}

	// Hour branch: two-hour blocks, 23:00-01:00 is Zi.
	hourBranch := ((t.Hour() + 1) / 2) % 12

	// The pillar day rolls over at 23:00, not midnight: the Zi block that
	// straddles midnight belongs entirely to the following day.
	pillarDay := t
	if t.Hour() == 23 {
		pillarDay = t.AddDate(0, 0, 1)
	}
	dayIdx := dayCycleIndex(pillarDay.Year(), int(pillarDay.Month()), pillarDay.Day())
	day := models.PillarFromIndex(dayIdx)

	// Hour stem from the pillar day's stem (five rats rule).
	hourStem := (int(day.Stem)*2 + hourBranch) % 10

	// Month and year bounded by solar terms.
	monthBranch, solarYear := solarMonth(t)
	yearStem := mod(solarYear-4, 10)
	yearBranch := mod(solarYear-4, 12)

	// Month stem from the year stem (five tigers rule); Yin month is ordinal 0.
	monthOrdinal := mod(monthBranch-2, 12)
	monthStem := mod(yearStem*2+2+monthOrdinal, 10)

	return models.FourPillars{
		Year:  models.Pillar{Stem: models.Stem(yearStem), Branch: models.Branch(yearBranch)},
		Month: models.Pillar{Stem: models.Stem(monthStem), Branch: models.Branch(monthBranch)},
		Day:   day,
		Hour:  models.Pillar{Stem: models.Stem(hourStem), Branch: models.Branch(hourBranch)},
	}, nil
}

// dayCycleIndex returns the 0-based sexagenary index of a civil date using a
// continuous day count: (JDN + 49) mod 60, anchored so 2000-01-01 is WuWu
// (index 54). Day pillars never reset at month or year boundaries.
func dayCycleIndex(year, month, day int) int {
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	jdn := day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
	return mod(jdn+49, 60)
}

func mod(a, n int) int { return ((a % n) + n) % n }
