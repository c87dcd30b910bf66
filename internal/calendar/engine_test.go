package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GFQuant/internal/domain/models"
)

func rawEngine() *Engine { return NewEngine(NopCorrector{}, MinYear, MaxYear) }

func tp(t time.Time) models.TimePoint { return models.NewTimePoint(t, 114.17) }

func TestComputeKnownDayPillars(t *testing.T) {
	e := rawEngine()

	// 2000-01-01 is WuWu, the anchor of the continuous day count.
	fp, err := e.Compute(tp(time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, 54, fp.Day.Index())
	assert.Equal(t, models.WuStem, fp.Day.Stem)
	assert.Equal(t, models.Wu, fp.Day.Branch)

	// 1949-10-01 is JiaZi, the start of a cycle.
	fp, err = e.Compute(tp(time.Date(1949, 10, 1, 12, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, 0, fp.Day.Index())
}

// Day pillars advance exactly one cycle position per civil day, wrapping at
// 60, with no reset at month or year boundaries.
func TestComputeDayPillarAdvancesDaily(t *testing.T) {
	e := rawEngine()
	start := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 90; i++ {
		fp, err := e.Compute(tp(start.AddDate(0, 0, i)))
		require.NoError(t, err)
		assert.Equal(t, (54+i)%60, fp.Day.Index(), "day %d", i)
	}
}

func TestComputeKnownYearAndMonthPillars(t *testing.T) {
	e := rawEngine()

	// Mid 2024 is the JiaChen year; June is the GengWu month (after MangZhong).
	fp, err := e.Compute(tp(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, models.Jia, fp.Year.Stem)
	assert.Equal(t, models.Chen, fp.Year.Branch)
	assert.Equal(t, models.Geng, fp.Month.Stem)
	assert.Equal(t, models.Wu, fp.Month.Branch)

	// 1949-10-01 falls in the JiChou year, GuiYou month (before HanLu).
	fp, err = e.Compute(tp(time.Date(1949, 10, 1, 12, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, models.Ji, fp.Year.Stem)
	assert.Equal(t, models.Chou, fp.Year.Branch)
	assert.Equal(t, models.Gui, fp.Month.Stem)
	assert.Equal(t, models.You, fp.Month.Branch)
}

// The sexagenary year flips at LiChun, inclusive of the boundary date.
func TestComputeYearBoundaryAtLiChun(t *testing.T) {
	e := rawEngine()

	before, err := e.Compute(tp(time.Date(2024, 2, 3, 12, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, models.Gui, before.Year.Stem)
	assert.Equal(t, models.Mao, before.Year.Branch)
	assert.Equal(t, models.Yi, before.Month.Stem)
	assert.Equal(t, models.Chou, before.Month.Branch)

	after, err := e.Compute(tp(time.Date(2024, 2, 4, 12, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, models.Jia, after.Year.Stem)
	assert.Equal(t, models.Chen, after.Year.Branch)
	assert.Equal(t, models.Bing, after.Month.Stem)
	assert.Equal(t, models.Yin, after.Month.Branch)
}

func TestComputeHourPillarBlocks(t *testing.T) {
	e := rawEngine()

	// June 15 2024 is GengXu (day index 46); noon falls in the Wu block.
	fp, err := e.Compute(tp(time.Date(2024, 6, 15, 12, 30, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, 46, fp.Day.Index())
	assert.Equal(t, models.Wu, fp.Hour.Branch)

	// 00:30 is Zi on the same pillar day; hour stem from GengXu via five rats.
	fp, err = e.Compute(tp(time.Date(2024, 6, 15, 0, 30, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, 46, fp.Day.Index())
	assert.Equal(t, models.Zi, fp.Hour.Branch)
	assert.Equal(t, models.Bing, fp.Hour.Stem)
}

// At 23:00 the Zi block opens and the pillar day rolls to the next civil day.
func TestComputeLateZiBlockUsesNextDay(t *testing.T) {
	e := rawEngine()

	fp, err := e.Compute(tp(time.Date(2024, 6, 15, 23, 30, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, 47, fp.Day.Index(), "pillar day is June 16, XinHai")
	assert.Equal(t, models.Zi, fp.Hour.Branch)
	assert.Equal(t, models.WuStem, fp.Hour.Stem, "Zi hour stem of a Xin day")
}

func TestComputeDeterministic(t *testing.T) {
	e := rawEngine()
	point := tp(time.Date(2024, 6, 15, 9, 45, 0, 0, time.UTC))

	a, err := e.Compute(point)
	require.NoError(t, err)
	b, err := e.Compute(point)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestComputeOutsideEra(t *testing.T) {
	e := rawEngine()

	_, err := e.Compute(tp(time.Date(1899, 6, 1, 12, 0, 0, 0, time.UTC)))
	assert.True(t, errors.Is(err, ErrUnsupportedEra))

	_, err = e.Compute(tp(time.Date(2100, 1, 1, 12, 0, 0, 0, time.UTC)))
	assert.True(t, errors.Is(err, ErrUnsupportedEra))
}

func TestComputeZeroTime(t *testing.T) {
	_, err := rawEngine().Compute(models.TimePoint{})
	assert.Error(t, err)
}

func TestComputeNarrowedYearRange(t *testing.T) {
	e := NewEngine(NopCorrector{}, 1990, 2030)

	_, err := e.Compute(tp(time.Date(1985, 6, 1, 12, 0, 0, 0, time.UTC)))
	assert.True(t, errors.Is(err, ErrUnsupportedEra))

	_, err = e.Compute(tp(time.Date(1995, 6, 1, 12, 0, 0, 0, time.UTC)))
	assert.NoError(t, err)
}

// A longitude well west of the zone meridian pulls apparent solar time back
// out of the late Zi block, so corrected and raw engines disagree near 23:00.
func TestComputeCorrectionShiftsHourBlock(t *testing.T) {
	corrected := NewEngine(SpencerCorrector{}, MinYear, MaxYear)
	raw := rawEngine()

	at := time.Date(2024, 6, 15, 23, 30, 0, 0, time.UTC)
	point := models.NewTimePoint(at, -15.0) // one hour west of the UTC meridian

	fpRaw, err := raw.Compute(point)
	require.NoError(t, err)
	assert.Equal(t, models.Zi, fpRaw.Hour.Branch)
	assert.Equal(t, 47, fpRaw.Day.Index())

	fpCorr, err := corrected.Compute(point)
	require.NoError(t, err)
	assert.Equal(t, models.Hai, fpCorr.Hour.Branch)
	assert.Equal(t, 46, fpCorr.Day.Index(), "pillar day stays June 15")
}
