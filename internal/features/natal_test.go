package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GFQuant/internal/calendar"
	"GFQuant/internal/domain/models"
)

func TestNatalBookChart(t *testing.T) {
	engine := calendar.NewEngine(calendar.NopCorrector{}, calendar.MinYear, calendar.MaxYear)
	book, err := NewNatalBook(engine, map[string]models.TimePoint{
		"AAPL": models.NewTimePoint(time.Date(1980, 12, 12, 12, 0, 0, 0, time.UTC), 114.17),
		"MSFT": models.NewTimePoint(time.Date(1986, 3, 13, 12, 0, 0, 0, time.UTC), 114.17),
	})
	require.NoError(t, err)

	chart, ok := book.Chart("AAPL")
	require.True(t, ok)
	assert.Equal(t, "AAPL", chart.Symbol)
	assert.InDelta(t, 10.0, chart.Elements.Total(), 1e-9)
	// 1980 is the GengShen year.
	assert.Equal(t, models.Geng, chart.Pillars.Year.Stem)
	assert.Equal(t, models.Shen, chart.Pillars.Year.Branch)

	_, ok = book.Chart("TSLA")
	assert.False(t, ok)

	assert.Equal(t, []string{"AAPL", "MSFT"}, book.Symbols())
}

func TestNatalBookRejectsOutOfEraListing(t *testing.T) {
	engine := calendar.NewEngine(calendar.NopCorrector{}, calendar.MinYear, calendar.MaxYear)
	_, err := NewNatalBook(engine, map[string]models.TimePoint{
		"OLD": models.NewTimePoint(time.Date(1880, 1, 1, 12, 0, 0, 0, time.UTC), 114.17),
	})
	assert.ErrorIs(t, err, calendar.ErrUnsupportedEra)
}

func TestNatalBookEmpty(t *testing.T) {
	engine := calendar.NewEngine(calendar.NopCorrector{}, calendar.MinYear, calendar.MaxYear)
	book, err := NewNatalBook(engine, nil)
	require.NoError(t, err)
	assert.Empty(t, book.Symbols())
}
