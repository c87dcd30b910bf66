package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const minimalConfig = `
environment: test
marketdata:
  symbols: [AAPL]
`

func TestLoadAppliesDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "Asia/Hong_Kong", c.Calendar.Timezone)
	assert.Equal(t, 114.17, c.Calendar.Longitude)
	assert.Equal(t, "spencer", c.Calendar.Correction)
	assert.Equal(t, 1900, c.Calendar.MinYear)
	assert.Equal(t, 2099, c.Calendar.MaxYear)
	assert.Equal(t, []string{"+0d", "+1d", "+3d"}, c.Pipeline.Horizons)
	assert.Equal(t, 1.0, c.Pipeline.BuyThreshold)
	assert.Equal(t, -1.0, c.Pipeline.SellThreshold)
	assert.Equal(t, "momentum", c.Pipeline.Scorer)
	assert.Equal(t, 4, c.Pipeline.Workers)
	assert.Equal(t, 2160*time.Hour, c.Pipeline.Lookback)
	assert.Equal(t, "gfquant", c.ClickHouse.Database)
	assert.Equal(t, "gfquant.signals", c.Kafka.Topic)
	assert.True(t, c.Cache.Enabled)
}

func TestLoadExplicitValuesSurviveDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, `
environment: prod
pipeline:
  horizons: ["+0d", "+7d"]
  buy_threshold: 2.5
  sell_threshold: -2.5
marketdata:
  symbols: [AAPL, MSFT]
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"+0d", "+7d"}, c.Pipeline.Horizons)
	assert.Equal(t, 2.5, c.Pipeline.BuyThreshold)
	assert.Equal(t, []string{"AAPL", "MSFT"}, c.MarketData.Symbols)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsInvertedThresholds(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
pipeline:
  buy_threshold: -1
  sell_threshold: 1
marketdata:
  symbols: [AAPL]
`))
	assert.Error(t, err)
}

func TestValidateRejectsUnknownScorer(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
pipeline:
  scorer: astrology
marketdata:
  symbols: [AAPL]
`))
	assert.Error(t, err)
}

func TestValidateRejectsBadTimezone(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
calendar:
  timezone: Mars/Olympus_Mons
marketdata:
  symbols: [AAPL]
`))
	assert.Error(t, err)
}

func TestValidateRejectsKafkaWithoutBrokers(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
kafka:
  enabled: true
marketdata:
  symbols: [AAPL]
`))
	assert.Error(t, err)
}

func TestValidateRejectsEmptySymbols(t *testing.T) {
	_, err := Load(writeConfig(t, "environment: test\n"))
	assert.Error(t, err)
}

func TestValidateRejectsYearRangeOutsideTables(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
calendar:
  min_year: 1850
marketdata:
  symbols: [AAPL]
`))
	assert.Error(t, err)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("MARKETDATA_API_KEY", "sekret")
	t.Setenv("SYMBOLS", "TSLA,NVDA")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")

	c, err := LoadWithEnv(writeConfig(t, minimalConfig))
	require.NoError(t, err)
	assert.Equal(t, "sekret", c.MarketData.APIKey)
	assert.Equal(t, []string{"TSLA", "NVDA"}, c.MarketData.Symbols)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, c.Kafka.Brokers)
	assert.True(t, c.Kafka.Enabled)
}
