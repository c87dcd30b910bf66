package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTimeframe(t *testing.T) {
	assert.Equal(t, TF1d, NormalizeTimeframe(""))
	assert.Equal(t, TF1m, NormalizeTimeframe("1m"))
	assert.Equal(t, TF1h, NormalizeTimeframe("1h"))
	assert.Equal(t, TF1d, NormalizeTimeframe("5m"), "unsupported falls back")
}

func TestTimeframeDuration(t *testing.T) {
	assert.Equal(t, time.Minute, TF1m.Duration())
	assert.Equal(t, time.Hour, TF1h.Duration())
	assert.Equal(t, 24*time.Hour, TF1d.Duration())
}
