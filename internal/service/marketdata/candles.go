package marketdata

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"GFQuant/internal/domain/models"
	drepo "GFQuant/internal/domain/repository"
	"GFQuant/pkg/cache"
	xhttp "GFQuant/pkg/http"
	applogger "GFQuant/pkg/logger"
)

// CandleClient implements BarSource against the provider REST candle API,
// with a read-through cache for completed windows.
type CandleClient struct {
	apiKey  string
	baseURL string
	http    *xhttp.Client
	cache   cache.Store
	ttl     time.Duration
	limiter *Limiter
	l       *applogger.Logger
}

// Provider REST quota: 30 calls/second steady state.
const (
	restBurst  = 30
	restRefill = 30
)

// NewCandleClient creates a REST-backed bar source.
func NewCandleClient(apiKey, baseURL string, httpClient *xhttp.Client, store cache.Store, ttl time.Duration, l *applogger.Logger) *CandleClient {
	return &CandleClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    httpClient,
		cache:   store,
		ttl:     ttl,
		limiter: NewLimiter(),
		l:       l,
	}
}

type candleResponse struct {
	Status string    `json:"s"`
	Time   []int64   `json:"t"`
	Open   []float64 `json:"o"`
	High   []float64 `json:"h"`
	Low    []float64 `json:"l"`
	Close  []float64 `json:"c"`
	Volume []float64 `json:"v"`
}

func (c *CandleClient) GetBars(ctx context.Context, symbol string, from, to time.Time, tf drepo.Timeframe) ([]models.MarketBar, error) {
	if !drepo.IsValidTimeframe(tf) {
		return nil, fmt.Errorf("unsupported timeframe: %s", tf)
	}

	key := cache.Key("bars", symbol, string(tf), from.Unix(), to.Unix())
	if c.cache != nil {
		var cached []models.MarketBar
		if err := c.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) && c.l != nil {
			c.l.Warn("marketdata cache read failed", applogger.Error(err))
		}
	}

	if err := c.limiter.Wait(ctx, "candles", restBurst, restRefill); err != nil {
		return nil, fmt.Errorf("get candles %s: %w", symbol, err)
	}

	var resp candleResponse
	err := c.http.GetJSON(ctx, c.baseURL+"/stock/candle", url.Values{
		"symbol":     {symbol},
		"resolution": {resolutionFor(tf)},
		"from":       {strconv.FormatInt(from.Unix(), 10)},
		"to":         {strconv.FormatInt(to.Unix(), 10)},
		"token":      {c.apiKey},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("get candles %s: %w", symbol, err)
	}
	if resp.Status == "no_data" {
		return nil, nil
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("get candles %s: status %q", symbol, resp.Status)
	}

	n := len(resp.Time)
	if len(resp.Open) != n || len(resp.High) != n || len(resp.Low) != n || len(resp.Close) != n || len(resp.Volume) != n {
		return nil, fmt.Errorf("get candles %s: ragged response arrays", symbol)
	}

	bars := make([]models.MarketBar, 0, n)
	for i := 0; i < n; i++ {
		bars = append(bars, models.MarketBar{
			Symbol:    symbol,
			Timestamp: time.Unix(resp.Time[i], 0).UTC(),
			Open:      resp.Open[i],
			High:      resp.High[i],
			Low:       resp.Low[i],
			Close:     resp.Close[i],
			Volume:    resp.Volume[i],
		})
	}

	// Only cache windows that have fully closed; the current window would
	// serve stale bars.
	if c.cache != nil && to.Before(time.Now().Add(-tf.Duration())) {
		if err := c.cache.Set(ctx, key, bars, c.ttl); err != nil && c.l != nil {
			c.l.Warn("marketdata cache write failed", applogger.Error(err))
		}
	}

	return bars, nil
}

func resolutionFor(tf drepo.Timeframe) string {
	switch tf {
	case drepo.TF1m:
		return "1"
	case drepo.TF1h:
		return "60"
	case drepo.TF1d:
		return "D"
	default:
		return "D"
	}
}

var _ drepo.BarSource = (*CandleClient)(nil)
