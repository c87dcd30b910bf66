package di

import (
	"fmt"
	"time"

	"GFQuant/internal/calendar"
	"GFQuant/internal/domain/models"
	"GFQuant/internal/domain/repository"
	domsvc "GFQuant/internal/domain/service"
	"GFQuant/internal/features"
	"GFQuant/internal/handler/api"
	internalrepo "GFQuant/internal/repository"
	"GFQuant/internal/service/marketdata"
	"GFQuant/internal/signal"
	"GFQuant/internal/usecase"
	"GFQuant/pkg/cache"
	pkgch "GFQuant/pkg/clickhouse"
	"GFQuant/pkg/config"
	xhttp "GFQuant/pkg/http"
	pkgkafka "GFQuant/pkg/kafka"
	applogger "GFQuant/pkg/logger"
	"GFQuant/pkg/metrics"
	"GFQuant/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithPool(10, 5, 5*time.Minute),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideSignalStore creates the ClickHouse-backed signal store. Schema init
// happens in App.Run where the app lifecycle context is available.
func ProvideSignalStore(ch *pkgch.Client, cfg *config.Config, l *applogger.Logger) repository.SignalStore {
	store := internalrepo.NewCHSignalStore(ch, cfg.ClickHouse.Database)
	store.SetLogger(l)
	return store
}

// ProvidePublisher creates the Kafka signal publisher, or a no-op when Kafka
// is disabled.
func ProvidePublisher(cfg *config.Config) (repository.Publisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NopPublisher{}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCacheStore creates the bar cache: layered memory+Redis when Redis is
// enabled, plain memory otherwise, nil when caching is off.
func ProvideCacheStore(cfg *config.Config) (cache.Store, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	if cfg.Cache.Redis.Enabled {
		rc, err := cache.NewRedisCache(
			cache.WithRedisAddr(cfg.Cache.Redis.Addr),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return cache.NewLayeredCache(rc, cache.WithLayeredMemorySize(cfg.Cache.MaxSize)), nil
	}
	return cache.NewMemoryCache(
		cache.WithMemoryMaxSize(cfg.Cache.MaxSize),
		cache.WithMemoryTTL(cfg.Cache.TTL),
	), nil
}

// ProvideBarSource creates the REST candle client.
func ProvideBarSource(cfg *config.Config, store cache.Store, l *applogger.Logger) repository.BarSource {
	httpClient := xhttp.NewClient(xhttp.WithTimeout(cfg.MarketData.Timeout))
	return marketdata.NewCandleClient(
		cfg.MarketData.APIKey,
		cfg.MarketData.BaseURL,
		httpClient,
		store,
		cfg.Cache.TTL,
		l,
	)
}

// ProvideTickStream creates the live WebSocket tick stream.
func ProvideTickStream(cfg *config.Config, l *applogger.Logger) repository.TickStream {
	return marketdata.NewStream(
		cfg.MarketData.APIKey,
		cfg.MarketData.WebSocketURL,
		cfg.MarketData.Symbols,
		cfg.MarketData.ReconnectDelay,
		cfg.MarketData.PingInterval,
		l,
	)
}

// Engines bundles the corrected and uncorrected calendar engines.
type Engines struct {
	Corrected *calendar.Engine
	Raw       *calendar.Engine
}

// ProvideEngines creates the calendar engines for the configured era.
func ProvideEngines(cfg *config.Config) Engines {
	return Engines{
		Corrected: calendar.NewEngine(calendar.CorrectorFor(cfg.Calendar.Correction), cfg.Calendar.MinYear, cfg.Calendar.MaxYear),
		Raw:       calendar.NewEngine(calendar.NopCorrector{}, cfg.Calendar.MinYear, cfg.Calendar.MaxYear),
	}
}

// ProvideNatalBook computes the per-instrument natal charts from the
// configured listing dates. A date without a time of day resolves to noon in
// the calendar timezone, keeping it clear of the 23:00 pillar-day rollover.
func ProvideNatalBook(cfg *config.Config, engines Engines) (*features.NatalBook, error) {
	loc, err := time.LoadLocation(cfg.Calendar.Timezone)
	if err != nil {
		return nil, fmt.Errorf("calendar timezone: %w", err)
	}
	listings := make(map[string]models.TimePoint, len(cfg.MarketData.Listings))
	for symbol, raw := range cfg.MarketData.Listings {
		at, err := time.ParseInLocation(time.RFC3339, raw, loc)
		if err != nil {
			day, derr := time.ParseInLocation("2006-01-02", raw, loc)
			if derr != nil {
				return nil, fmt.Errorf("listing date %s=%q: %w", symbol, raw, derr)
			}
			at = day.Add(12 * time.Hour)
		}
		listings[symbol] = models.NewTimePoint(at, cfg.Calendar.Longitude)
	}
	return features.NewNatalBook(engines.Corrected, listings)
}

// ProvideShifter creates the feature shifter over the corrected engine.
func ProvideShifter(engines Engines) *features.Shifter {
	return features.NewShifter(engines.Corrected)
}

// ProvideSignalEngine creates the thresholding signal engine.
func ProvideSignalEngine(cfg *config.Config) (*signal.Engine, error) {
	return signal.NewEngine(cfg.Pipeline.BuyThreshold, cfg.Pipeline.SellThreshold)
}

// ProvideScorer selects the configured scorer.
func ProvideScorer(cfg *config.Config) (domsvc.Scorer, error) {
	switch cfg.Pipeline.Scorer {
	case "momentum":
		return signal.NewMomentumScorer(), nil
	case "element_balance":
		return signal.NewElementBalanceScorer(nil), nil
	default:
		return nil, fmt.Errorf("unknown scorer: %s", cfg.Pipeline.Scorer)
	}
}

// ProvideHorizons parses the configured horizon labels.
func ProvideHorizons(cfg *config.Config) ([]models.Horizon, error) {
	horizons := make([]models.Horizon, 0, len(cfg.Pipeline.Horizons))
	for _, label := range cfg.Pipeline.Horizons {
		h, err := models.ParseHorizon(label)
		if err != nil {
			return nil, err
		}
		horizons = append(horizons, h)
	}
	return horizons, nil
}

// ProvidePipeline wires the batch pipeline use case.
func ProvidePipeline(
	shifter *features.Shifter,
	engine *signal.Engine,
	scorer domsvc.Scorer,
	source repository.BarSource,
	store repository.SignalStore,
	pub repository.Publisher,
	m repository.Metrics,
	l *applogger.Logger,
	horizons []models.Horizon,
	cfg *config.Config,
) (*usecase.Pipeline, error) {
	return usecase.NewPipeline(
		shifter, engine, scorer, source, store, pub, m, l,
		horizons,
		cfg.Calendar.Longitude,
		cfg.Pipeline.Workers,
	)
}

// ProvideScheduler wires the cron scheduler.
func ProvideScheduler(pipeline *usecase.Pipeline, l *applogger.Logger, cfg *config.Config) *usecase.Scheduler {
	return usecase.NewScheduler(
		pipeline, l,
		cfg.MarketData.Symbols,
		cfg.Pipeline.Lookback,
		repository.NormalizeTimeframe(cfg.Pipeline.Timeframe),
		cfg.Pipeline.CronSchedule,
	)
}

// ProvideCollector wires the live collector, or nil when streaming is off.
func ProvideCollector(stream repository.TickStream, pipeline *usecase.Pipeline, m repository.Metrics, l *applogger.Logger, cfg *config.Config) *usecase.Collector {
	if !cfg.MarketData.Stream {
		return nil
	}
	return usecase.NewCollector(stream, pipeline, m, l, repository.NormalizeTimeframe(cfg.Pipeline.Timeframe))
}

// ProvideHandler wires the HTTP API handler.
func ProvideHandler(l *applogger.Logger, pipeline *usecase.Pipeline, store repository.SignalStore, engines Engines, natal *features.NatalBook) *api.Handler {
	return api.NewHandler(l, pipeline, store, engines.Corrected, engines.Raw, natal)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	scheduler *usecase.Scheduler,
	collector *usecase.Collector,
	store repository.SignalStore,
	pub repository.Publisher,
	chClient *pkgch.Client,
	handler *api.Handler,
) *server.App {
	return server.New(cfg, l, scheduler, collector, store, pub, chClient, handler)
}
