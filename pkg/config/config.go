package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" validate:"required"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Calendar struct {
		Timezone   string  `yaml:"timezone" default:"Asia/Hong_Kong"`
		Longitude  float64 `yaml:"longitude" default:"114.17" validate:"gte=-180,lte=180"`
		Correction string  `yaml:"correction" default:"spencer" validate:"oneof=spencer none"`
		MinYear    int     `yaml:"min_year" default:"1900" validate:"gte=1900"`
		MaxYear    int     `yaml:"max_year" default:"2099" validate:"lte=2099"`
	} `yaml:"calendar"`
	Pipeline struct {
		Horizons      []string      `yaml:"horizons"`
		BuyThreshold  float64       `yaml:"buy_threshold" default:"1.0"`
		SellThreshold float64       `yaml:"sell_threshold" default:"-1.0"`
		Scorer        string        `yaml:"scorer" default:"momentum" validate:"oneof=momentum element_balance"`
		Workers       int           `yaml:"workers" default:"4" validate:"gte=1,lte=64"`
		Lookback      time.Duration `yaml:"lookback" default:"2160h"`
		Timeframe     string        `yaml:"timeframe" default:"1d"`
		CronSchedule  string        `yaml:"cron_schedule" default:"30 9 * * MON-FRI"`
	} `yaml:"pipeline"`
	ClickHouse struct {
		Host             string        `yaml:"host" default:"localhost"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"gfquant"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"gfquant.signals"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"1s"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	MarketData struct {
		APIKey         string            `yaml:"api_key"`
		BaseURL        string            `yaml:"base_url" default:"https://finnhub.io/api/v1"`
		WebSocketURL   string            `yaml:"websocket_url" default:"wss://ws.finnhub.io"`
		Symbols        []string          `yaml:"symbols" validate:"min=1"`
		Listings       map[string]string `yaml:"listings"` // symbol -> listing date (2006-01-02 or RFC3339)
		Stream         bool              `yaml:"stream"`
		ReconnectDelay time.Duration     `yaml:"reconnect_delay" default:"5s"`
		PingInterval   time.Duration     `yaml:"ping_interval" default:"30s"`
		Timeout        time.Duration     `yaml:"timeout" default:"15s"`
	} `yaml:"marketdata"`
	Cache struct {
		Enabled bool          `yaml:"enabled" default:"true"`
		TTL     time.Duration `yaml:"ttl" default:"24h"`
		MaxSize int           `yaml:"max_size" default:"10000"`
		Redis   struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"gfquant"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

// Load reads and parses a YAML configuration file, applies defaults and
// validates the result.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if len(c.Pipeline.Horizons) == 0 {
		c.Pipeline.Horizons = []string{"+0d", "+1d", "+3d"}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("MARKETDATA_API_KEY"); v != "" {
		c.MarketData.APIKey = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.MarketData.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Pipeline.BuyThreshold <= c.Pipeline.SellThreshold {
		return fmt.Errorf("pipeline.buy_threshold (%v) must exceed pipeline.sell_threshold (%v)",
			c.Pipeline.BuyThreshold, c.Pipeline.SellThreshold)
	}
	if c.Calendar.MinYear > c.Calendar.MaxYear {
		return fmt.Errorf("calendar.min_year must not exceed calendar.max_year")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when kafka is enabled")
	}
	if _, err := time.LoadLocation(c.Calendar.Timezone); err != nil {
		return fmt.Errorf("calendar.timezone: %w", err)
	}
	return nil
}
