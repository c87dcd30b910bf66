package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"GFQuant/internal/domain/models"
	domrepo "GFQuant/internal/domain/repository"
	pkgch "GFQuant/pkg/clickhouse"
	applogger "GFQuant/pkg/logger"
)

// CHSignalStore implements SignalStore backed by ClickHouse. Tables use
// ReplacingMergeTree keyed by (symbol, ts, horizon) so that re-running the
// pipeline over the same window overwrites rather than duplicates.
type CHSignalStore struct {
	ch       *pkgch.Client
	db       *sql.DB
	database string
	l        *applogger.Logger
}

func NewCHSignalStore(ch *pkgch.Client, database string) *CHSignalStore {
	return &CHSignalStore{ch: ch, db: ch.DB(), database: database}
}

// SetLogger injects a structured logger.
func (s *CHSignalStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHSignalStore) Init(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE DATABASE IF NOT EXISTS %s`, s.database),
		fmt.Sprintf(`
            CREATE TABLE IF NOT EXISTS %s.signals (
                symbol      String,
                ts          DateTime('UTC'),
                horizon     LowCardinality(String),
                decision    LowCardinality(String),
                strength    Float64,
                scorer      LowCardinality(String),
                close       Float64,
                created_at  DateTime DEFAULT now()
            ) ENGINE = ReplacingMergeTree(created_at)
            ORDER BY (symbol, ts, horizon)
        `, s.database),
		fmt.Sprintf(`
            CREATE TABLE IF NOT EXISTS %s.feature_rows (
                symbol       String,
                ts           DateTime('UTC'),
                horizon      LowCardinality(String),
                longitude    Float64,
                year_pillar  UInt8,
                month_pillar UInt8,
                day_pillar   UInt8,
                hour_pillar  UInt8,
                wood         Float64,
                fire         Float64,
                earth        Float64,
                metal        Float64,
                water        Float64,
                created_at   DateTime DEFAULT now()
            ) ENGINE = ReplacingMergeTree(created_at)
            ORDER BY (symbol, ts, horizon)
        `, s.database),
		fmt.Sprintf(`
            CREATE TABLE IF NOT EXISTS %s.bars (
                symbol      String,
                ts          DateTime('UTC'),
                open        Float64,
                high        Float64,
                low         Float64,
                close       Float64,
                vol         Float64,
                created_at  DateTime DEFAULT now()
            ) ENGINE = ReplacingMergeTree(created_at)
            ORDER BY (symbol, ts)
        `, s.database),
	}
	return s.ch.InitSchema(ctx, stmts)
}

func (s *CHSignalStore) StoreSignals(ctx context.Context, signals []models.Signal) error {
	if len(signals) == 0 {
		return nil
	}
	start := time.Now()
	q := fmt.Sprintf(
		"INSERT INTO %s.signals (symbol, ts, horizon, decision, strength, scorer, close) VALUES (?, ?, ?, ?, ?, ?, ?)",
		s.database)
	err := s.ch.BatchInsert(ctx, q, len(signals), func(i int, stmt *sql.Stmt) error {
		sg := signals[i]
		_, e := stmt.ExecContext(ctx,
			sg.Symbol, sg.Timestamp.UTC(), sg.Horizon,
			string(sg.Decision), sg.Strength, sg.Scorer, sg.Row.Bar.Close)
		return e
	})
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse store_signals error",
				applogger.Int("rows", len(signals)),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("store signals: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse store_signals ok",
			applogger.Int("rows", len(signals)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *CHSignalStore) StoreFeatures(ctx context.Context, symbol string, rows []models.FeatureRow) error {
	if len(rows) == 0 {
		return nil
	}
	q := fmt.Sprintf(
		"INSERT INTO %s.feature_rows (symbol, ts, horizon, longitude, year_pillar, month_pillar, day_pillar, hour_pillar, wood, fire, earth, metal, water) "+
			"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		s.database)
	err := s.ch.BatchInsert(ctx, q, len(rows), func(i int, stmt *sql.Stmt) error {
		r := rows[i]
		p := r.Pillars
		_, e := stmt.ExecContext(ctx,
			symbol, r.TimePoint.Time.UTC(), r.Horizon, r.TimePoint.Longitude,
			uint8(p.Year.Index()), uint8(p.Month.Index()), uint8(p.Day.Index()), uint8(p.Hour.Index()),
			r.Elements.Get(models.Wood), r.Elements.Get(models.Fire), r.Elements.Get(models.Earth),
			r.Elements.Get(models.Metal), r.Elements.Get(models.Water))
		return e
	})
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse store_features error",
				applogger.String("symbol", symbol),
				applogger.Int("rows", len(rows)),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("store features: %w", err)
	}
	return nil
}

func (s *CHSignalStore) StoreBars(ctx context.Context, bars []models.MarketBar) error {
	if len(bars) == 0 {
		return nil
	}
	q := fmt.Sprintf(
		"INSERT INTO %s.bars (symbol, ts, open, high, low, close, vol) VALUES (?, ?, ?, ?, ?, ?, ?)",
		s.database)
	err := s.ch.BatchInsert(ctx, q, len(bars), func(i int, stmt *sql.Stmt) error {
		b := bars[i]
		_, e := stmt.ExecContext(ctx, b.Symbol, b.Timestamp.UTC(), b.Open, b.High, b.Low, b.Close, b.Volume)
		return e
	})
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse store_bars error",
				applogger.Int("rows", len(bars)),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("store bars: %w", err)
	}
	return nil
}

func (s *CHSignalStore) QuerySignals(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.Signal, error) {
	start := time.Now()
	q := fmt.Sprintf(`
        SELECT symbol, ts, horizon, decision, strength, scorer
        FROM %s.signals FINAL
        WHERE symbol = ? AND ts >= ? AND ts <= ?
        ORDER BY ts ASC, horizon ASC
        LIMIT ?
    `, s.database)
	rows, err := s.db.QueryContext(ctx, q, symbol, from.UTC(), to.UTC(), limit)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse query_signals error",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("query signals: %w", err)
	}
	defer rows.Close()

	out := make([]models.Signal, 0, 256)
	for rows.Next() {
		var sg models.Signal
		var decision string
		if err := rows.Scan(&sg.Symbol, &sg.Timestamp, &sg.Horizon, &decision, &sg.Strength, &sg.Scorer); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		sg.Decision = models.Decision(decision)
		out = append(out, sg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse query_signals ok",
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHSignalStore) QueryBars(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.MarketBar, error) {
	q := fmt.Sprintf(`
        SELECT symbol, ts, open, high, low, close, vol
        FROM %s.bars FINAL
        WHERE symbol = ? AND ts >= ? AND ts <= ?
        ORDER BY ts ASC
        LIMIT ?
    `, s.database)
	rows, err := s.db.QueryContext(ctx, q, symbol, from.UTC(), to.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	out := make([]models.MarketBar, 0, 256)
	for rows.Next() {
		var b models.MarketBar
		if err := rows.Scan(&b.Symbol, &b.Timestamp, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *CHSignalStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHSignalStore) Close() error {
	return nil // connection pool is owned by pkg/clickhouse
}

var _ domrepo.SignalStore = (*CHSignalStore)(nil)
