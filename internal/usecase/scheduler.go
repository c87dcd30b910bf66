package usecase

import (
	"context"
	"fmt"
	"time"

	drepo "GFQuant/internal/domain/repository"
	applogger "GFQuant/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler triggers batch pipeline runs on a cron schedule, one run per
// configured symbol over a rolling lookback window.
type Scheduler struct {
	pipeline *Pipeline
	l        *applogger.Logger
	cron     *cron.Cron

	symbols  []string
	lookback time.Duration
	tf       drepo.Timeframe
	spec     string
}

// NewScheduler creates a cron-driven pipeline scheduler.
func NewScheduler(pipeline *Pipeline, l *applogger.Logger, symbols []string, lookback time.Duration, tf drepo.Timeframe, spec string) *Scheduler {
	return &Scheduler{
		pipeline: pipeline,
		l:        l,
		cron:     cron.New(),
		symbols:  symbols,
		lookback: lookback,
		tf:       tf,
		spec:     spec,
	}
}

// Start registers the cron entry and begins scheduling.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("scheduler: bad cron spec %q: %w", s.spec, err)
	}
	s.cron.Start()
	if s.l != nil {
		s.l.Info("scheduler: started",
			applogger.String("spec", s.spec),
			applogger.Strings("symbols", s.symbols),
		)
	}
	return nil
}

// RunOnce runs the pipeline for every configured symbol over the lookback
// window ending now. Per-symbol failures are logged and do not stop the rest.
func (s *Scheduler) RunOnce(ctx context.Context) {
	to := time.Now().UTC()
	from := to.Add(-s.lookback)
	for _, sym := range s.symbols {
		if _, err := s.pipeline.Run(ctx, sym, from, to, s.tf); err != nil && s.l != nil {
			s.l.Error("scheduler: run failed",
				applogger.String("symbol", sym),
				applogger.Error(err),
			)
		}
	}
}

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	if s.l != nil {
		s.l.Info("scheduler: stopped")
	}
}
