// Package scheduler rebuilds the job corpus on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/fadilmartias/job-matcher/internal/corpus"
	"github.com/fadilmartias/job-matcher/internal/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Reloader interface {
	Reload(ctx context.Context, refresh bool) (*corpus.Corpus, error)
}

// Scheduler wraps robfig/cron. A reload still running when the next tick
// fires causes that tick to be skipped.
type Scheduler struct {
	cron     *cron.Cron
	reloader Reloader
	spec     string
	log      *zap.Logger
}

func New(reloader Reloader, spec string, log *zap.Logger) *Scheduler {
	log = logger.OrNop(log).Named("scheduler")
	cl := cronLogger{log.Sugar()}
	return &Scheduler{
		cron:     cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		reloader: reloader,
		spec:     spec,
		log:      log,
	}
}

// Start registers the reload job and starts the cron loop. ctx bounds every
// reload the scheduler runs.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.runReload(ctx) }); err != nil {
		return fmt.Errorf("schedule %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.log.Info("reload schedule started", zap.String("spec", s.spec))
	return nil
}

// Stop stops the cron loop and waits for a running reload to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("reload schedule stopped")
}

func (s *Scheduler) runReload(ctx context.Context) {
	start := time.Now()
	c, err := s.reloader.Reload(ctx, true)
	if err != nil {
		s.log.Error("scheduled reload failed, keeping previous corpus", zap.Error(err))
		return
	}
	s.log.Info("scheduled reload complete", zap.Int("jobs", c.Len()), zap.Duration("took", time.Since(start)))
}

// cronLogger routes cron's own logging through zap.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
