// Package jobs runs background work on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is periodic work. Run reports how many items it acted on.
type Job interface {
	Name() string
	Run(ctx context.Context) int
}

// Scheduler runs jobs on cron expressions with a seconds field.
// Every run shares one context that is cancelled by Stop.
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
}

func NewScheduler(logger *zap.Logger) *Scheduler {
	cronLog := zapCronLogger{logger: logger.Sugar()}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
}

// Schedule runs job whenever spec fires, e.g. "0 0 8 * * *" for 08:00 daily.
func (s *Scheduler) Schedule(spec string, job Job) error {
	run := cron.FuncJob(func() {
		start := time.Now()
		n := job.Run(s.ctx)
		s.logger.Info("Job finished",
			zap.String("job", job.Name()),
			zap.Int("items", n),
			zap.Duration("duration", time.Since(start)))
	})
	if _, err := s.cron.AddJob(spec, run); err != nil {
		return fmt.Errorf("schedule %s at %q: %w", job.Name(), spec, err)
	}
	s.logger.Info("Job scheduled", zap.String("job", job.Name()), zap.String("spec", spec))
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels the run context and stops firing new runs.
// The returned context is done once in-flight runs return.
func (s *Scheduler) Stop() context.Context {
	s.cancel()
	return s.cron.Stop()
}

// zapCronLogger routes cron's own messages (panics, skipped runs) into zap.
type zapCronLogger struct {
	logger *zap.SugaredLogger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
