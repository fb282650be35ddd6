package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"songlake/internal/domain"
)

// RunFunc performs one complete run.
type RunFunc func(ctx context.Context) (*domain.RunReport, error)

// Scheduler re-runs the whole pipeline on a cron schedule. Every tick is a
// full overwrite run; a tick that fires while the previous run is still in
// flight is skipped.
type Scheduler struct {
	run    RunFunc
	logger *slog.Logger
}

// NewScheduler creates a Scheduler around run.
func NewScheduler(run RunFunc, logger *slog.Logger) *Scheduler {
	return &Scheduler{run: run, logger: logger}
}

// ValidateSchedule checks a standard five-field cron expression or a
// descriptor such as "@hourly" or "@every 30m".
func ValidateSchedule(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return domain.ErrValidation("invalid cron schedule %q: %v", spec, err)
	}
	return nil
}

// Run blocks until ctx is done, triggering a run on every tick of spec.
// With immediate set, one run starts before the first tick. A failed run is
// logged and does not stop the schedule. Run returns after the in-flight run
// finishes.
func (s *Scheduler) Run(ctx context.Context, spec string, immediate bool) error {
	if err := ValidateSchedule(spec); err != nil {
		return err
	}
	l := cronLogger{s.logger}
	job := cron.NewChain(cron.Recover(l), cron.SkipIfStillRunning(l)).
		Then(cron.FuncJob(func() { s.tick(ctx) }))

	c := cron.New(cron.WithLogger(l))
	if _, err := c.AddJob(spec, job); err != nil {
		return fmt.Errorf("add schedule: %w", err)
	}
	if immediate {
		job.Run()
	}

	c.Start()
	s.logger.Info("scheduler started", "schedule", spec)

	<-ctx.Done()
	<-c.Stop().Done()
	s.logger.Info("scheduler stopped")
	return nil
}

func (s *Scheduler) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	report, err := s.run(ctx)
	if err != nil {
		s.logger.Warn("scheduled run failed", "error", err)
		return
	}
	s.logger.Info("scheduled run finished", "run_id", report.RunID, "tables", len(report.Tables))
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
