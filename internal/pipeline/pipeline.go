package pipeline

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"songlake/internal/ddl"
	"songlake/internal/domain"
)

// Stage names.
const (
	StageSongs     = "songs"
	StageLogs      = "logs"
	StageSongplays = "songplays"
)

// Options tunes a Runner.
type Options struct {
	// TimeZone is the zone start_time is expressed in. Empty means UTC.
	TimeZone string
	// Match selects the songplay join predicate. Empty means title only.
	Match domain.MatchStrategy
	// Concurrency caps the stages running at once within a level.
	// Values below 1 run stages one at a time.
	Concurrency int
}

// Runner executes one complete run: every stage, every table, fail-fast.
type Runner struct {
	db     *sql.DB
	songs  domain.Source
	logs   domain.Source
	sink   domain.Sink
	opts   Options
	logger *slog.Logger
	now    func() time.Time
}

// NewRunner creates a Runner. All relations live in db, which must be the
// session the sources load into and the sink writes from.
func NewRunner(db *sql.DB, songs, logs domain.Source, sink domain.Sink, opts Options, logger *slog.Logger) *Runner {
	if opts.Match == "" {
		opts.Match = domain.MatchByTitle
	}
	return &Runner{
		db:     db,
		songs:  songs,
		logs:   logs,
		sink:   sink,
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
}

// runState collects the results of one run. Stages of a level append to it
// concurrently.
type runState struct {
	logger *slog.Logger

	mu     sync.Mutex
	tables []domain.TableResult
	stages []domain.StageResult
}

func (s *runState) addTable(t domain.TableResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables = append(s.tables, t)
}

func (s *runState) addStage(st domain.StageResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stages = append(s.stages, st)
}

// stages returns the dependency graph of a run.
func (r *Runner) stages(st *runState) []Stage {
	return []Stage{
		{Name: StageSongs, Run: func(ctx context.Context) error { return r.buildSongs(ctx, st) }},
		{Name: StageLogs, Run: func(ctx context.Context) error { return r.buildLogs(ctx, st) }},
		{
			Name:      StageSongplays,
			DependsOn: []string{StageSongs, StageLogs},
			Run:       func(ctx context.Context) error { return r.buildSongplays(ctx, st) },
		},
	}
}

// Run executes every stage level by level. The first failing stage cancels
// the others and its error is returned; tables already written stay written.
func (r *Runner) Run(ctx context.Context) (*domain.RunReport, error) {
	report := &domain.RunReport{RunID: domain.NewRunID(), StartedAt: r.now().UTC()}
	st := &runState{logger: r.logger.With("run_id", report.RunID)}

	stages := r.stages(st)
	levels, err := ResolveExecutionOrder(stages)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]Stage, len(stages))
	for _, s := range stages {
		byName[s.Name] = s
	}

	st.logger.Info("run started",
		"songs", r.songs.Location(),
		"logs", r.logs.Location(),
		"match", r.opts.Match,
		"levels", len(levels),
	)

	limit := max(r.opts.Concurrency, 1)
	for _, level := range levels {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(limit)
		for _, name := range level {
			stage := byName[name]
			g.Go(func() error {
				return r.runStage(gctx, stage, st)
			})
		}
		if err := g.Wait(); err != nil {
			st.logger.Error("run failed", "error", err)
			return nil, err
		}
	}

	report.FinishedAt = r.now().UTC()
	report.Stages = st.stages
	report.Tables = orderTables(st.tables)
	st.logger.Info("run finished", "duration", report.FinishedAt.Sub(report.StartedAt), "tables", len(report.Tables))
	return report, nil
}

func (r *Runner) runStage(ctx context.Context, stage Stage, st *runState) error {
	logger := st.logger.With("stage", stage.Name)
	start := time.Now()
	logger.Info("stage started")
	if err := stage.Run(ctx); err != nil {
		logger.Error("stage failed", "error", err, "duration", time.Since(start))
		return fmt.Errorf("stage %s: %w", stage.Name, err)
	}
	d := time.Since(start)
	st.addStage(domain.StageResult{Name: stage.Name, Duration: d})
	logger.Info("stage finished", "duration", d)
	return nil
}

// materialize creates or replaces relation as the result of query.
func (r *Runner) materialize(ctx context.Context, relation, query string) error {
	stmt, err := ddl.CreateTableAs(relation, query)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("materialize %s: %w", relation, err)
	}
	return nil
}

// write hands spec to the sink and records the result.
func (r *Runner) write(ctx context.Context, spec domain.TableSpec, st *runState) error {
	res, err := r.sink.Write(ctx, spec)
	if err != nil {
		return err
	}
	st.addTable(*res)
	return nil
}

// orderTables sorts results into the canonical output order.
func orderTables(tables []domain.TableResult) []domain.TableResult {
	rank := make(map[string]int)
	for i, s := range domain.OutputSpecs() {
		rank[s.Name] = i
	}
	out := slices.Clone(tables)
	slices.SortFunc(out, func(a, b domain.TableResult) int {
		return rank[a.Name] - rank[b.Name]
	})
	return out
}
