package sim

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nathoo/skirmish/engine"
	"github.com/nathoo/skirmish/engine/catalog"
	"github.com/nathoo/skirmish/types"
)

// Runner executes the trials of a scenario on a bounded worker pool.
type Runner struct {
	Catalog *catalog.Catalog
	// Workers bounds concurrent battles. Zero means GOMAXPROCS.
	Workers int
	// Seed is the run seed. Trial i is seeded with engine.TrialSeed(Seed, i)
	// so results do not depend on scheduling.
	Seed int64
	// Trials and RoundCap apply to scenarios that do not set their own.
	// A zero RoundCap means engine.DefaultRoundCap, a negative one no cap.
	Trials   int
	RoundCap int
	Logger   *zap.Logger
	// OnProgress, if set, is called after each finished trial. It may be
	// called from several goroutines at once.
	OnProgress func(done, total int)
}

func (r *Runner) catalog() *catalog.Catalog {
	if r.Catalog != nil {
		return r.Catalog
	}
	return catalog.Default()
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return zap.NewNop()
}

func (r *Runner) roundCap(sc Scenario) int {
	switch {
	case sc.RoundCap > 0:
		return sc.RoundCap
	case r.RoundCap > 0:
		return r.RoundCap
	case r.RoundCap < 0:
		return 0
	}
	return engine.DefaultRoundCap
}

// TrialCount is the number of trials Run executes for sc.
func (r *Runner) TrialCount(sc Scenario) int {
	if sc.Trials <= 0 && r.Trials > 0 {
		return r.Trials
	}
	return sc.TrialCount()
}

// Run executes every trial of sc and summarizes the results. Cancelling
// ctx stops new trials from starting; Run then returns the context error.
func (r *Runner) Run(ctx context.Context, sc Scenario) (*Summary, error) {
	start := time.Now()
	results, err := r.Results(ctx, sc)
	if err != nil {
		return nil, err
	}
	s := Summarize(sc, r.Seed, results)
	r.logger().Info("run finished",
		zap.String("scenario", sc.Name),
		zap.Duration("elapsed", time.Since(start)),
		zap.Float64("victory_pct", s.Percent(types.OutcomeVictory)),
		zap.Float64("net_mean", s.NetMean))
	return s, nil
}

// Results executes every trial of sc and returns the results in trial
// order.
func (r *Runner) Results(ctx context.Context, sc Scenario) ([]types.BattleResult, error) {
	cat := r.catalog()
	log := r.logger()
	if err := sc.Validate(cat); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	total := r.TrialCount(sc)
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	log.Info("starting run",
		zap.String("scenario", sc.Name),
		zap.Int("trials", total),
		zap.Int("workers", workers),
		zap.Int64("seed", r.Seed))

	// Each trial writes only its own slot.
	results := make([]types.BattleResult, total)
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < total; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b, err := sc.NewBattle(cat, engine.TrialSeed(r.Seed, i), r.roundCap(sc), zap.NewNop())
			if err != nil {
				return fmt.Errorf("trial %d: %w", i, err)
			}
			results[i] = b.Perform()
			if results[i].Anomaly {
				log.Warn("trial hit the round cap", zap.Int("trial", i), zap.Int("rounds", results[i].Rounds))
			}
			n := done.Add(1)
			if r.OnProgress != nil {
				r.OnProgress(int(n), total)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Replay re-runs trial i of a run with the given seed, tracing every round
// to logger. The result is identical to the one the trial produced in Run.
func (r *Runner) Replay(sc Scenario, trial int, logger *zap.Logger) (types.BattleResult, error) {
	cat := r.catalog()
	if err := sc.Validate(cat); err != nil {
		return types.BattleResult{}, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	if trial < 0 {
		return types.BattleResult{}, fmt.Errorf("trial %d must not be negative", trial)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	b, err := sc.NewBattle(cat, engine.TrialSeed(r.Seed, trial), r.roundCap(sc), logger)
	if err != nil {
		return types.BattleResult{}, err
	}
	return b.Perform(), nil
}
