// Package batch runs one scenario across many noise seeds. Each run
// owns a private physics world, so runs execute concurrently.
package batch

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"sync"

	"github.com/san-kum/botsim/internal/geom"
	"github.com/san-kum/botsim/internal/world"
)

// Spec describes a seed sweep: the shared scenario plus how many
// consecutive seeds to run it under.
type Spec struct {
	Runs      int
	SeedStart uint64

	// Options seeds each run's world; Seed and DataDir are overridden
	// per run.
	Options world.Options

	Spawn    geom.Pose
	Linear   float64
	Angular  float64
	Duration float64
}

// Result summarizes one seeded run.
type Result struct {
	Seed      uint64
	FinalTrue geom.Pose
	FinalOdom geom.Pose
	Drift     float64
}

// Run executes the sweep and returns one result per seed, in seed
// order. The first run error aborts the whole sweep.
func Run(ctx context.Context, spec Spec) ([]Result, error) {
	if spec.Runs <= 0 {
		return nil, fmt.Errorf("batch: need at least one run, got %d", spec.Runs)
	}
	if spec.Duration <= 0 {
		return nil, fmt.Errorf("batch: duration must be positive, got %f", spec.Duration)
	}

	results := make([]Result, spec.Runs)
	errs := make([]error, spec.Runs)

	var wg sync.WaitGroup
	for i := 0; i < spec.Runs; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = runOne(ctx, spec, spec.SeedStart+uint64(idx))
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func runOne(ctx context.Context, spec Spec, seed uint64) (Result, error) {
	opts := spec.Options
	opts.Seed = seed
	opts.DataDir = filepath.Join(spec.Options.DataDir, fmt.Sprintf("seed_%d", seed))

	s := world.New(opts)
	s.InitializeRobot(spec.Spawn)
	s.Robot().SetDesiredVelocity(spec.Linear, spec.Angular)

	updates := int(spec.Duration / (s.Dt * float64(s.TicksPerUpdate)))
	for i := 0; i < updates; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("batch: %w", err)
		}
		if err := s.Update(); err != nil {
			return Result{}, err
		}
	}

	if _, err := s.Logger().Finish(); err != nil {
		return Result{}, err
	}

	truePose := s.Robot().TruePose()
	odomPose := s.Robot().OdomPose()

	return Result{
		Seed:      seed,
		FinalTrue: truePose,
		FinalOdom: odomPose,
		Drift:     math.Hypot(odomPose.X-truePose.X, odomPose.Y-truePose.Y),
	}, nil
}

// Drifts extracts the drift column from a result set.
func Drifts(results []Result) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = r.Drift
	}
	return out
}
