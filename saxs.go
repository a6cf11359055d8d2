// Package saxs is the library facade: it wires a Config, an
// excluded-volume setup, and a recompute strategy into a histmgr.Manager,
// and exposes the resulting Composite Distance Histogram's scattering
// operations to callers that have no reason to import the internal
// packages directly.
package saxs

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ausaxs/scattercore/config"
	"github.com/ausaxs/scattercore/internal/debye"
	"github.com/ausaxs/scattercore/internal/histmgr"
	"github.com/ausaxs/scattercore/internal/model"
	"github.com/ausaxs/scattercore/internal/workerpool"
)

// Re-exported so callers only need to import this package for the common
// construction path.
type (
	Variant      = histmgr.Variant
	ExvSetup     = histmgr.ExvSetup
	Config       = config.Config
	StateManager = model.StateManager
	AtomicModel  = model.AtomicModel
)

const (
	VariantPlain      = histmgr.VariantPlain
	VariantAverageExv = histmgr.VariantAverageExv
	VariantGridExv    = histmgr.VariantGridExv
)

// Engine binds one of the three recompute strategies to a fixed
// configuration and excluded-volume setup.
type Engine struct {
	manager histmgr.Manager
}

// NewFullEngine builds an Engine that recomputes the whole histogram from
// scratch on every Calculate call.
func NewFullEngine(cfg Config, exv ExvSetup, pool *workerpool.Pool) *Engine {
	return &Engine{manager: histmgr.NewFullManager(cfg, exv, pool)}
}

// NewPartialEngine builds an Engine that recomputes only the body pairs a
// StateManager reports as touched since the previous call.
func NewPartialEngine(cfg Config, exv ExvSetup, pool *workerpool.Pool, state StateManager) *Engine {
	return &Engine{manager: histmgr.NewPartialManager(cfg, exv, pool, state)}
}

// NewSymmetryEngine builds an Engine that materializes every body's
// symmetry images before running the full pairwise sweep.
func NewSymmetryEngine(cfg Config, exv ExvSetup, pool *workerpool.Pool) *Engine {
	return &Engine{manager: histmgr.NewSymmetryManager(cfg, exv, pool)}
}

// Calculate blocks until the underlying manager's recompute strategy has
// produced or refreshed a Composite Distance Histogram for m.
func (e *Engine) Calculate(m AtomicModel) (*debye.CompositeDistanceHistogram, error) {
	return e.manager.Calculate(m)
}

// BatchCalculate runs Calculate for every (engine, model) pair concurrently
// and returns the histograms in the same order, for independent trajectory
// frames or independent molecules sharing nothing but the caller's CPU
// budget. Every call is started up front and runs to completion; a failing
// call does not cancel the others, and once all have returned the first
// error encountered is returned with no histograms.
func BatchCalculate(ctx context.Context, engines []*Engine, models []AtomicModel) ([]*debye.CompositeDistanceHistogram, error) {
	results := make([]*debye.CompositeDistanceHistogram, len(engines))
	g, _ := errgroup.WithContext(ctx)
	for i := range engines {
		i := i
		g.Go(func() error {
			h, err := engines[i].Calculate(models[i])
			if err != nil {
				return err
			}
			results[i] = h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
