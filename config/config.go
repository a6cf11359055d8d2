// Package config holds the scattering engine's configuration enumeration.
// It imposes no file format or flag-parsing opinion — assembling a Config
// from disk, env, or CLI flags is a collaborator's job.
package config

import (
	"fmt"

	"github.com/ausaxs/scattercore/internal/saxserr"
)

// ExvMethod names an excluded-volume method (Simple, FoXS, Pepsi, CRYSOL).
// No code in this module reads it: the managers build the same Composite
// Distance Histogram for every value, and the excluded-volume evaluator is
// the one passed in histmgr.ExvSetup.
type ExvMethod int

const (
	ExvSimple ExvMethod = iota
	ExvFoXS
	ExvPepsi
	ExvCRYSOL
)

// AxesConfig is the output q-range and the distance-bin discretization.
type AxesConfig struct {
	QMin     float64 // 1/Å
	QMax     float64 // 1/Å
	BinCount int     // number of distance bins in the accumulators
	BinWidth float64 // Å, typically 0.1
}

// HistConfig selects the weighted vs unweighted accumulator family.
type HistConfig struct {
	WeightedBins bool
}

// GridConfig drives the Grid-exv collaborator.
type GridConfig struct {
	CellWidth        float64
	ExvWidth         float64
	SurfaceThickness float64
}

// ExvConfig carries the excluded-volume method and a displaced-volume-per-
// atom scalar. Neither field is read by the managers or the histogram.
type ExvConfig struct {
	Method             ExvMethod
	DisplacedVolumePer float64
}

// GeneralConfig covers cross-cutting scheduling knobs.
type GeneralConfig struct {
	JobSize int // inner-loop chunk size for task dispatch
	Workers int // worker pool size; <=0 means hardware concurrency
}

// Config is the full configuration enumeration.
type Config struct {
	Axes    AxesConfig
	Hist    HistConfig
	Grid    GridConfig
	Exv     ExvConfig
	General GeneralConfig
}

// Default returns a Config with sensible defaults: a 1000-bin, 0.1 Å
// histogram, log-ish q-range, unweighted bins, simple exv.
func Default() Config {
	return Config{
		Axes: AxesConfig{
			QMin:     1e-4,
			QMax:     1.0,
			BinCount: 1000,
			BinWidth: 0.1,
		},
		Hist: HistConfig{WeightedBins: false},
		Grid: GridConfig{CellWidth: 1.0, ExvWidth: 1.0, SurfaceThickness: 3.0},
		Exv:  ExvConfig{Method: ExvSimple, DisplacedVolumePer: 16.8},
		General: GeneralConfig{
			JobSize: 1000,
			Workers: 0,
		},
	}
}

// Validate enforces the InvalidConfiguration taxonomy member.
func (c Config) Validate() error {
	if c.Axes.QMin >= c.Axes.QMax {
		return fmt.Errorf("%w: qmin (%g) must be < qmax (%g)", saxserr.ErrInvalidConfiguration, c.Axes.QMin, c.Axes.QMax)
	}
	if c.Axes.BinWidth <= 0 {
		return fmt.Errorf("%w: bin width must be positive, got %g", saxserr.ErrInvalidConfiguration, c.Axes.BinWidth)
	}
	if c.Axes.BinCount < 10 {
		return fmt.Errorf("%w: bin count must be >= 10, got %d", saxserr.ErrInvalidConfiguration, c.Axes.BinCount)
	}
	return nil
}
