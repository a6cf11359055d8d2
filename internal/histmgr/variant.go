// Package histmgr implements the histogram managers: Full-recompute
// (multithreaded, from scratch), Partial-recompute (state-machine-driven,
// O(K) on a single body move), and Symmetry-aware (expands a body's
// symmetry operators before sweeping). Each produces or refreshes a
// debye.CompositeDistanceHistogram.
package histmgr

import (
	"github.com/ausaxs/scattercore/internal/formfactor"
	"github.com/ausaxs/scattercore/internal/grid"
)

// Variant selects how the excluded volume is represented during a sweep.
type Variant int

const (
	// VariantPlain tracks only atom-atom, atom-water and water-water counts; the
	// Composite Histogram's ax/xx/wx terms stay at zero.
	VariantPlain Variant = iota
	// VariantAverageExv mirrors every atom-atom count into the (t,E) and
	// (E,E) slices using a single shared excluded-volume form factor, the
	// same displaced-volume-per-atom scalar applied regardless of the
	// pair's actual tags.
	//
	// A genuinely per-tag variant — one that accumulates separate ax/xx
	// distance profiles per real-atom-tag pair instead of mirroring into a
	// single combined exv slice, the way the upstream engine's explicit
	// histogram manager does — is not implemented here: it would require
	// widening Distribution3D's exv slot from one row to one row per atom
	// tag, which no sweep in this package currently does. VariantAverageExv
	// is the only exv-mirroring variant; wiring the wider accumulation is
	// future work, not a silent behavior gap.
	VariantAverageExv
	// VariantGridExv sweeps a second, grid-derived dummy-atom store
	// against the real atoms for ax and against itself for xx, instead of
	// mirroring real atom-atom counts.
	VariantGridExv
)

// ExvSetup bundles the inputs a Variant other than VariantPlain needs.
type ExvSetup struct {
	Variant  Variant
	Average  formfactor.ExvEvaluator // F_E(q) for VariantAverageExv and VariantGridExv
	Grid     grid.Generator          // VariantGridExv
	GridCell grid.Config
}
