package histmgr

import (
	"github.com/ausaxs/scattercore/internal/debye"
	"github.com/ausaxs/scattercore/internal/model"
)

// Manager computes or refreshes a Composite Distance Histogram from an
// AtomicModel snapshot. FullManager, PartialManager, and SymmetryManager
// each implement it with a different recompute strategy.
type Manager interface {
	Calculate(model.AtomicModel) (*debye.CompositeDistanceHistogram, error)
}
