package histmgr

import (
	"github.com/ausaxs/scattercore/config"
	"github.com/ausaxs/scattercore/internal/debye"
	"github.com/ausaxs/scattercore/internal/model"
	"github.com/ausaxs/scattercore/internal/symmetry"
	"github.com/ausaxs/scattercore/internal/workerpool"
)

// SymmetryManager computes a Composite Distance Histogram as if every
// body's symmetry operators were materialized into explicit atom copies,
// by doing exactly that and delegating the actual sweep to a FullManager.
// This makes SymmetryManager(m) == FullManager(explicit_expansion(m)) true
// by construction rather than something a dispatch-without-materializing
// implementation would need to prove equivalent.
type SymmetryManager struct {
	full *FullManager
}

// NewSymmetryManager constructs a manager bound to cfg and the given
// excluded-volume setup.
func NewSymmetryManager(cfg config.Config, exv ExvSetup, pool *workerpool.Pool) *SymmetryManager {
	return &SymmetryManager{full: NewFullManager(cfg, exv, pool)}
}

// Calculate materializes every body's symmetry images into a flat set of
// bodies, then runs the full pairwise sweep over the expanded model.
func (s *SymmetryManager) Calculate(m model.AtomicModel) (*debye.CompositeDistanceHistogram, error) {
	var expanded []*model.Body
	for _, b := range m.Bodies() {
		for _, img := range symmetry.Materialize(b) {
			expanded = append(expanded, &model.Body{Atoms: img.Atoms, Waters: img.Waters})
		}
	}
	return s.full.Calculate(&model.InMemoryModel{BodyList: expanded})
}
