// Package grid is the excluded-volume voxel-grid collaborator's contract
// for the Grid-exv variant: given a molecule, produce a set of "dummy"
// points sampling the volume it displaces. The real placement algorithm
// (surface detection, cavity filling) is explicitly a collaborator's job;
// this package carries only the data contract plus a reference
// implementation simple enough to unit-test the histogram manager against.
//
// The reference implementation below adapts a cell-hashing scheme used
// elsewhere in the codebase for spatial neighbor queries, turning it from
// a neighbor-query index into an occupancy grid that emits one dummy
// point per occupied cell.
package grid

import (
	"math"

	"github.com/ausaxs/scattercore/internal/model"
)

// DummyPoint is one excluded-volume sample point.
type DummyPoint struct {
	Pos    model.Vector3
	Weight float64
}

// Config holds the grid's configuration knobs.
type Config struct {
	CellWidth        float64
	ExvWidth         float64
	SurfaceThickness float64
}

// Generator produces dummy excluded-volume points for a set of atoms. A
// production front-end supplies a real surface/cavity-aware implementation;
// SimpleGrid below is the occupancy-grid reference used by this module's
// own tests.
type Generator interface {
	Generate(atoms []model.AtomFF) []DummyPoint
}

// SimpleGrid buckets atoms into cells of CellWidth and emits one dummy
// point per occupied cell, at the cell center, weighted by ExvWidth³.
type SimpleGrid struct {
	Config
}

type cellKey struct{ ix, iy, iz int }

func (g SimpleGrid) cellOf(p model.Vector3) cellKey {
	return cellKey{
		ix: int(math.Floor(p.X / g.CellWidth)),
		iy: int(math.Floor(p.Y / g.CellWidth)),
		iz: int(math.Floor(p.Z / g.CellWidth)),
	}
}

// Generate returns one dummy point per occupied voxel. Skipping the
// outermost SurfaceThickness-deep shell is left to a real implementation;
// this reference grid treats every occupied cell identically.
func (g SimpleGrid) Generate(atoms []model.AtomFF) []DummyPoint {
	if g.CellWidth <= 0 {
		g.CellWidth = 1.0
	}
	occupied := make(map[cellKey]bool)
	for _, a := range atoms {
		occupied[g.cellOf(a.Pos)] = true
	}
	weight := g.ExvWidth * g.ExvWidth * g.ExvWidth
	out := make([]DummyPoint, 0, len(occupied))
	for c := range occupied {
		center := model.Vector3{
			X: (float64(c.ix) + 0.5) * g.CellWidth,
			Y: (float64(c.iy) + 0.5) * g.CellWidth,
			Z: (float64(c.iz) + 0.5) * g.CellWidth,
		}
		out = append(out, DummyPoint{Pos: center, Weight: weight})
	}
	return out
}
