package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ausaxs/scattercore/internal/model"
)

func TestSimpleGridOneDummyPerOccupiedCell(t *testing.T) {
	g := SimpleGrid{Config{CellWidth: 1.0, ExvWidth: 1.0}}
	atoms := []model.AtomFF{
		{Pos: model.Vector3{X: 0.1, Y: 0.1, Z: 0.1}},
		{Pos: model.Vector3{X: 0.2, Y: 0.2, Z: 0.2}}, // same cell as above
		{Pos: model.Vector3{X: 5, Y: 5, Z: 5}},
	}
	points := g.Generate(atoms)
	assert.Len(t, points, 2)
}

func TestSimpleGridWeightFromExvWidth(t *testing.T) {
	g := SimpleGrid{Config{CellWidth: 1.0, ExvWidth: 2.0}}
	points := g.Generate([]model.AtomFF{{Pos: model.Vector3{}}})
	assert.Len(t, points, 1)
	assert.InDelta(t, 8.0, points[0].Weight, 1e-9)
}
