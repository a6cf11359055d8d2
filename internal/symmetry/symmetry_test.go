package symmetry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ausaxs/scattercore/internal/model"
)

func identityR() [3][3]float64 {
	return [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

func TestChainTranslationRepeats(t *testing.T) {
	op := model.SymmetryOperator{R: identityR(), T: model.Vector3{X: 1}, Repeats: 2}
	chain := Chain(op)
	assert.Len(t, chain, 2)
	assert.InDelta(t, 1.0, chain[0].T.X, 1e-9)
	assert.InDelta(t, 2.0, chain[1].T.X, 1e-9) // T^2 translates by 2x
}

func TestMaterializeTwoAtomSingleTranslationCopy(t *testing.T) {
	// Two atoms at (0,0,0) and (1,0,0), one-copy +x translation symmetry.
	body := &model.Body{
		Atoms: []model.AtomFF{
			{Pos: model.Vector3{X: 0}, Weight: 1},
			{Pos: model.Vector3{X: 1}, Weight: 1},
		},
		Symmetry: []model.SymmetryOperator{
			{R: identityR(), T: model.Vector3{X: 1}, Repeats: 1},
		},
	}
	images := Materialize(body)
	assert.Len(t, images, 2)

	var xs []float64
	for _, img := range images {
		for _, a := range img.Atoms {
			xs = append(xs, a.Pos.X)
		}
	}
	assert.ElementsMatch(t, []float64{0, 1, 1, 2}, xs)
}
