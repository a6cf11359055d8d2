package histmgr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ausaxs/scattercore/internal/model"
)

func TestSymmetryManagerMatchesFullManagerOnExplicitExpansion(t *testing.T) {
	body := &model.Body{
		Atoms: []model.AtomFF{
			{Pos: model.Vector3{X: 0, Y: 0, Z: 0}, Tag: model.FFC, Weight: 1},
			{Pos: model.Vector3{X: 1, Y: 0, Z: 0}, Tag: model.FFC, Weight: 1},
		},
		Symmetry: []model.SymmetryOperator{
			{
				R:       [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
				T:       model.Vector3{X: 3, Y: 0, Z: 0},
				Repeats: 1,
			},
		},
	}
	m := &model.InMemoryModel{BodyList: []*model.Body{body}}
	cfg := testConfig()
	cfg.Axes.BinCount = 50

	sym := NewSymmetryManager(cfg, ExvSetup{Variant: VariantPlain}, nil)
	got, err := sym.Calculate(m)
	require.NoError(t, err)

	// Hand-expand the same symmetry image and run it through FullManager
	// directly: the two must agree exactly.
	expandedBody := &model.Body{
		Atoms: []model.AtomFF{
			{Pos: model.Vector3{X: 0, Y: 0, Z: 0}, Tag: model.FFC, Weight: 1},
			{Pos: model.Vector3{X: 1, Y: 0, Z: 0}, Tag: model.FFC, Weight: 1},
			{Pos: model.Vector3{X: 3, Y: 0, Z: 0}, Tag: model.FFC, Weight: 1},
			{Pos: model.Vector3{X: 4, Y: 0, Z: 0}, Tag: model.FFC, Weight: 1},
		},
	}
	full := NewFullManager(cfg, ExvSetup{Variant: VariantPlain}, nil)
	want, err := full.Calculate(&model.InMemoryModel{BodyList: []*model.Body{expandedBody}})
	require.NoError(t, err)

	gotCounts, wantCounts := got.GetAACounts(), want.GetAACounts()
	require.Equal(t, len(wantCounts.Data), len(gotCounts.Data))
	for i := range wantCounts.Data {
		assert.InDelta(t, wantCounts.Data[i], gotCounts.Data[i], 1e-9)
	}
}
