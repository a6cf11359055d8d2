package histmgr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ausaxs/scattercore/internal/model"
)

func twoBodyModel(bx, by, bz float64) (*model.InMemoryModel, *model.Body, *model.Body) {
	a := &model.Body{Atoms: []model.AtomFF{{Pos: model.Vector3{X: 0, Y: 0, Z: 0}, Tag: model.FFC, Weight: 1}}}
	b := &model.Body{Atoms: []model.AtomFF{{Pos: model.Vector3{X: bx, Y: by, Z: bz}, Tag: model.FFC, Weight: 1}}}
	return &model.InMemoryModel{BodyList: []*model.Body{a, b}}, a, b
}

func TestPartialManagerMatchesFullManagerAfterBodyMove(t *testing.T) {
	m, _, b := twoBodyModel(1, 0, 0)
	state := model.NewInMemoryStateManager(2)
	cfg := testConfig()
	partial := NewPartialManager(cfg, ExvSetup{Variant: VariantPlain}, nil, state)

	_, err := partial.Calculate(m)
	require.NoError(t, err)

	b.Atoms[0].Pos = model.Vector3{X: 2, Y: 0, Z: 0}
	state.Signaller(1).Signal(model.ChangeExternal)

	got, err := partial.Calculate(m)
	require.NoError(t, err)

	full := NewFullManager(cfg, ExvSetup{Variant: VariantPlain}, nil)
	want, err := full.Calculate(m)
	require.NoError(t, err)

	gotCounts, wantCounts := got.GetAACounts(), want.GetAACounts()
	require.Equal(t, len(wantCounts.Data), len(gotCounts.Data))
	for i := range wantCounts.Data {
		assert.InDelta(t, wantCounts.Data[i], gotCounts.Data[i], 1e-9)
	}
}

func TestPartialManagerSkipsUntouchedPairs(t *testing.T) {
	m, _, b := twoBodyModel(1, 0, 0)
	state := model.NewInMemoryStateManager(2)
	cfg := testConfig()
	partial := NewPartialManager(cfg, ExvSetup{Variant: VariantPlain}, nil, state)

	_, err := partial.Calculate(m)
	require.NoError(t, err)
	selfPairBefore := partial.partialAA[pairKey{0, 0}]

	b.Atoms[0].Pos = model.Vector3{X: 3, Y: 0, Z: 0}
	state.Signaller(1).Signal(model.ChangeExternal)
	_, err = partial.Calculate(m)
	require.NoError(t, err)

	selfPairAfter := partial.partialAA[pairKey{0, 0}]
	assert.Same(t, selfPairBefore, selfPairAfter, "body 0's self partial must not be recomputed when only body 1 moved")
}

func TestPartialManagerTripleBodyMoveSequenceMatchesFullManager(t *testing.T) {
	a := &model.Body{Atoms: []model.AtomFF{{Pos: model.Vector3{X: 0, Y: 0, Z: 0}, Tag: model.FFC, Weight: 1}}}
	b := &model.Body{Atoms: []model.AtomFF{{Pos: model.Vector3{X: 1, Y: 0, Z: 0}, Tag: model.FFC, Weight: 1}}}
	c := &model.Body{Atoms: []model.AtomFF{{Pos: model.Vector3{X: 0, Y: 1, Z: 0}, Tag: model.FFC, Weight: 1}}}
	m := &model.InMemoryModel{BodyList: []*model.Body{a, b, c}}

	state := model.NewInMemoryStateManager(3)
	cfg := testConfig()
	partial := NewPartialManager(cfg, ExvSetup{Variant: VariantPlain}, nil, state)

	_, err := partial.Calculate(m)
	require.NoError(t, err)

	moves := []struct {
		idx int
		pos model.Vector3
	}{
		{0, model.Vector3{X: 0.5, Y: 0, Z: 0}},
		{1, model.Vector3{X: 2, Y: 0.5, Z: 0}},
		{2, model.Vector3{X: 1, Y: 2, Z: 1}},
	}
	bodies := []*model.Body{a, b, c}
	for _, mv := range moves {
		bodies[mv.idx].Atoms[0].Pos = mv.pos
		state.Signaller(mv.idx).Signal(model.ChangeExternal)
		_, err := partial.Calculate(m)
		require.NoError(t, err)
	}

	final, err := partial.Calculate(m)
	require.NoError(t, err)

	full := NewFullManager(cfg, ExvSetup{Variant: VariantPlain}, nil)
	want, err := full.Calculate(m)
	require.NoError(t, err)

	gotCounts, wantCounts := final.GetAACounts(), want.GetAACounts()
	require.Equal(t, len(wantCounts.Data), len(gotCounts.Data))
	for i := range wantCounts.Data {
		assert.InDelta(t, wantCounts.Data[i], gotCounts.Data[i], 1e-9)
	}
}
