package histmgr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ausaxs/scattercore/config"
	"github.com/ausaxs/scattercore/internal/formfactor"
	"github.com/ausaxs/scattercore/internal/model"
)

func cubeCorners() []model.AtomFF {
	var atoms []model.AtomFF
	for x := 0.0; x <= 1; x++ {
		for y := 0.0; y <= 1; y++ {
			for z := 0.0; z <= 1; z++ {
				atoms = append(atoms, model.AtomFF{Pos: model.Vector3{X: x, Y: y, Z: z}, Tag: model.FFC, Weight: 1})
			}
		}
	}
	return atoms
}

func testConfig() config.Config {
	c := config.Default()
	c.Axes.BinWidth = 0.1
	c.Axes.BinCount = 30
	c.General.JobSize = 3
	return c
}

func TestFullManagerUnitCubeOfEightCarbons(t *testing.T) {
	m := &model.InMemoryModel{BodyList: []*model.Body{{Atoms: cubeCorners()}}}
	mgr := NewFullManager(testConfig(), ExvSetup{Variant: VariantPlain}, nil)

	h, err := mgr.Calculate(m)
	require.NoError(t, err)

	counts := h.GetAACounts()
	round := func(d float64) int { return int(d/0.1 + 0.5) }
	assert.InDelta(t, 8, counts.Data[round(0)], 1e-9)
	assert.InDelta(t, 2*12, counts.Data[round(1)], 1e-9)
	assert.InDelta(t, 2*12, counts.Data[round(1.4142135623730951)], 1e-9)
	assert.InDelta(t, 2*4, counts.Data[round(1.7320508075688772)], 1e-9)
}

func TestFullManagerUnitCubeWithCenterAtom(t *testing.T) {
	atoms := cubeCorners()
	atoms = append(atoms, model.AtomFF{Pos: model.Vector3{X: 0.5, Y: 0.5, Z: 0.5}, Tag: model.FFC, Weight: 1})
	m := &model.InMemoryModel{BodyList: []*model.Body{{Atoms: atoms}}}
	mgr := NewFullManager(testConfig(), ExvSetup{Variant: VariantPlain}, nil)

	h, err := mgr.Calculate(m)
	require.NoError(t, err)

	counts := h.GetAACounts()
	round := func(d float64) int { return int(d/0.1 + 0.5) }
	centerDist := model.Vector3{X: 0.5, Y: 0.5, Z: 0.5}.Dist(model.Vector3{})
	assert.InDelta(t, 2*8, counts.Data[round(centerDist)], 1e-9)
}

func TestFullManagerCubeWithCentralWater(t *testing.T) {
	atoms := cubeCorners()
	waters := []model.Water{{Pos: model.Vector3{X: 0.5, Y: 0.5, Z: 0.5}, Weight: 1}}
	m := &model.InMemoryModel{BodyList: []*model.Body{{Atoms: atoms, Waters: waters}}}
	mgr := NewFullManager(testConfig(), ExvSetup{Variant: VariantPlain}, nil)

	h, err := mgr.Calculate(m)
	require.NoError(t, err)

	awCounts := h.GetAWCounts()
	round := func(d float64) int { return int(d/0.1 + 0.5) }
	centerDist := model.Vector3{X: 0.5, Y: 0.5, Z: 0.5}.Dist(model.Vector3{})
	assert.InDelta(t, 8, awCounts.Data[round(centerDist)], 1e-9)
}

func TestFullManagerIsDeterministicAcrossRuns(t *testing.T) {
	atoms := cubeCorners()
	m := &model.InMemoryModel{BodyList: []*model.Body{{Atoms: atoms}}}
	mgr := NewFullManager(testConfig(), ExvSetup{Variant: VariantPlain}, nil)

	h1, err := mgr.Calculate(m)
	require.NoError(t, err)
	h2, err := mgr.Calculate(m)
	require.NoError(t, err)

	c1, c2 := h1.GetAACounts(), h2.GetAACounts()
	require.Equal(t, len(c1.Data), len(c2.Data))
	for i := range c1.Data {
		assert.Equal(t, c1.Data[i], c2.Data[i])
	}
}

func TestFullManagerEmptyBodyProducesEmptyProfile(t *testing.T) {
	m := &model.InMemoryModel{BodyList: []*model.Body{{}}}
	mgr := NewFullManager(testConfig(), ExvSetup{Variant: VariantPlain}, nil)

	h, err := mgr.Calculate(m)
	require.NoError(t, err)
	for _, v := range h.DebyeTransform() {
		assert.Zero(t, v)
	}
}

func TestFullManagerWeightsPairContributionByAtomWeightProduct(t *testing.T) {
	half := []model.AtomFF{
		{Pos: model.Vector3{X: 0, Y: 0, Z: 0}, Tag: model.FFC, Weight: 0.5},
		{Pos: model.Vector3{X: 1, Y: 0, Z: 0}, Tag: model.FFC, Weight: 0.5},
	}
	full := []model.AtomFF{
		{Pos: model.Vector3{X: 0, Y: 0, Z: 0}, Tag: model.FFC, Weight: 1},
		{Pos: model.Vector3{X: 1, Y: 0, Z: 0}, Tag: model.FFC, Weight: 1},
	}
	mgrHalf := NewFullManager(testConfig(), ExvSetup{Variant: VariantPlain}, nil)
	mgrFull := NewFullManager(testConfig(), ExvSetup{Variant: VariantPlain}, nil)

	hHalf, err := mgrHalf.Calculate(&model.InMemoryModel{BodyList: []*model.Body{{Atoms: half}}})
	require.NoError(t, err)
	hFull, err := mgrFull.Calculate(&model.InMemoryModel{BodyList: []*model.Body{{Atoms: full}}})
	require.NoError(t, err)

	round := func(d float64) int { return int(d/0.1 + 0.5) }
	// the cross-pair contribution scales by the product of the two atoms'
	// weights: halving both atoms' weight must quarter the off-diagonal
	// bin count relative to the unit-weight case.
	assert.InDelta(t, hFull.GetAACounts().Data[round(1)]/4, hHalf.GetAACounts().Data[round(1)], 1e-9)
}

func TestFullManagerAverageExvMirrorsAACounts(t *testing.T) {
	atoms := cubeCorners()
	m := &model.InMemoryModel{BodyList: []*model.Body{{Atoms: atoms}}}
	mgr := NewFullManager(testConfig(), ExvSetup{
		Variant: VariantAverageExv,
		Average: formfactor.AverageExv{WaterDensity: 0.334, AverageVolume: 16.8},
	}, nil)

	h, err := mgr.Calculate(m)
	require.NoError(t, err)

	ax := h.GetProfileAX()
	aa := h.GetProfileAA()
	require.Equal(t, len(aa), len(ax))
	// the average-exv variant mirrors every real aa count into the ax/xx
	// slices, so ax must not be identically zero.
	nonzero := false
	for i := range ax {
		if ax[i] != 0 {
			nonzero = true
			break
		}
	}
	assert.True(t, nonzero)
}
