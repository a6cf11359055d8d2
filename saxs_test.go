package saxs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ausaxs/scattercore/config"
	"github.com/ausaxs/scattercore/internal/model"
)

func cubeModel() *model.InMemoryModel {
	var atoms []model.AtomFF
	for x := 0.0; x <= 1; x++ {
		for y := 0.0; y <= 1; y++ {
			for z := 0.0; z <= 1; z++ {
				atoms = append(atoms, model.AtomFF{Pos: model.Vector3{X: x, Y: y, Z: z}, Tag: model.FFC, Weight: 1})
			}
		}
	}
	return &model.InMemoryModel{BodyList: []*model.Body{{Atoms: atoms}}}
}

func smallConfig() config.Config {
	c := config.Default()
	c.Axes.BinWidth = 0.1
	c.Axes.BinCount = 30
	c.General.JobSize = 4
	return c
}

func TestFullEngineProducesNonEmptyProfile(t *testing.T) {
	e := NewFullEngine(smallConfig(), ExvSetup{Variant: VariantPlain}, nil)
	h, err := e.Calculate(cubeModel())
	require.NoError(t, err)

	profile := h.DebyeTransform()
	require.NotEmpty(t, profile)
	for _, v := range profile {
		assert.Greater(t, v, 0.0)
	}
	// intensity falls off monotonically from q~0 for this compact, single-tag
	// cube: the lowest q sample carries the largest weight.
	assert.Greater(t, profile[0], profile[len(profile)-1])
}

func TestBatchCalculateRunsEnginesConcurrently(t *testing.T) {
	engines := []*Engine{
		NewFullEngine(smallConfig(), ExvSetup{Variant: VariantPlain}, nil),
		NewFullEngine(smallConfig(), ExvSetup{Variant: VariantPlain}, nil),
	}
	models := []AtomicModel{cubeModel(), cubeModel()}

	results, err := BatchCalculate(context.Background(), engines, models)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, h := range results {
		assert.NotEmpty(t, h.DebyeTransform())
	}
}
