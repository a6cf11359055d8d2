package formfactor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ausaxs/scattercore/internal/model"
)

func TestEvaluateAtZeroQEqualsElectronCount(t *testing.T) {
	// f(0) should recover the approximate electron count for carbon: ~6.
	f := Evaluate(model.FFC, 0)
	assert.InDelta(t, 6.0, f, 0.05)
}

func TestEvaluateUnknownTagFallsBackToCarbon(t *testing.T) {
	unknown := model.FFTag(999)
	assert.True(t, Unknown(unknown))
	assert.Equal(t, Evaluate(model.FFC, 0.1), Evaluate(unknown, 0.1))
}

func TestAverageExvDecaysWithQ(t *testing.T) {
	e := AverageExv{WaterDensity: 0.334, AverageVolume: 16.8}
	f0 := e.Factor(0)
	f1 := e.Factor(0.5)
	assert.Greater(t, f0, f1)
}

func TestGridExvScalesWithCube(t *testing.T) {
	e1 := GridExv{WaterDensity: 0.334, DummyVolume: 10, RadiusScale: 1}
	e2 := GridExv{WaterDensity: 0.334, DummyVolume: 10, RadiusScale: 2}
	// At q=0 the factor is rho*volume, so doubling radius scale multiplies
	// the effective volume by 8.
	assert.InDelta(t, 8*e1.Factor(0), e2.Factor(0), 1e-6)
}
