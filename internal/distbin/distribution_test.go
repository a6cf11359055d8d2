package distbin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistribution1DMergeCommutative(t *testing.T) {
	a := NewDistribution1D(5)
	b := NewDistribution1D(5)
	a.IncrementIndex(2, 1, 3)
	b.IncrementIndex(2, 1, 4)
	b.IncrementIndex(0, 2, 1)

	merged1 := NewDistribution1D(5)
	merged1.Merge(a)
	merged1.Merge(b)

	merged2 := NewDistribution1D(5)
	merged2.Merge(b)
	merged2.Merge(a)

	assert.Equal(t, merged1.Data, merged2.Data)
	assert.Equal(t, 7.0, merged1.Data[2])
	assert.Equal(t, 2.0, merged1.Data[0])
}

func TestWeightedMeanCentersFallsBackOnZeroCount(t *testing.T) {
	d := NewDistribution1DWeighted(3)
	d.Increment(1, 1, 2, 0.55)
	nominal := []float64{0.05, 0.15, 0.25}

	centers := d.MeanCenters(nominal)
	assert.InDelta(t, 0.05, centers[0], 1e-9, "zero-count bin falls back to nominal center")
	assert.InDelta(t, 0.55, centers[1], 1e-9)
	assert.InDelta(t, 0.25, centers[2], 1e-9)
}

func TestDistribution3DProjectAndResize(t *testing.T) {
	d := NewDistribution3D(2, 10)
	d.IncrementIndex(0, 0, 0, 1, 4)
	d.IncrementIndex(0, 1, 3, 2, 5)

	proj := d.Project1D()
	assert.Equal(t, 4.0, proj.Data[0])
	assert.Equal(t, 10.0, proj.Data[3])

	d.Resize(5)
	assert.Equal(t, 5, len(d.Data[0][0]))
}

func TestLastNonzeroBinFloor(t *testing.T) {
	aa := NewDistribution3D(2, 20)
	aw := NewDistribution2D(2, 20)
	ww := NewDistribution1D(20)

	assert.Equal(t, 10, LastNonzeroBin(aa, aw, ww, 10))

	aa.IncrementIndex(1, 1, 15, 1, 1)
	assert.Equal(t, 15, LastNonzeroBin(aa, aw, ww, 10))

	aw.IncrementIndex(0, 18, 1, 1)
	assert.Equal(t, 18, LastNonzeroBin(aa, aw, ww, 10))
}
