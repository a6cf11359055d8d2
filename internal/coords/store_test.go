package coords

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestXYZWPadding(t *testing.T) {
	store := NewXYZW([][3]float64{{0, 0, 0}, {1, 0, 0}}, []float64{1, 1})
	assert.Equal(t, 2, store.Length)
	assert.Len(t, store.Entries, 2+padding)
	for i := store.Length; i < len(store.Entries); i++ {
		assert.Greater(t, store.Entries[i].X, float32(1000))
	}
}

func TestEvaluateXYZWExact(t *testing.T) {
	store := NewXYZW([][3]float64{{0, 0, 0}, {3, 4, 0}}, []float64{2, 5})
	d, w := EvaluateXYZW(store.Entries[0], store.Entries[1])
	assert.InDelta(t, 5.0, d, 1e-5)
	assert.InDelta(t, 10.0, w, 1e-5)
}

func TestEvaluateRoundedNearest(t *testing.T) {
	invWidth := 1.0 / 0.1
	assert.Equal(t, int32(10), EvaluateRounded(1.0, invWidth))
	assert.Equal(t, int32(0), EvaluateRounded(0.04, invWidth))
	assert.Equal(t, int32(1), EvaluateRounded(0.06, invWidth))
}

func TestEncodePairSymmetric(t *testing.T) {
	assert.Equal(t, EncodePair(2, 5, 13), EncodePair(5, 2, 13))
	assert.NotEqual(t, EncodePair(2, 5, 13), EncodePair(2, 6, 13))
}

func TestLaneArityConsistency(t *testing.T) {
	store := NewXYZW([][3]float64{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}, {4, 0, 0}}, []float64{1, 1, 1, 1, 1})
	a := store.Entries[0]
	var four [4]Record
	copy(four[:], store.Entries[1:5])
	d4, _ := EvaluateXYZW4(a, four)
	for i := 0; i < 4; i++ {
		d1, _ := EvaluateXYZW(a, four[i])
		assert.Equal(t, d1, d4[i])
	}
}
