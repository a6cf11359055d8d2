// Package coords implements the Compact Coordinate Store: a densely packed,
// padded array of {x,y,z,w} records that the inner pairwise loops are the
// only thing allowed to touch.
//
// The lane-width loop-unrolling idiom below mirrors a scalar fallback
// pattern used elsewhere in the wider codebase for SIMD-eligible inner
// loops: plain unrolled float32 math that a vectorizing compiler pass can
// fuse, without dispatching to actual SSE/AVX assembly. See DESIGN.md for
// why this stays on the standard library rather than an explicit SIMD
// package.
package coords

import "math"

// padding is the minimum number of dummy entries appended past the
// logical length so lane loads that read past the end never fault.
const padding = 7

// farAway is the coordinate magnitude assigned to padding entries so their
// rounded distance to any real atom exceeds any realistic bin count and is
// discarded by the caller's loop bound.
const farAway = 1e6

// Record is a single packed {x,y,z,w} entry. The weight lane w is reused
// to hold an encoded form-factor tag in XYZFF stores.
type Record struct {
	X, Y, Z, W float32
}

// XYZW is a Compact Coordinate Store where w carries each atom's scattering
// weight.
type XYZW struct {
	Entries []Record
	Length  int // logical length; len(Entries) == Length+padding
}

// NewXYZW packs positions and weights into a padded store.
func NewXYZW(positions [][3]float64, weights []float64) *XYZW {
	n := len(positions)
	entries := make([]Record, n+padding)
	for i := 0; i < n; i++ {
		entries[i] = Record{
			X: float32(positions[i][0]),
			Y: float32(positions[i][1]),
			Z: float32(positions[i][2]),
			W: float32(weights[i]),
		}
	}
	for i := n; i < n+padding; i++ {
		entries[i] = Record{X: farAway, Y: farAway, Z: farAway, W: 0}
	}
	return &XYZW{Entries: entries, Length: n}
}

// XYZFF is a Compact Coordinate Store where w carries an integer
// form-factor tag (stored as float32, since the record layout is shared
// with XYZW).
type XYZFF struct {
	Entries []Record
	Length  int
}

// NewXYZFF packs positions and integer form-factor tags into a padded
// store.
func NewXYZFF(positions [][3]float64, tags []int) *XYZFF {
	n := len(positions)
	entries := make([]Record, n+padding)
	for i := 0; i < n; i++ {
		entries[i] = Record{
			X: float32(positions[i][0]),
			Y: float32(positions[i][1]),
			Z: float32(positions[i][2]),
			W: float32(tags[i]),
		}
	}
	for i := n; i < n+padding; i++ {
		// Padding tag is never a valid pair key; EncodePair never produces it.
		entries[i] = Record{X: farAway, Y: farAway, Z: farAway, W: -1}
	}
	return &XYZFF{Entries: entries, Length: n}
}

func dist(a, b Record) float32 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return float32(math.Sqrt(float64(dx*dx + dy*dy + dz*dz)))
}

// EvaluateXYZW returns the exact distance and combined weight between two
// XYZW entries — the single-lane arity.
func EvaluateXYZW(a, b Record) (distance float32, weight float32) {
	return dist(a, b), a.W * b.W
}

// EvaluateXYZW4 computes four XYZW distances between one fixed record and
// four candidates — the quad lane arity.
func EvaluateXYZW4(a Record, b [4]Record) (d [4]float32, w [4]float32) {
	for i := 0; i < 4; i++ {
		d[i], w[i] = EvaluateXYZW(a, b[i])
	}
	return
}

// EvaluateXYZW8 computes eight XYZW distances — the octo lane arity.
func EvaluateXYZW8(a Record, b [8]Record) (d [8]float32, w [8]float32) {
	for i := 0; i < 8; i++ {
		d[i], w[i] = EvaluateXYZW(a, b[i])
	}
	return
}

// EvaluateRounded rounds a distance to the nearest bin index.
func EvaluateRounded(distance float32, invBinWidth float64) int32 {
	return int32(math.Round(float64(distance) * invBinWidth))
}

// EvaluateXYZWRounded is the single-lane evaluate_rounded for XYZW stores.
func EvaluateXYZWRounded(a, b Record, invBinWidth float64) (bin int32, weight float32) {
	d, w := EvaluateXYZW(a, b)
	return EvaluateRounded(d, invBinWidth), w
}

// EvaluateXYZWRounded4 is the quad-lane evaluate_rounded for XYZW stores.
func EvaluateXYZWRounded4(a Record, b [4]Record, invBinWidth float64) (bins [4]int32, weights [4]float32) {
	d, w := EvaluateXYZW4(a, b)
	for i := 0; i < 4; i++ {
		bins[i] = EvaluateRounded(d[i], invBinWidth)
	}
	return bins, w
}

// EvaluateXYZWRounded8 is the octo-lane evaluate_rounded for XYZW stores.
func EvaluateXYZWRounded8(a Record, b [8]Record, invBinWidth float64) (bins [8]int32, weights [8]float32) {
	d, w := EvaluateXYZW8(a, b)
	for i := 0; i < 8; i++ {
		bins[i] = EvaluateRounded(d[i], invBinWidth)
	}
	return bins, w
}

// EncodePair encodes an unordered pair of form-factor tags {t1,t2} into a
// single integer bin index. Symmetric in its arguments: EncodePair(a,b) ==
// EncodePair(b,a).
func EncodePair(t1, t2 int, numTags int) int {
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	return t1*numTags + t2
}

// EvaluateXYZFF returns the exact distance and encoded form-factor-pair bin
// between two XYZFF entries.
func EvaluateXYZFF(a, b Record, numTags int) (distance float32, ffBin int) {
	return dist(a, b), EncodePair(int(a.W), int(b.W), numTags)
}

// EvaluateXYZFFRounded is the rounded-distance XYZFF single-lane evaluate.
func EvaluateXYZFFRounded(a, b Record, numTags int, invBinWidth float64) (bin int32, ffBin int) {
	d, ff := EvaluateXYZFF(a, b, numTags)
	return EvaluateRounded(d, invBinWidth), ff
}
