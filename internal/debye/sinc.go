// Package debye implements the Composite Distance Histogram: the cached
// Debye-transform engine that turns distance distributions into
// reciprocal-space intensity profiles.
package debye

import "math"

// Sinc evaluates sin(x)/x with a small-x series expansion: below 1e-3 in
// magnitude, 1 - x²/6 + x⁴/120 replaces the naive division, which loses
// precision (and would divide by zero at x=0).
func Sinc(x float64) float64 {
	if math.Abs(x) < 1e-3 {
		x2 := x * x
		return 1 - x2/6 + x2*x2/120
	}
	return math.Sin(x) / x
}

// BuildQAxis returns n log-spaced samples over [qmin, qmax], the usual
// q-axis convention for a scattering profile (typically ~1000 bins,
// log-spaced from ~1e-4 to ~1 inverse angstrom).
func BuildQAxis(n int, qmin, qmax float64) []float64 {
	if n <= 1 {
		return []float64{qmin}
	}
	logMin, logMax := math.Log(qmin), math.Log(qmax)
	step := (logMax - logMin) / float64(n-1)
	axis := make([]float64, n)
	for i := range axis {
		axis[i] = math.Exp(logMin + step*float64(i))
	}
	return axis
}

// SincTable is a precomputed (q_bin, d_bin) lookup table, built once per
// distribution replacement (or once per calculation for the weighted
// variant, whose d-axis is the recovered weighted bin centers rather than
// fixed nominal centers).
type SincTable struct {
	QAxis []float64
	DAxis []float64
	Table [][]float64 // [qi][di]
}

// BuildSincTable computes sinc(q·d) for every (q,d) pair up front.
func BuildSincTable(qAxis, dAxis []float64) *SincTable {
	t := &SincTable{QAxis: qAxis, DAxis: dAxis, Table: make([][]float64, len(qAxis))}
	for qi, q := range qAxis {
		row := make([]float64, len(dAxis))
		for di, d := range dAxis {
			row[di] = Sinc(q * d)
		}
		t.Table[qi] = row
	}
	return t
}

// InnerProduct computes Σ_k p[k]·sinc(q_qi·d_k) for one q-bin, the
// per-(form-factor-pair, q) value the sinqd cache layer stores.
func (t *SincTable) InnerProduct(qi int, p []float64) float64 {
	row := t.Table[qi]
	sum := 0.0
	for k, v := range p {
		if v == 0 {
			continue
		}
		sum += v * row[k]
	}
	return sum
}
