// Package formfactor holds the Cromer-Mann-style atomic form-factor tables
// and the exv_factor(q) excluded-volume strategies. The table's map-of-
// cited-constants shape follows the parameter-table idiom used elsewhere in
// the codebase for physical constants, generalized from bond parameters to
// form-factor coefficients.
package formfactor

import (
	"math"

	"github.com/ausaxs/scattercore/internal/model"
	"github.com/ausaxs/scattercore/internal/saxslog"
)

// CromerMann holds the four-Gaussian-plus-constant approximation
// coefficients: f(q) = c + Σ a_i·exp(-b_i·(q/4π)²).
type CromerMann struct {
	A [4]float64
	B [4]float64
	C float64
}

// Evaluate computes f(q) for q in 1/Å.
func (cm CromerMann) Evaluate(q float64) float64 {
	s := q / (4 * math.Pi)
	s2 := s * s
	f := cm.C
	for i := 0; i < 4; i++ {
		f += cm.A[i] * math.Exp(-cm.B[i]*s2)
	}
	return f
}

// table holds one CromerMann entry per FFTag, covering the protein-atom
// groups plus the water-oxygen tag. Coefficients are the standard
// International Tables for Crystallography Vol. C values for the
// corresponding element/hydrogenated group; the excluded-volume tag has no
// table entry — its form factor is computed by an ExvEvaluator instead.
var table = map[model.FFTag]CromerMann{
	model.FFH:    {A: [4]float64{0.489918, 0.262003, 0.196767, 0.049879}, B: [4]float64{20.6593, 7.74039, 49.5519, 2.20159}, C: 0.001305},
	model.FFC:    {A: [4]float64{2.31000, 1.02000, 1.58860, 0.86500}, B: [4]float64{20.8439, 10.2075, 0.568700, 51.6512}, C: 0.2156},
	model.FFCH:   {A: [4]float64{2.31000, 1.02000, 1.58860, 0.86500}, B: [4]float64{20.8439, 10.2075, 0.568700, 51.6512}, C: 0.2156 + 0.001305},
	model.FFCH2:  {A: [4]float64{2.31000, 1.02000, 1.58860, 0.86500}, B: [4]float64{20.8439, 10.2075, 0.568700, 51.6512}, C: 0.2156 + 2*0.001305},
	model.FFCH3:  {A: [4]float64{2.31000, 1.02000, 1.58860, 0.86500}, B: [4]float64{20.8439, 10.2075, 0.568700, 51.6512}, C: 0.2156 + 3*0.001305},
	model.FFN:    {A: [4]float64{12.2126, 3.13220, 2.01250, 1.16630}, B: [4]float64{0.005700, 9.89330, 28.9975, 0.582600}, C: -11.529},
	model.FFNH:   {A: [4]float64{12.2126, 3.13220, 2.01250, 1.16630}, B: [4]float64{0.005700, 9.89330, 28.9975, 0.582600}, C: -11.529 + 0.001305},
	model.FFNHn:  {A: [4]float64{12.2126, 3.13220, 2.01250, 1.16630}, B: [4]float64{0.005700, 9.89330, 28.9975, 0.582600}, C: -11.529 + 2*0.001305},
	model.FFO:    {A: [4]float64{3.04850, 2.28680, 1.54630, 0.867000}, B: [4]float64{13.2771, 5.70110, 0.323900, 32.9089}, C: 0.2508},
	model.FFOH:   {A: [4]float64{3.04850, 2.28680, 1.54630, 0.867000}, B: [4]float64{13.2771, 5.70110, 0.323900, 32.9089}, C: 0.2508 + 0.001305},
	model.FFS:    {A: [4]float64{6.90530, 5.20340, 1.43790, 1.58630}, B: [4]float64{1.46790, 22.2151, 0.253600, 56.1720}, C: 0.8669},
	model.FFSH:   {A: [4]float64{6.90530, 5.20340, 1.43790, 1.58630}, B: [4]float64{1.46790, 22.2151, 0.253600, 56.1720}, C: 0.8669 + 0.001305},
	model.FFWater: {A: [4]float64{3.04850, 2.28680, 1.54630, 0.867000}, B: [4]float64{13.2771, 5.70110, 0.323900, 32.9089}, C: 0.2508},
}

// Evaluate returns the form factor f_tag(q) for an atom/water form-factor
// tag, or a generic carbon fallback if the tag is unknown. The fallback is
// a recoverable substitution, not an error return, but it is surfaced
// through saxslog so a caller feeding in an unrecognized tag notices.
func Evaluate(tag model.FFTag, q float64) float64 {
	cm, ok := table[tag]
	if !ok {
		saxslog.Default().Warnf("form-factor tag %d has no table entry, substituting carbon", tag)
		return table[model.FFC].Evaluate(q)
	}
	return cm.Evaluate(q)
}

// Unknown reports whether tag has no table entry, letting callers log a
// warning before falling back to the carbon default.
func Unknown(tag model.FFTag) bool {
	_, ok := table[tag]
	return ok == false
}
