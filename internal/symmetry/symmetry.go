// Package symmetry applies a Body's symmetry operators: the expansion
// wrapper and chain-composition math a symmetry-aware histogram manager
// needs to dispatch distance sweeps against {T, T², ..., Tᵏ} without
// necessarily materializing every image.
//
// Symmetry operators here are general affine transforms (rotation plus
// translation, not unit rotations about the origin), so composition is
// expressed as 3×3 matrix algebra via gonum.org/v1/gonum/mat rather than
// quaternion algebra.
package symmetry

import (
	"github.com/ausaxs/scattercore/internal/model"
	"gonum.org/v1/gonum/mat"
)

func toDense(r [3][3]float64) *mat.Dense {
	d := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			d.Set(i, j, r[i][j])
		}
	}
	return d
}

func fromDense(d *mat.Dense) [3][3]float64 {
	var r [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = d.At(i, j)
		}
	}
	return r
}

func applyR(r [3][3]float64, v model.Vector3) model.Vector3 {
	return model.Vector3{
		X: r[0][0]*v.X + r[0][1]*v.Y + r[0][2]*v.Z,
		Y: r[1][0]*v.X + r[1][1]*v.Y + r[1][2]*v.Z,
		Z: r[2][0]*v.X + r[2][1]*v.Y + r[2][2]*v.Z,
	}
}

// Compose returns a∘b, the operator that applies b then a: (a∘b)(p) =
// a(b(p)) = Ra·(Rb·p + tb) + ta = (Ra·Rb)·p + (Ra·tb + ta).
func Compose(a, b model.SymmetryOperator) model.SymmetryOperator {
	ra, rb := toDense(a.R), toDense(b.R)
	var rc mat.Dense
	rc.Mul(ra, rb)
	return model.SymmetryOperator{
		R: fromDense(&rc),
		T: applyR(a.R, b.T).Add(a.T),
	}
}

// Chain returns the k operators {T, T², ..., Tᵏ} for an operator with
// Repeats = k, each built by composing the previous with the base operator.
func Chain(op model.SymmetryOperator) []model.SymmetryOperator {
	k := op.Repeats
	if k < 1 {
		k = 1
	}
	chain := make([]model.SymmetryOperator, k)
	current := op
	current.Repeats = 1
	chain[0] = current
	for i := 1; i < k; i++ {
		current = Compose(op, current)
		chain[i] = current
	}
	return chain
}

// ExpandedImage is one symmetry-transformed copy of a body's atoms. It
// carries no chain index; Materialize returns the identity image (the
// body's own atoms and waters) first, then each operator's chain images
// in order.
type ExpandedImage struct {
	Atoms  []model.AtomFF
	Waters []model.Water
}

// Materialize fully expands a Body into identity plus every symmetry
// image, the path a non-symmetry-aware histogram manager uses instead of
// dispatching distance sweeps against the transform chain directly.
// Body.ExpandedCount() predicts len(result) in atoms (summed across
// images).
func Materialize(b *model.Body) []ExpandedImage {
	images := []ExpandedImage{{Atoms: b.Atoms, Waters: b.Waters}}
	for _, op := range b.Symmetry {
		for _, chained := range Chain(op) {
			atoms := make([]model.AtomFF, len(b.Atoms))
			for i, a := range b.Atoms {
				atoms[i] = model.AtomFF{Pos: chained.Apply(a.Pos), Tag: a.Tag, Weight: a.Weight}
			}
			images = append(images, ExpandedImage{Atoms: atoms})
		}
	}
	return images
}
