// Package distbin implements the distance-bin accumulators: 1D/2D/3D
// counters indexed by [distance-bin] or [ff-tag,(ff-tag,) distance-bin],
// in weighted and unweighted variants, with a thread-local-then-merge
// pattern: every worker owns a private accumulator, summed once at the
// end.
package distbin

// Distribution1D is a plain double[B] counter.
type Distribution1D struct {
	Data []float64
}

// NewDistribution1D allocates a zeroed distribution with b bins.
func NewDistribution1D(b int) *Distribution1D {
	return &Distribution1D{Data: make([]float64, b)}
}

// IncrementIndex adds factor*amount to data[bin].
func (d *Distribution1D) IncrementIndex(bin int, factor, amount float64) {
	d.Data[bin] += factor * amount
}

// Merge sums another distribution's counts into this one element-wise.
// Merging is commutative and associative, so the result is independent of
// worker scheduling order.
func (d *Distribution1D) Merge(other *Distribution1D) {
	for i, v := range other.Data {
		d.Data[i] += v
	}
}

// Resize truncates or zero-extends the distribution to n bins, used when
// the histogram manager finds the true last nonzero bin.
func (d *Distribution1D) Resize(n int) {
	if n <= len(d.Data) {
		d.Data = d.Data[:n]
		return
	}
	grown := make([]float64, n)
	copy(grown, d.Data)
	d.Data = grown
}

// Distribution1DWeighted additionally tracks, per bin, the weighted sum of
// exact distances, so a mean distance per bin can be recovered after merge.
type Distribution1DWeighted struct {
	Counts      []float64
	WeightedSum []float64
}

// NewDistribution1DWeighted allocates a zeroed weighted distribution.
func NewDistribution1DWeighted(b int) *Distribution1DWeighted {
	return &Distribution1DWeighted{
		Counts:      make([]float64, b),
		WeightedSum: make([]float64, b),
	}
}

// IncrementIndex adds factor*amount to the bin count with no center
// tracking, for contributions that carry no meaningful weighted center
// (such as self-correlations at bin 0). The histogram managers add their
// self-correlation terms to the count distributions only, not through this
// method.
func (d *Distribution1DWeighted) IncrementIndex(bin int, factor, amount float64) {
	d.Counts[bin] += factor * amount
}

// Increment adds factor*amount to the bin count and accumulates
// factor*amount*binCenter into the weighted-center sum for that bin.
func (d *Distribution1DWeighted) Increment(bin int, factor, amount float64, binCenter float32) {
	d.Counts[bin] += factor * amount
	d.WeightedSum[bin] += factor * amount * float64(binCenter)
}

// Merge sums another weighted distribution's counts and weighted sums into
// this one.
func (d *Distribution1DWeighted) Merge(other *Distribution1DWeighted) {
	for i, v := range other.Counts {
		d.Counts[i] += v
	}
	for i, v := range other.WeightedSum {
		d.WeightedSum[i] += v
	}
}

// Resize truncates or zero-extends both arrays to n bins.
func (d *Distribution1DWeighted) Resize(n int) {
	if n <= len(d.Counts) {
		d.Counts = d.Counts[:n]
		d.WeightedSum = d.WeightedSum[:n]
		return
	}
	counts := make([]float64, n)
	wsum := make([]float64, n)
	copy(counts, d.Counts)
	copy(wsum, d.WeightedSum)
	d.Counts, d.WeightedSum = counts, wsum
}

// MeanCenters recovers, per bin, Σ(d·count)/Σcount — falling back to the
// supplied nominal bin center when the bin's count is zero, so a
// zero-count bin never produces a NaN or divide-by-zero.
func (d *Distribution1DWeighted) MeanCenters(nominal []float64) []float64 {
	out := make([]float64, len(d.Counts))
	for i, c := range d.Counts {
		if c == 0 {
			out[i] = nominal[i]
			continue
		}
		out[i] = d.WeightedSum[i] / c
	}
	return out
}

// PlainCounts returns the unweighted count view, used anywhere a caller
// wants raw bin totals regardless of which accumulator family produced
// them.
func (d *Distribution1DWeighted) PlainCounts() *Distribution1D {
	cp := make([]float64, len(d.Counts))
	copy(cp, d.Counts)
	return &Distribution1D{Data: cp}
}

// Distribution2D is double[F][B]: the atom(form-factor) vs water axis.
type Distribution2D struct {
	Data [][]float64 // [tag][bin]
	Tags int
	Bins int
}

// NewDistribution2D allocates a zeroed [tags][bins] distribution.
func NewDistribution2D(tags, bins int) *Distribution2D {
	d := &Distribution2D{Tags: tags, Bins: bins, Data: make([][]float64, tags)}
	for i := range d.Data {
		d.Data[i] = make([]float64, bins)
	}
	return d
}

// IncrementIndex adds factor*amount to data[tag][bin].
func (d *Distribution2D) IncrementIndex(tag, bin int, factor, amount float64) {
	d.Data[tag][bin] += factor * amount
}

// Merge sums another 2D distribution into this one.
func (d *Distribution2D) Merge(other *Distribution2D) {
	for t := range d.Data {
		for b, v := range other.Data[t] {
			d.Data[t][b] += v
		}
	}
}

// Resize truncates or zero-extends the bin axis of every tag row to n.
func (d *Distribution2D) Resize(n int) {
	for t := range d.Data {
		if n <= len(d.Data[t]) {
			d.Data[t] = d.Data[t][:n]
			continue
		}
		grown := make([]float64, n)
		copy(grown, d.Data[t])
		d.Data[t] = grown
	}
	d.Bins = n
}

// Project1D sums over the form-factor axis, producing the 1D projection
// p_aw cached by the Composite Distance Histogram.
func (d *Distribution2D) Project1D() *Distribution1D {
	out := NewDistribution1D(d.Bins)
	for t := range d.Data {
		for b, v := range d.Data[t] {
			out.Data[b] += v
		}
	}
	return out
}

// Distribution3D is double[F'][F'][B]: atom-atom pairs indexed by
// form-factor pair, including the excluded-volume self term in the (E,E)
// slice.
type Distribution3D struct {
	Data [][][]float64 // [tag1][tag2][bin]
	Tags int
	Bins int
}

// NewDistribution3D allocates a zeroed [tags][tags][bins] distribution.
func NewDistribution3D(tags, bins int) *Distribution3D {
	d := &Distribution3D{Tags: tags, Bins: bins, Data: make([][][]float64, tags)}
	for i := range d.Data {
		d.Data[i] = make([][]float64, tags)
		for j := range d.Data[i] {
			d.Data[i][j] = make([]float64, bins)
		}
	}
	return d
}

// IncrementIndex adds factor*amount to data[t1][t2][bin]. Callers are
// responsible for the unordered-pair convention: storing into a single
// canonical (t1,t2) slice (t1<=t2) with factor=2 accounts for both i,j
// and j,i orderings in one addition.
func (d *Distribution3D) IncrementIndex(t1, t2, bin int, factor, amount float64) {
	d.Data[t1][t2][bin] += factor * amount
}

// Merge sums another 3D distribution into this one.
func (d *Distribution3D) Merge(other *Distribution3D) {
	for i := range d.Data {
		for j := range d.Data[i] {
			for b, v := range other.Data[i][j] {
				d.Data[i][j][b] += v
			}
		}
	}
}

// Resize truncates or zero-extends the bin axis to n for every (t1,t2)
// slice.
func (d *Distribution3D) Resize(n int) {
	for i := range d.Data {
		for j := range d.Data[i] {
			if n <= len(d.Data[i][j]) {
				d.Data[i][j] = d.Data[i][j][:n]
				continue
			}
			grown := make([]float64, n)
			copy(grown, d.Data[i][j])
			d.Data[i][j] = grown
		}
	}
	d.Bins = n
}

// Project1D sums over both form-factor axes, producing the 1D projection
// p_aa cached by the Composite Distance Histogram.
func (d *Distribution3D) Project1D() *Distribution1D {
	out := NewDistribution1D(d.Bins)
	for i := range d.Data {
		for j := range d.Data[i] {
			for b, v := range d.Data[i][j] {
				out.Data[b] += v
			}
		}
	}
	return out
}

// LastNonzeroBin returns the largest bin index with a nonzero count across
// all three distributions, floored at minFloor.
func LastNonzeroBin(aa *Distribution3D, aw *Distribution2D, ww *Distribution1D, minFloor int) int {
	last := -1
	for i := range aa.Data {
		for j := range aa.Data[i] {
			for b := len(aa.Data[i][j]) - 1; b > last; b-- {
				if aa.Data[i][j][b] != 0 {
					last = b
				}
			}
		}
	}
	for t := range aw.Data {
		for b := len(aw.Data[t]) - 1; b > last; b-- {
			if aw.Data[t][b] != 0 {
				last = b
			}
		}
	}
	for b := len(ww.Data) - 1; b > last; b-- {
		if ww.Data[b] != 0 {
			last = b
		}
	}
	if last < minFloor {
		last = minFloor
	}
	return last
}
