package histmgr

import (
	"sync"

	"github.com/ausaxs/scattercore/config"
	"github.com/ausaxs/scattercore/internal/coords"
	"github.com/ausaxs/scattercore/internal/debye"
	"github.com/ausaxs/scattercore/internal/distbin"
	"github.com/ausaxs/scattercore/internal/model"
	"github.com/ausaxs/scattercore/internal/workerpool"
)

// bodySnapshot is the pair of Compact Coordinate Stores — one weight-
// carrying, one tag-carrying — a body's atoms were packed into on its
// last recompute, plus the plain tag list the non-lane call sites index
// directly.
type bodySnapshot struct {
	store *coords.XYZW
	ff    *coords.XYZFF
	tags  []int
}

// pairKey identifies a body-pair partial by its canonical (i>=j) index.
type pairKey struct{ i, j int }

// PartialManager tracks per-body recompute state and only re-sweeps the
// body pairs a StateManager reports as touched, instead of rebuilding the
// whole Composite Distance Histogram from scratch on every Calculate call.
//
// Its persistent state is the per-body Compact Coordinate Store, a
// per-pair atom-atom partial distribution (triangular, keyed by i>=j), a
// per-body atom-water partial, and a single water-water partial rebuilt
// whenever the hydration shell changes. Calculate recomputes only the
// partials whose inputs moved, then sums every stored partial into a
// fresh master accumulator — simpler than an incremental add/subtract of
// the previous round's contribution into a running total, at the cost of
// an O(bodies²) summation that is negligible next to the sweep itself.
type PartialManager struct {
	cfg   config.Config
	exv   ExvSetup
	pool  *workerpool.Pool
	state model.StateManager

	mu        sync.Mutex
	snapshots []bodySnapshot
	waterPos  *coords.XYZW
	waterW    []float64

	partialAA map[pairKey]*distbin.Distribution3D
	partialAW map[int]*distbin.Distribution2D
	partialWW *distbin.Distribution1D

	// weightedAA/weightedAW/weightedWW mirror the three maps above, but
	// track exact-distance-weighted bin centers instead of counts; they
	// stay nil (and unused) unless cfg.Hist.WeightedBins is set.
	weightedAA map[pairKey]*distbin.Distribution1DWeighted
	weightedAW map[int]*distbin.Distribution1DWeighted
	weightedWW *distbin.Distribution1DWeighted
}

// NewPartialManager constructs a manager bound to cfg, the excluded-volume
// setup, a worker pool (nil runs every recompute synchronously), and the
// StateManager the caller's bodies signal through.
func NewPartialManager(cfg config.Config, exv ExvSetup, pool *workerpool.Pool, state model.StateManager) *PartialManager {
	return &PartialManager{
		cfg:        cfg,
		exv:        exv,
		pool:       pool,
		state:      state,
		partialAA:  make(map[pairKey]*distbin.Distribution3D),
		partialAW:  make(map[int]*distbin.Distribution2D),
		weightedAA: make(map[pairKey]*distbin.Distribution1DWeighted),
		weightedAW: make(map[int]*distbin.Distribution1DWeighted),
	}
}

func (p *PartialManager) batch() *workerpool.Batch {
	if p.pool != nil {
		return p.pool.NewBatch()
	}
	return &workerpool.Batch{}
}

// Calculate queries the StateManager for which bodies moved since the last
// call, recomputes only the atom-atom partials touching a moved body and
// the atom-water/water-water partials a hydration change invalidates, then
// wraps the summed partials into a Composite Distance Histogram.
func (p *PartialManager) Calculate(m model.AtomicModel) (*debye.CompositeDistanceHistogram, error) {
	if err := p.cfg.Validate(); err != nil {
		return nil, err
	}
	bodies := m.Bodies()
	n := len(bodies)
	bins := p.cfg.Axes.BinCount
	invWidth := 1.0 / p.cfg.Axes.BinWidth
	hasExv := p.exv.Variant == VariantAverageExv
	weightedBins := p.cfg.Hist.WeightedBins

	firstRun := p.snapshots == nil
	if firstRun {
		p.snapshots = make([]bodySnapshot, n)
	} else if len(p.snapshots) != n {
		// Body count changed (bodies added/removed); every pair involving a
		// new index is unseen, so treat the whole model as touched.
		grown := make([]bodySnapshot, n)
		copy(grown, p.snapshots)
		p.snapshots = grown
		firstRun = true
	}

	ext := p.state.ExternallyModified()
	internal := p.state.InternallyModified()
	hydration := p.state.HydrationModified()

	touched := make([]bool, n)
	for i := 0; i < n; i++ {
		touched[i] = firstRun || (i < len(ext) && ext[i]) || (i < len(internal) && internal[i])
	}

	for i, b := range bodies {
		if !touched[i] {
			continue
		}
		positions := make([][3]float64, len(b.Atoms))
		weights := make([]float64, len(b.Atoms))
		tags := make([]int, len(b.Atoms))
		for k, a := range b.Atoms {
			positions[k] = [3]float64{a.Pos.X, a.Pos.Y, a.Pos.Z}
			weights[k] = a.Weight
			tags[k] = int(a.Tag)
		}
		p.snapshots[i] = bodySnapshot{store: coords.NewXYZW(positions, weights), ff: coords.NewXYZFF(positions, tags), tags: tags}
	}

	if hydration || firstRun {
		waters := m.Waters()
		wpos := make([][3]float64, len(waters))
		wweight := make([]float64, len(waters))
		for k, w := range waters {
			wpos[k] = [3]float64{w.Pos.X, w.Pos.Y, w.Pos.Z}
			wweight[k] = w.Weight
		}
		p.waterPos = coords.NewXYZW(wpos, wweight)
		p.waterW = wweight
	}

	var mapMu sync.Mutex
	batch := p.batch()

	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			if !touched[i] && !touched[j] {
				continue
			}
			i, j := i, j
			batch.Go(func() {
				d3, weighted := p.sweepPairAA(p.snapshots[i], p.snapshots[j], i == j, bins, invWidth, hasExv, weightedBins)
				mapMu.Lock()
				p.partialAA[pairKey{i, j}] = d3
				if weightedBins {
					p.weightedAA[pairKey{i, j}] = weighted
				}
				mapMu.Unlock()
			})
		}
	}
	for i := 0; i < n; i++ {
		if !touched[i] && !hydration && !firstRun {
			continue
		}
		i := i
		batch.Go(func() {
			d2, weighted := p.sweepAW(p.snapshots[i], bins, invWidth, hasExv, weightedBins)
			mapMu.Lock()
			p.partialAW[i] = d2
			if weightedBins {
				p.weightedAW[i] = weighted
			}
			mapMu.Unlock()
		})
	}
	batch.Wait()

	if hydration || firstRun {
		p.partialWW, p.weightedWW = p.sweepWW(bins, invWidth, weightedBins)
	}

	p.mu.Lock()
	master := newLocalAccum(bins, weightedBins)
	for _, d3 := range p.partialAA {
		master.aa.Merge(d3)
	}
	for _, d2 := range p.partialAW {
		master.aw.Merge(d2)
	}
	if p.partialWW != nil {
		master.ww.Merge(p.partialWW)
	}
	if weightedBins {
		for _, w := range p.weightedAA {
			master.weighted.Merge(w)
		}
		for _, w := range p.weightedAW {
			master.weighted.Merge(w)
		}
		if p.weightedWW != nil {
			master.weighted.Merge(p.weightedWW)
		}
	}
	p.mu.Unlock()

	p.state.ResetToFalse()

	last := distbin.LastNonzeroBin(master.aa, master.aw, master.ww, minFloorBin)
	resized := last + 1
	master.aa.Resize(resized)
	master.aw.Resize(resized)
	master.ww.Resize(resized)

	dAxis := make([]float64, resized)
	for i := range dAxis {
		dAxis[i] = float64(i) * p.cfg.Axes.BinWidth
	}
	if master.weighted != nil {
		master.weighted.Resize(resized)
		dAxis = master.weighted.MeanCenters(dAxis)
	}
	qAxis := debye.BuildQAxis(p.cfg.Axes.BinCount, p.cfg.Axes.QMin, p.cfg.Axes.QMax)
	return debye.New(master.aa, master.aw, master.ww, dAxis, qAxis, p.exv.Average, p.pool)
}

// sweepPairAA computes the atom-atom partial between two bodies' snapshots,
// via the same 8/4/1 lane cascade full.go's sweep uses. When self is true,
// a and b are the same body: only the upper triangle is swept and each
// atom's self-correlation is added at bin 0. The returned weighted
// distribution is nil unless weightedBins is set.
func (p *PartialManager) sweepPairAA(a, b bodySnapshot, self bool, bins int, invWidth float64, hasExv, weightedBins bool) (*distbin.Distribution3D, *distbin.Distribution1DWeighted) {
	d3 := distbin.NewDistribution3D(model.NumAllFFTags, bins)
	e := int(model.FFExcludedVolume)
	numTags := model.NumAllFFTags
	var weighted *distbin.Distribution1DWeighted
	if weightedBins {
		weighted = distbin.NewDistribution1DWeighted(bins)
	}

	add := func(t1, t2, binIdx, pairIdx int, weight float32) {
		lo, hi := decodePair(pairIdx, numTags)
		pw := float64(weight)
		d3.IncrementIndex(lo, hi, binIdx, 2, pw)
		if hasExv {
			d3.IncrementIndex(min(t1, e), max(t1, e), binIdx, 2, pw)
			d3.IncrementIndex(min(t2, e), max(t2, e), binIdx, 2, pw)
			d3.IncrementIndex(e, e, binIdx, 2, pw)
		}
	}

	if self {
		for i := 0; i < len(a.tags); i++ {
			t1 := a.tags[i]
			if weightedBins {
				sweepStrideFFWeighted(a.store.Entries[i], t1, a.store, a.ff, i+1, len(a.tags), numTags, bins, invWidth, func(j, binIdx, pairIdx int, d, weight float32) {
					add(t1, a.tags[j], binIdx, pairIdx, weight)
					weighted.Increment(binIdx, 2, float64(weight), d)
				})
			} else {
				sweepStrideFF(a.store.Entries[i], t1, a.store, a.ff, i+1, len(a.tags), numTags, bins, invWidth, func(j, binIdx, pairIdx int, weight float32) {
					add(t1, a.tags[j], binIdx, pairIdx, weight)
				})
			}
			w := a.store.Entries[i].W
			d3.IncrementIndex(t1, t1, 0, 1, float64(w*w))
			if hasExv {
				d3.IncrementIndex(e, e, 0, 1, float64(w*w))
			}
		}
		return d3, weighted
	}

	for i := 0; i < len(a.tags); i++ {
		t1 := a.tags[i]
		if weightedBins {
			sweepStrideFFWeighted(a.store.Entries[i], t1, b.store, b.ff, 0, len(b.tags), numTags, bins, invWidth, func(j, binIdx, pairIdx int, d, weight float32) {
				add(t1, b.tags[j], binIdx, pairIdx, weight)
				weighted.Increment(binIdx, 2, float64(weight), d)
			})
		} else {
			sweepStrideFF(a.store.Entries[i], t1, b.store, b.ff, 0, len(b.tags), numTags, bins, invWidth, func(j, binIdx, pairIdx int, weight float32) {
				add(t1, b.tags[j], binIdx, pairIdx, weight)
			})
		}
	}
	return d3, weighted
}

// sweepAW computes one body's atom-water partial against the manager's
// current shared water store, via the same distance+weight lane cascade.
// The returned weighted distribution is nil unless weightedBins is set.
func (p *PartialManager) sweepAW(a bodySnapshot, bins int, invWidth float64, hasExv, weightedBins bool) (*distbin.Distribution2D, *distbin.Distribution1DWeighted) {
	d2 := distbin.NewDistribution2D(model.NumAllFFTags, bins)
	var weighted *distbin.Distribution1DWeighted
	if weightedBins {
		weighted = distbin.NewDistribution1DWeighted(bins)
	}
	if p.waterPos == nil {
		return d2, weighted
	}
	e := int(model.FFExcludedVolume)
	for i := 0; i < len(a.tags); i++ {
		t1 := a.tags[i]
		if weightedBins {
			sweepStrideWWeighted(a.store.Entries[i], p.waterPos, 0, len(p.waterW), invWidth, bins, func(j, b int, d, weight float32) {
				wv := float64(weight)
				d2.IncrementIndex(t1, b, 1, wv)
				if hasExv {
					d2.IncrementIndex(e, b, 1, wv)
				}
				weighted.Increment(b, 1, wv, d)
			})
		} else {
			sweepStrideW(a.store.Entries[i], p.waterPos, 0, len(p.waterW), invWidth, bins, func(j, b int, weight float32) {
				wv := float64(weight)
				d2.IncrementIndex(t1, b, 1, wv)
				if hasExv {
					d2.IncrementIndex(e, b, 1, wv)
				}
			})
		}
	}
	return d2, weighted
}

// sweepWW computes the full water-water partial from scratch; waters carry
// no per-body identity, so a hydration change invalidates the whole term.
// The returned weighted distribution is nil unless weightedBins is set.
func (p *PartialManager) sweepWW(bins int, invWidth float64, weightedBins bool) (*distbin.Distribution1D, *distbin.Distribution1DWeighted) {
	d1 := distbin.NewDistribution1D(bins)
	var weighted *distbin.Distribution1DWeighted
	if weightedBins {
		weighted = distbin.NewDistribution1DWeighted(bins)
	}
	if p.waterPos == nil {
		return d1, weighted
	}
	n := len(p.waterW)
	for i := 0; i < n; i++ {
		if weightedBins {
			sweepStrideWWeighted(p.waterPos.Entries[i], p.waterPos, i+1, n, invWidth, bins, func(j, b int, d, weight float32) {
				d1.IncrementIndex(b, 2, float64(weight))
				weighted.Increment(b, 2, float64(weight), d)
			})
		} else {
			sweepStrideW(p.waterPos.Entries[i], p.waterPos, i+1, n, invWidth, bins, func(j, b int, weight float32) {
				d1.IncrementIndex(b, 2, float64(weight))
			})
		}
		d1.IncrementIndex(0, 1, p.waterW[i]*p.waterW[i])
	}
	return d1, weighted
}
