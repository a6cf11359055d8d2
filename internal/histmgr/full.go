package histmgr

import (
	"fmt"
	"sync"

	"github.com/ausaxs/scattercore/config"
	"github.com/ausaxs/scattercore/internal/coords"
	"github.com/ausaxs/scattercore/internal/debye"
	"github.com/ausaxs/scattercore/internal/distbin"
	"github.com/ausaxs/scattercore/internal/model"
	"github.com/ausaxs/scattercore/internal/saxserr"
	"github.com/ausaxs/scattercore/internal/workerpool"
)

const minFloorBin = 10

// FullManager recomputes the entire Composite Distance Histogram from
// scratch on every Calculate call, fanning the O(n²) pairwise sweep across
// a worker pool in outer-index chunks.
type FullManager struct {
	cfg  config.Config
	exv  ExvSetup
	pool *workerpool.Pool
}

// NewFullManager constructs a manager bound to cfg's axes/bin settings and
// the given excluded-volume setup.
func NewFullManager(cfg config.Config, exv ExvSetup, pool *workerpool.Pool) *FullManager {
	return &FullManager{cfg: cfg, exv: exv, pool: pool}
}

type localAccum struct {
	aa *distbin.Distribution3D
	aw *distbin.Distribution2D
	ww *distbin.Distribution1D
	// weighted tracks the exact-distance-weighted bin centers across every
	// pairwise contribution (aa, aw, ww alike), for hist.weighted_bins mode.
	// nil when that mode is off, so the ordinary sweep pays nothing for it.
	weighted *distbin.Distribution1DWeighted
}

func newLocalAccum(bins int, weightedBins bool) *localAccum {
	l := &localAccum{
		aa: distbin.NewDistribution3D(model.NumAllFFTags, bins),
		aw: distbin.NewDistribution2D(model.NumAllFFTags, bins),
		ww: distbin.NewDistribution1D(bins),
	}
	if weightedBins {
		l.weighted = distbin.NewDistribution1DWeighted(bins)
	}
	return l
}

func (l *localAccum) mergeInto(dst *localAccum) {
	dst.aa.Merge(l.aa)
	dst.aw.Merge(l.aw)
	dst.ww.Merge(l.ww)
	if l.weighted != nil && dst.weighted != nil {
		dst.weighted.Merge(l.weighted)
	}
}

// Calculate runs the full pairwise sweep over m's atoms and waters and
// returns a freshly wrapped Composite Distance Histogram.
func (f *FullManager) Calculate(m model.AtomicModel) (*debye.CompositeDistanceHistogram, error) {
	if err := f.cfg.Validate(); err != nil {
		return nil, err
	}
	var atoms []model.AtomFF
	for _, b := range m.Bodies() {
		atoms = append(atoms, b.Atoms...)
	}
	waters := m.Waters()

	bins := f.cfg.Axes.BinCount
	invWidth := 1.0 / f.cfg.Axes.BinWidth
	weightedBins := f.cfg.Hist.WeightedBins
	master := newLocalAccum(bins, weightedBins)

	hasExv := f.exv.Variant == VariantAverageExv

	n := len(atoms)
	jobSize := f.cfg.General.JobSize
	if jobSize <= 0 {
		jobSize = n + 1
	}

	positions := make([][3]float64, n)
	weights := make([]float64, n)
	tags := make([]int, n)
	for i, a := range atoms {
		positions[i] = [3]float64{a.Pos.X, a.Pos.Y, a.Pos.Z}
		weights[i] = a.Weight
		tags[i] = int(a.Tag)
	}
	atomW := coords.NewXYZW(positions, weights)
	atomFF := coords.NewXYZFF(positions, tags)

	wn := len(waters)
	wpositions := make([][3]float64, wn)
	wweights := make([]float64, wn)
	for i, w := range waters {
		wpositions[i] = [3]float64{w.Pos.X, w.Pos.Y, w.Pos.Z}
		wweights[i] = w.Weight
	}
	waterStore := coords.NewXYZW(wpositions, wweights)

	var mu sync.Mutex
	batch := f.batch()

	for start := 0; start < n; start += jobSize {
		end := start + jobSize
		if end > n {
			end = n
		}
		start, end := start, end
		batch.Go(func() {
			local := newLocalAccum(bins, weightedBins)
			numTags := model.NumAllFFTags
			for i := start; i < end; i++ {
				t1 := tags[i]
				if weightedBins {
					sweepStrideFFWeighted(atomW.Entries[i], t1, atomW, atomFF, i+1, n, numTags, bins, invWidth, func(j, b, pairIdx int, d, weight float32) {
						lo, hi := decodePair(pairIdx, numTags)
						pw := float64(weight)
						local.aa.IncrementIndex(lo, hi, b, 2, pw)
						if hasExv {
							t2 := tags[j]
							local.aa.IncrementIndex(min(t1, int(model.FFExcludedVolume)), max(t1, int(model.FFExcludedVolume)), b, 2, pw)
							local.aa.IncrementIndex(min(t2, int(model.FFExcludedVolume)), max(t2, int(model.FFExcludedVolume)), b, 2, pw)
							local.aa.IncrementIndex(int(model.FFExcludedVolume), int(model.FFExcludedVolume), b, 2, pw)
						}
						local.weighted.Increment(b, 2, pw, d)
					})
				} else {
					sweepStrideFF(atomW.Entries[i], t1, atomW, atomFF, i+1, n, numTags, bins, invWidth, func(j, b, pairIdx int, weight float32) {
						lo, hi := decodePair(pairIdx, numTags)
						pw := float64(weight)
						local.aa.IncrementIndex(lo, hi, b, 2, pw)
						if hasExv {
							t2 := tags[j]
							local.aa.IncrementIndex(min(t1, int(model.FFExcludedVolume)), max(t1, int(model.FFExcludedVolume)), b, 2, pw)
							local.aa.IncrementIndex(min(t2, int(model.FFExcludedVolume)), max(t2, int(model.FFExcludedVolume)), b, 2, pw)
							local.aa.IncrementIndex(int(model.FFExcludedVolume), int(model.FFExcludedVolume), b, 2, pw)
						}
					})
				}
				if weightedBins {
					sweepStrideWWeighted(atomW.Entries[i], waterStore, 0, wn, invWidth, bins, func(j, b int, d, weight float32) {
						aw := float64(weight)
						local.aw.IncrementIndex(t1, b, 1, aw)
						if hasExv {
							local.aw.IncrementIndex(int(model.FFExcludedVolume), b, 1, aw)
						}
						local.weighted.Increment(b, 1, aw, d)
					})
				} else {
					sweepStrideW(atomW.Entries[i], waterStore, 0, wn, invWidth, bins, func(j, b int, weight float32) {
						aw := float64(weight)
						local.aw.IncrementIndex(t1, b, 1, aw)
						if hasExv {
							local.aw.IncrementIndex(int(model.FFExcludedVolume), b, 1, aw)
						}
					})
				}
			}
			mu.Lock()
			local.mergeInto(master)
			mu.Unlock()
		})
	}

	for start := 0; start < wn; start += jobSize {
		end := start + jobSize
		if end > wn {
			end = wn
		}
		start, end := start, end
		batch.Go(func() {
			local := newLocalAccum(bins, weightedBins)
			for i := start; i < end; i++ {
				if weightedBins {
					sweepStrideWWeighted(waterStore.Entries[i], waterStore, i+1, wn, invWidth, bins, func(j, b int, d, weight float32) {
						local.ww.IncrementIndex(b, 2, float64(weight))
						local.weighted.Increment(b, 2, float64(weight), d)
					})
				} else {
					sweepStrideW(waterStore.Entries[i], waterStore, i+1, wn, invWidth, bins, func(j, b int, weight float32) {
						local.ww.IncrementIndex(b, 2, float64(weight))
					})
				}
			}
			mu.Lock()
			local.mergeInto(master)
			mu.Unlock()
		})
	}
	batch.Wait()

	for i, a := range atoms {
		master.aa.IncrementIndex(int(a.Tag), int(a.Tag), 0, 1, weights[i]*weights[i])
		if hasExv {
			master.aa.IncrementIndex(int(model.FFExcludedVolume), int(model.FFExcludedVolume), 0, 1, weights[i]*weights[i])
		}
	}
	var waterSelf float64
	for _, w := range wweights {
		waterSelf += w * w
	}
	master.ww.IncrementIndex(0, 1, waterSelf)

	if f.exv.Variant == VariantGridExv {
		if err := f.sweepGridExv(atoms, master, invWidth, bins); err != nil {
			return nil, err
		}
	}

	last := distbin.LastNonzeroBin(master.aa, master.aw, master.ww, minFloorBin)
	resized := last + 1
	master.aa.Resize(resized)
	master.aw.Resize(resized)
	master.ww.Resize(resized)

	dAxis := make([]float64, resized)
	for i := range dAxis {
		dAxis[i] = float64(i) * f.cfg.Axes.BinWidth
	}
	if master.weighted != nil {
		master.weighted.Resize(resized)
		dAxis = master.weighted.MeanCenters(dAxis)
	}
	qAxis := debye.BuildQAxis(f.cfg.Axes.BinCount, f.cfg.Axes.QMin, f.cfg.Axes.QMax)

	var evaluator = f.exv.Average
	return debye.New(master.aa, master.aw, master.ww, dAxis, qAxis, evaluator, f.pool)
}

// sweepGridExv builds a dummy-atom store via the grid collaborator and
// sweeps it against the real atoms (ax) and against itself (xx), instead
// of mirroring real atom-atom counts the way the average-exv variant does.
func (f *FullManager) sweepGridExv(atoms []model.AtomFF, master *localAccum, invWidth float64, bins int) error {
	if f.exv.Grid == nil {
		return fmt.Errorf("%w: grid excluded-volume variant requires a Generator", saxserr.ErrInvalidConfiguration)
	}
	dummies := f.exv.Grid.Generate(atoms)
	dn := len(dummies)
	dpos := make([][3]float64, dn)
	dweight := make([]float64, dn)
	for i, d := range dummies {
		dpos[i] = [3]float64{d.Pos.X, d.Pos.Y, d.Pos.Z}
		dweight[i] = d.Weight
	}
	dummyStore := coords.NewXYZW(dpos, dweight)

	atomPos := make([][3]float64, len(atoms))
	atomWeight := make([]float64, len(atoms))
	atomTag := make([]int, len(atoms))
	for i, a := range atoms {
		atomPos[i] = [3]float64{a.Pos.X, a.Pos.Y, a.Pos.Z}
		atomWeight[i] = a.Weight
		atomTag[i] = int(a.Tag)
	}
	atomStore := coords.NewXYZW(atomPos, atomWeight)

	e := int(model.FFExcludedVolume)
	for i := range atoms {
		t := atomTag[i]
		lo, hi := t, e
		if lo > hi {
			lo, hi = hi, lo
		}
		sweepStrideW(atomStore.Entries[i], dummyStore, 0, dn, invWidth, bins, func(j, b int, weight float32) {
			master.aa.IncrementIndex(lo, hi, b, 2, float64(weight))
		})
	}
	for i := 0; i < dn; i++ {
		sweepStrideW(dummyStore.Entries[i], dummyStore, i+1, dn, invWidth, bins, func(j, b int, weight float32) {
			master.aa.IncrementIndex(e, e, b, 2, float64(weight))
		})
	}
	return nil
}

func (f *FullManager) batch() *workerpool.Batch {
	if f.pool != nil {
		return f.pool.NewBatch()
	}
	return &workerpool.Batch{}
}
