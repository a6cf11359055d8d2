package debye

import (
	"fmt"

	"github.com/ausaxs/scattercore/internal/distbin"
	"github.com/ausaxs/scattercore/internal/formfactor"
	"github.com/ausaxs/scattercore/internal/model"
	"github.com/ausaxs/scattercore/internal/saxserr"
	"github.com/ausaxs/scattercore/internal/workerpool"
)

// numAtomTags (F) and numAllTags (F', adding the excluded-volume slot)
// mirror model.NumAtomFFTags / model.NumAllFFTags so loop bounds here don't
// need to reach into model's iota details directly.
const (
	numAtomTags = model.NumAtomFFTags
	numAllTags  = model.NumAllFFTags
	exvIndex    = numAtomTags // E sits at the first slot past the atom tags
)

// ScatteringProfile is a vector of I(q) aligned to an instance's q-axis.
type ScatteringProfile []float64

// CompositeDistanceHistogram is the cached Debye-transform engine: it owns
// the accumulated aa/aw/ww distance distributions and a three-layer cache
// (distance profiles, sinqd inner products, intensity profiles) built on
// top of them, so that changing only the water or excluded-volume scaling
// factor doesn't force a full O(bins·q) recomputation.
//
// aw is sized to numAllTags rather than the atom-only tag count: the wx
// intensity term needs p_aw[E,k] (dummy-atom/water pair counts), so the
// water-axis distribution carries a row for the excluded-volume tag in any
// exv-enabled variant. The plain variant simply leaves that row at zero.
type CompositeDistanceHistogram struct {
	aa *distbin.Distribution3D
	aw *distbin.Distribution2D
	ww *distbin.Distribution1D

	dAxis []float64
	qAxis []float64

	cw, cx float64

	exv  formfactor.ExvEvaluator
	pool *workerpool.Pool

	sinc *SincTable

	// layer 1: 1D distance-profile projections.
	pAA, pAW, pWW *distbin.Distribution1D
	profilesValid bool

	// layer 2: sinqd inner products, one row per q for each form-factor
	// pairing the intensity terms need.
	sAAPair   map[[2]int][]float64 // atom-tag pair -> [qi], t1<=t2 only
	sAXPerTag [][]float64          // [atomTag][qi], Σ_k aa[t,E,k]·sinc
	sXX       []float64            // [qi], Σ_k aa[E,E,k]·sinc
	sAWPerTag [][]float64          // [atomTag][qi], Σ_k aw[t,k]·sinc
	sWX       []float64            // [qi], Σ_k aw[E,k]·sinc
	sWW       []float64            // [qi], Σ_k ww[k]·sinc
	sinqdValid bool

	// layer 3: intensity profiles, invalidated independently of layer 2
	// whenever only cw or cx changes.
	iAA, iAX, iXX, iAW, iWX, iWW ScatteringProfile
	cachedCW, cachedCX           float64
	haveIntensity                bool
}

// New constructs a histogram over the given distributions and q-axis, with
// cw = cx = 1.
func New(aa *distbin.Distribution3D, aw *distbin.Distribution2D, ww *distbin.Distribution1D, dAxis, qAxis []float64, exv formfactor.ExvEvaluator, pool *workerpool.Pool) (*CompositeDistanceHistogram, error) {
	h := &CompositeDistanceHistogram{cw: 1, cx: 1, exv: exv, pool: pool}
	if err := h.ReplaceDistributions(aa, aw, ww, dAxis, qAxis); err != nil {
		return nil, err
	}
	return h, nil
}

// ReplaceDistributions swaps in new distributions (after a full or partial
// recompute) and invalidates every cache layer.
func (h *CompositeDistanceHistogram) ReplaceDistributions(aa *distbin.Distribution3D, aw *distbin.Distribution2D, ww *distbin.Distribution1D, dAxis, qAxis []float64) error {
	if aa.Bins != len(dAxis) || aw.Bins != len(dAxis) || len(ww.Data) != len(dAxis) {
		return fmt.Errorf("%w: aa/aw/ww bin counts must match the distance axis length", saxserr.ErrInconsistentState)
	}
	h.aa, h.aw, h.ww = aa, aw, ww
	h.dAxis, h.qAxis = dAxis, qAxis
	h.sinc = BuildSincTable(qAxis, dAxis)
	h.profilesValid = false
	h.sinqdValid = false
	h.haveIntensity = false
	return nil
}

// ApplyWaterScalingFactor sets cw, the water-contrast free parameter.
func (h *CompositeDistanceHistogram) ApplyWaterScalingFactor(cw float64) { h.cw = cw }

// ApplyExcludedVolumeScalingFactor sets cx, the excluded-volume free
// parameter.
func (h *CompositeDistanceHistogram) ApplyExcludedVolumeScalingFactor(cx float64) { h.cx = cx }

func (h *CompositeDistanceHistogram) ensureDistanceProfiles() {
	if h.profilesValid {
		return
	}
	h.pAA = h.aa.Project1D()
	h.pAW = h.aw.Project1D()
	h.pWW = &distbin.Distribution1D{Data: append([]float64(nil), h.ww.Data...)}
	h.profilesValid = true
}

// GetAACounts, GetAWCounts, GetWWCounts are the 1D distance-profile
// accessors used for model-independent shape diagnostics.
func (h *CompositeDistanceHistogram) GetAACounts() *distbin.Distribution1D {
	h.ensureDistanceProfiles()
	return h.pAA
}
func (h *CompositeDistanceHistogram) GetAWCounts() *distbin.Distribution1D {
	h.ensureDistanceProfiles()
	return h.pAW
}
func (h *CompositeDistanceHistogram) GetWWCounts() *distbin.Distribution1D {
	h.ensureDistanceProfiles()
	return h.pWW
}

// GetTotalCounts returns p_aa + 2·cw·p_aw + cw²·p_ww.
func (h *CompositeDistanceHistogram) GetTotalCounts() *distbin.Distribution1D {
	h.ensureDistanceProfiles()
	out := distbin.NewDistribution1D(len(h.dAxis))
	for k := range out.Data {
		out.Data[k] = h.pAA.Data[k] + 2*h.cw*h.pAW.Data[k] + h.cw*h.cw*h.pWW.Data[k]
	}
	return out
}

// GetDAxis returns the (weighted or nominal) bin centers in use.
func (h *CompositeDistanceHistogram) GetDAxis() []float64 { return h.dAxis }

// ensureSinqd rebuilds layer 2 from the raw distributions. This is the
// expensive O(tags²·bins·qbins) pass; it is invalidated only by
// ReplaceDistributions, never by a scaling-factor change alone.
func (h *CompositeDistanceHistogram) ensureSinqd() {
	if h.sinqdValid {
		return
	}
	nq := len(h.qAxis)

	h.sAAPair = make(map[[2]int][]float64)
	h.sAXPerTag = make([][]float64, numAtomTags)
	h.sAWPerTag = make([][]float64, numAtomTags)
	h.sXX = make([]float64, nq)
	h.sWX = make([]float64, nq)
	h.sWW = make([]float64, nq)

	batch := h.batch()

	for t1 := 0; t1 < numAtomTags; t1++ {
		for t2 := t1; t2 < numAtomTags; t2++ {
			t1, t2 := t1, t2
			row := make([]float64, nq)
			h.sAAPair[[2]int{t1, t2}] = row
			batch.Go(func() {
				p := h.aa.Data[t1][t2]
				for qi := range row {
					row[qi] = h.sinc.InnerProduct(qi, p)
				}
			})
		}
	}
	for t := 0; t < numAtomTags; t++ {
		t := t
		axRow := make([]float64, nq)
		awRow := make([]float64, nq)
		h.sAXPerTag[t] = axRow
		h.sAWPerTag[t] = awRow
		batch.Go(func() {
			axP := h.aa.Data[t][exvIndex]
			for qi := range axRow {
				axRow[qi] = h.sinc.InnerProduct(qi, axP)
			}
			awP := h.aw.Data[t]
			for qi := range awRow {
				awRow[qi] = h.sinc.InnerProduct(qi, awP)
			}
		})
	}
	batch.Go(func() {
		xxP := h.aa.Data[exvIndex][exvIndex]
		for qi := range h.sXX {
			h.sXX[qi] = h.sinc.InnerProduct(qi, xxP)
		}
	})
	batch.Go(func() {
		wxP := h.aw.Data[exvIndex]
		for qi := range h.sWX {
			h.sWX[qi] = h.sinc.InnerProduct(qi, wxP)
		}
	})
	batch.Go(func() {
		for qi := range h.sWW {
			h.sWW[qi] = h.sinc.InnerProduct(qi, h.ww.Data)
		}
	})
	batch.Wait()

	h.sinqdValid = true
	h.haveIntensity = false
}

func (h *CompositeDistanceHistogram) batch() *workerpool.Batch {
	if h.pool != nil {
		return h.pool.NewBatch()
	}
	// A nil pool degrades to synchronous execution: Go(f) runs f inline
	// and Wait is a no-op, so single-threaded callers (tests, small
	// bodies) don't need to construct a pool just to call ensureSinqd.
	return &workerpool.Batch{}
}

// exvFactor returns F_E(q), the excluded-volume form factor. cx is NOT
// folded in here: it is a combination-time scaling coefficient applied in
// DebyeTransform, distinct from any internal radius-scale reinterpretation
// a particular ExvEvaluator (e.g. GridExv) may apply to its own fields.
func (h *CompositeDistanceHistogram) exvFactor(q float64) float64 {
	if h.exv == nil {
		return 0
	}
	return h.exv.Factor(q)
}

func (h *CompositeDistanceHistogram) rebuildAA() {
	nq := len(h.qAxis)
	h.iAA = make(ScatteringProfile, nq)
	for qi, q := range h.qAxis {
		var sum float64
		for t1 := 0; t1 < numAtomTags; t1++ {
			f1 := formfactor.Evaluate(model.FFTag(t1), q)
			for t2 := t1; t2 < numAtomTags; t2++ {
				f2 := formfactor.Evaluate(model.FFTag(t2), q)
				// the canonical (t1<=t2) slice already holds both orderings
				// of every cross-tag pair (factor 2 at accumulation).
				s := h.sAAPair[[2]int{t1, t2}][qi]
				sum += f1 * f2 * s
			}
		}
		h.iAA[qi] = sum
	}
}

func (h *CompositeDistanceHistogram) rebuildAXXX() {
	nq := len(h.qAxis)
	h.iAX = make(ScatteringProfile, nq)
	h.iXX = make(ScatteringProfile, nq)
	for qi, q := range h.qAxis {
		fe := h.exvFactor(q)
		var ax float64
		for t := 0; t < numAtomTags; t++ {
			ft := formfactor.Evaluate(model.FFTag(t), q)
			ax += ft * fe * h.sAXPerTag[t][qi]
		}
		h.iAX[qi] = ax
		h.iXX[qi] = fe * fe * h.sXX[qi]
	}
}

func (h *CompositeDistanceHistogram) rebuildAWWW() {
	nq := len(h.qAxis)
	h.iAW = make(ScatteringProfile, nq)
	h.iWW = make(ScatteringProfile, nq)
	for qi, q := range h.qAxis {
		fw := formfactor.Evaluate(model.FFWater, q)
		var aw float64
		for t := 0; t < numAtomTags; t++ {
			ft := formfactor.Evaluate(model.FFTag(t), q)
			aw += ft * fw * h.sAWPerTag[t][qi]
		}
		h.iAW[qi] = aw
		h.iWW[qi] = fw * fw * h.sWW[qi]
	}
}

func (h *CompositeDistanceHistogram) rebuildWX() {
	nq := len(h.qAxis)
	h.iWX = make(ScatteringProfile, nq)
	for qi, q := range h.qAxis {
		fw := formfactor.Evaluate(model.FFWater, q)
		fe := h.exvFactor(q)
		h.iWX[qi] = fw * fe * h.sWX[qi]
	}
}

// ensureIntensity applies the cache protocol governing layer 3: a full
// sinqd invalidation forces every term to rebuild; otherwise only the
// terms whose dependency (cx, cw, or both) actually changed since the last
// access are recomputed.
func (h *CompositeDistanceHistogram) ensureIntensity() {
	wasSinqdValid := h.sinqdValid
	h.ensureSinqd()

	sinqdJustRebuilt := wasSinqdValid == false
	cxChanged := h.haveIntensity && h.cachedCX != h.cx
	cwChanged := h.haveIntensity && h.cachedCW != h.cw

	switch {
	case sinqdJustRebuilt || !h.haveIntensity:
		h.rebuildAA()
		h.rebuildAXXX()
		h.rebuildAWWW()
		h.rebuildWX()
	case cxChanged && cwChanged:
		h.rebuildAXXX()
		h.rebuildAWWW()
		h.rebuildWX()
	case cxChanged:
		h.rebuildAXXX()
		h.rebuildWX()
	case cwChanged:
		h.rebuildAWWW()
		h.rebuildWX()
	}

	h.cachedCW, h.cachedCX = h.cw, h.cx
	h.haveIntensity = true
}

// GetProfileAA, GetProfileAX, GetProfileXX, GetProfileAW, GetProfileWX,
// GetProfileWW return the six raw (cw/cx-unscaled) intensity terms of the
// Debye sum, each aligned to the instance's q-axis. DebyeTransform is the
// one that applies cw, cx, and the alternating signs.
func (h *CompositeDistanceHistogram) GetProfileAA() ScatteringProfile { h.ensureIntensity(); return h.iAA }
func (h *CompositeDistanceHistogram) GetProfileAX() ScatteringProfile { h.ensureIntensity(); return h.iAX }
func (h *CompositeDistanceHistogram) GetProfileXX() ScatteringProfile { h.ensureIntensity(); return h.iXX }
func (h *CompositeDistanceHistogram) GetProfileAW() ScatteringProfile { h.ensureIntensity(); return h.iAW }
func (h *CompositeDistanceHistogram) GetProfileWX() ScatteringProfile { h.ensureIntensity(); return h.iWX }
func (h *CompositeDistanceHistogram) GetProfileWW() ScatteringProfile { h.ensureIntensity(); return h.iWW }

// DebyeTransform combines the six intensity terms into the final
// scattering profile:
//
//	I(q) = aa − 2·cx·ax + cx²·xx + 2·cw·aw − 2·cw·cx·wx + cw²·ww
func (h *CompositeDistanceHistogram) DebyeTransform() ScatteringProfile {
	h.ensureIntensity()
	out := make(ScatteringProfile, len(h.qAxis))
	for qi := range out {
		out[qi] = h.iAA[qi] -
			2*h.cx*h.iAX[qi] +
			h.cx*h.cx*h.iXX[qi] +
			2*h.cw*h.iAW[qi] -
			2*h.cw*h.cx*h.iWX[qi] +
			h.cw*h.cw*h.iWW[qi]
	}
	return out
}
