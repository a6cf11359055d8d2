package histmgr

import "github.com/ausaxs/scattercore/internal/coords"

// sweepStrideW walks one fixed record against every candidate in
// store.Entries[jStart:n] using the 8-then-4-then-1 stride-band cascade:
// pack eight candidates through the octo-lane kernel while eight remain,
// fall back to the quad lane for a four-candidate remainder, then the
// scalar kernel for whatever is left. visit is called once per candidate
// whose rounded bin falls inside [0,bins); out-of-range candidates never
// reach it.
func sweepStrideW(a coords.Record, store *coords.XYZW, jStart, n int, invWidth float64, bins int, visit func(j, b int, weight float32)) {
	j := jStart
	for ; j+8 <= n; j += 8 {
		var block [8]coords.Record
		copy(block[:], store.Entries[j:j+8])
		bs, ws := coords.EvaluateXYZWRounded8(a, block, invWidth)
		for k := 0; k < 8; k++ {
			b := int(bs[k])
			if b < 0 || b >= bins {
				continue
			}
			visit(j+k, b, ws[k])
		}
	}
	for ; j+4 <= n; j += 4 {
		var block [4]coords.Record
		copy(block[:], store.Entries[j:j+4])
		bs, ws := coords.EvaluateXYZWRounded4(a, block, invWidth)
		for k := 0; k < 4; k++ {
			b := int(bs[k])
			if b < 0 || b >= bins {
				continue
			}
			visit(j+k, b, ws[k])
		}
	}
	for ; j < n; j++ {
		bi, w := coords.EvaluateXYZWRounded(a, store.Entries[j], invWidth)
		b := int(bi)
		if b < 0 || b >= bins {
			continue
		}
		visit(j, b, w)
	}
}

// sweepStrideFF is sweepStrideW's atom-atom counterpart: alongside the
// same 8/4/1 distance cascade (read off the weight-carrying candidate
// store), it canonicalizes each candidate's form-factor-tag pair via the
// FF store and EncodePair, so the caller gets a ready-to-decode pair index
// instead of having to re-derive lo/hi itself. The fixed atom's position
// and tag are passed directly rather than as a store index, so the same
// helper covers both a body's self-sweep and a cross-body sweep where the
// fixed atom and the candidates come from different stores. The scalar
// tail uses EvaluateXYZFFRounded directly, which folds the
// distance-rounding and the EncodePair call into a single kernel call the
// way the wide lanes do for distance+weight.
func sweepStrideFF(aPos coords.Record, aTag int, candW *coords.XYZW, candFF *coords.XYZFF, jStart, n, numTags, bins int, invWidth float64, visit func(j, b, pairIdx int, weight float32)) {
	j := jStart
	for ; j+8 <= n; j += 8 {
		var block [8]coords.Record
		copy(block[:], candW.Entries[j:j+8])
		bs, ws := coords.EvaluateXYZWRounded8(aPos, block, invWidth)
		for k := 0; k < 8; k++ {
			b := int(bs[k])
			if b < 0 || b >= bins {
				continue
			}
			pairIdx := coords.EncodePair(aTag, int(candFF.Entries[j+k].W), numTags)
			visit(j+k, b, pairIdx, ws[k])
		}
	}
	for ; j+4 <= n; j += 4 {
		var block [4]coords.Record
		copy(block[:], candW.Entries[j:j+4])
		bs, ws := coords.EvaluateXYZWRounded4(aPos, block, invWidth)
		for k := 0; k < 4; k++ {
			b := int(bs[k])
			if b < 0 || b >= bins {
				continue
			}
			pairIdx := coords.EncodePair(aTag, int(candFF.Entries[j+k].W), numTags)
			visit(j+k, b, pairIdx, ws[k])
		}
	}
	aFF := coords.Record{X: aPos.X, Y: aPos.Y, Z: aPos.Z, W: float32(aTag)}
	for ; j < n; j++ {
		bi, pairIdx := coords.EvaluateXYZFFRounded(aFF, candFF.Entries[j], numTags, invWidth)
		b := int(bi)
		if b < 0 || b >= bins {
			continue
		}
		_, w := coords.EvaluateXYZW(aPos, candW.Entries[j])
		visit(j, b, pairIdx, w)
	}
}

// decodePair reverses EncodePair's canonical {lo<=hi} encoding.
func decodePair(pairIdx, numTags int) (lo, hi int) {
	return pairIdx / numTags, pairIdx % numTags
}

// sweepStrideWWeighted is sweepStrideW's distance-preserving counterpart:
// the same 8/4/1 cascade, but built on the unrounded EvaluateXYZW4/8
// kernels so the exact pre-rounding distance reaches the caller alongside
// the rounded bin, instead of being discarded the way the Rounded kernels
// do. Used only when a weighted bin-center accumulator is in play — the
// ordinary sweep has no use for the exact distance once it has a bin.
func sweepStrideWWeighted(a coords.Record, store *coords.XYZW, jStart, n int, invWidth float64, bins int, visit func(j, b int, distance, weight float32)) {
	j := jStart
	for ; j+8 <= n; j += 8 {
		var block [8]coords.Record
		copy(block[:], store.Entries[j:j+8])
		ds, ws := coords.EvaluateXYZW8(a, block)
		for k := 0; k < 8; k++ {
			b := int(coords.EvaluateRounded(ds[k], invWidth))
			if b < 0 || b >= bins {
				continue
			}
			visit(j+k, b, ds[k], ws[k])
		}
	}
	for ; j+4 <= n; j += 4 {
		var block [4]coords.Record
		copy(block[:], store.Entries[j:j+4])
		ds, ws := coords.EvaluateXYZW4(a, block)
		for k := 0; k < 4; k++ {
			b := int(coords.EvaluateRounded(ds[k], invWidth))
			if b < 0 || b >= bins {
				continue
			}
			visit(j+k, b, ds[k], ws[k])
		}
	}
	for ; j < n; j++ {
		d, w := coords.EvaluateXYZW(a, store.Entries[j])
		b := int(coords.EvaluateRounded(d, invWidth))
		if b < 0 || b >= bins {
			continue
		}
		visit(j, b, d, w)
	}
}

// sweepStrideFFWeighted is sweepStrideFF's distance-preserving counterpart,
// for the atom-atom stream under the same weighted-bin-center accumulator.
func sweepStrideFFWeighted(aPos coords.Record, aTag int, candW *coords.XYZW, candFF *coords.XYZFF, jStart, n, numTags, bins int, invWidth float64, visit func(j, b, pairIdx int, distance, weight float32)) {
	j := jStart
	for ; j+8 <= n; j += 8 {
		var block [8]coords.Record
		copy(block[:], candW.Entries[j:j+8])
		ds, ws := coords.EvaluateXYZW8(aPos, block)
		for k := 0; k < 8; k++ {
			b := int(coords.EvaluateRounded(ds[k], invWidth))
			if b < 0 || b >= bins {
				continue
			}
			pairIdx := coords.EncodePair(aTag, int(candFF.Entries[j+k].W), numTags)
			visit(j+k, b, pairIdx, ds[k], ws[k])
		}
	}
	for ; j+4 <= n; j += 4 {
		var block [4]coords.Record
		copy(block[:], candW.Entries[j:j+4])
		ds, ws := coords.EvaluateXYZW4(aPos, block)
		for k := 0; k < 4; k++ {
			b := int(coords.EvaluateRounded(ds[k], invWidth))
			if b < 0 || b >= bins {
				continue
			}
			pairIdx := coords.EncodePair(aTag, int(candFF.Entries[j+k].W), numTags)
			visit(j+k, b, pairIdx, ds[k], ws[k])
		}
	}
	for ; j < n; j++ {
		d, w := coords.EvaluateXYZW(aPos, candW.Entries[j])
		b := int(coords.EvaluateRounded(d, invWidth))
		if b < 0 || b >= bins {
			continue
		}
		pairIdx := coords.EncodePair(aTag, int(candFF.Entries[j].W), numTags)
		visit(j, b, pairIdx, d, w)
	}
}
