package reedsolomon

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/rotkonetworks/zeratul-sub005/binfield"
)

// Twiddles are stored in heap order: the node at heap index idx (root = 1)
// applies twiddles[idx-1] to its span before/after recursing into children
// 2*idx and 2*idx+1. The tree for a message length m is the leftmost subtree
// of the tree for any block length n > m built from the same base point,
// which is what makes the encoding systematic.
func computeTwiddles[T binfield.Elem[T]](logN int, beta T) []T {
	if logN == 0 {
		return nil
	}
	n := 1 << logN

	twiddles := make([]T, n-1)
	layer := make([]T, n/2)

	var z T
	sPrevAtRoot := binfield.One[T]()
	for i := range layer {
		layer[i] = beta.Add(z.FromBits(uint64(2 * i)))
	}
	copy(twiddles[n/2-1:], layer)

	for writeAt := n / 4; writeAt > 0; writeAt /= 2 {
		layerLen := min(writeAt, len(layer)/2)

		// s(beta + v) + s(beta) evaluated one level up.
		sAtRoot := nextS(layer[1].Add(layer[0]), sPrevAtRoot)
		if sAtRoot.IsZero() {
			break
		}

		for idx := 0; idx < layerLen; idx++ {
			layer[idx] = nextS(layer[idx*2], sPrevAtRoot)
		}

		sInv := sAtRoot.Inv()
		for i := 0; i < layerLen; i++ {
			twiddles[writeAt-1+i] = sInv.Mul(layer[i])
		}

		sPrevAtRoot = sAtRoot
	}

	return twiddles
}

func nextS[T binfield.Elem[T]](s, sAtRoot T) T {
	return s.Square().Add(sAtRoot.Mul(s))
}

// fft evaluates in place. The butterfly at each node is
// u' = u + lambda*w; w' = u' + w.
func fft[T binfield.Elem[T]](v []T, twiddles []T, idx int) {
	if len(v) == 1 {
		return
	}
	lambda := twiddles[idx-1]
	mid := len(v) / 2
	u, w := v[:mid], v[mid:]
	for i := range u {
		u[i] = u[i].Add(lambda.Mul(w[i]))
		w[i] = w[i].Add(u[i])
	}
	fft(u, twiddles, 2*idx)
	fft(w, twiddles, 2*idx+1)
}

const fftParallelThreshold = 1 << 12

// fftParallel is fft with the two child recursions run concurrently while
// the spans stay large. Prover-side only.
func fftParallel[T binfield.Elem[T]](v []T, twiddles []T, idx int) {
	if len(v) < fftParallelThreshold {
		fft(v, twiddles, idx)
		return
	}
	lambda := twiddles[idx-1]
	mid := len(v) / 2
	u, w := v[:mid], v[mid:]
	for i := range u {
		u[i] = u[i].Add(lambda.Mul(w[i]))
		w[i] = w[i].Add(u[i])
	}
	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	g.Go(func() error { fftParallel(u, twiddles, 2*idx); return nil })
	g.Go(func() error { fftParallel(w, twiddles, 2*idx+1); return nil })
	_ = g.Wait()
}

// ifft inverts fft: recurse first, then apply the inverse butterfly
// hi' = hi + lo; lo' = lo + lambda*hi'.
func ifft[T binfield.Elem[T]](v []T, twiddles []T, idx int) {
	if len(v) == 1 {
		return
	}
	mid := len(v) / 2
	lo, hi := v[:mid], v[mid:]
	ifft(lo, twiddles, 2*idx)
	ifft(hi, twiddles, 2*idx+1)
	lambda := twiddles[idx-1]
	for i := range lo {
		hi[i] = hi[i].Add(lo[i])
		lo[i] = lo[i].Add(lambda.Mul(hi[i]))
	}
}

// fftT applies the transpose of fft: children first (in transposed order),
// then the transposed butterfly u' = u + w; w' = w + lambda*u'.
func fftT[T binfield.Elem[T]](v []T, twiddles []T, idx int) {
	if len(v) == 1 {
		return
	}
	mid := len(v) / 2
	u, w := v[:mid], v[mid:]
	fftT(u, twiddles, 2*idx)
	fftT(w, twiddles, 2*idx+1)
	lambda := twiddles[idx-1]
	for i := range u {
		u[i] = u[i].Add(w[i])
		w[i] = w[i].Add(lambda.Mul(u[i]))
	}
}

// ifftT applies the transpose of ifft: the transposed butterfly
// hi' = hi + lambda*lo; lo' = lo + hi', then children.
func ifftT[T binfield.Elem[T]](v []T, twiddles []T, idx int) {
	if len(v) == 1 {
		return
	}
	mid := len(v) / 2
	lo, hi := v[:mid], v[mid:]
	lambda := twiddles[idx-1]
	for i := range lo {
		hi[i] = hi[i].Add(lambda.Mul(lo[i]))
		lo[i] = lo[i].Add(hi[i])
	}
	ifftT(lo, twiddles, 2*idx)
	ifftT(hi, twiddles, 2*idx+1)
}
