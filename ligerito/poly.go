package ligerito

import (
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rotkonetworks/zeratul-sub005/binfield"
	"github.com/rotkonetworks/zeratul-sub005/reedsolomon"
)

// liftPolynomial injects the 32-bit input coefficients into the protocol
// field. The lift is a plain injection; no cross-field algebra ever mixes
// lifted and unlifted values.
func liftPolynomial(poly []binfield.Elem32) []Elem {
	out := make([]Elem, len(poly))
	for i, c := range poly {
		out[i] = Elem{Lo: uint64(c)}
	}
	return out
}

func dot(a, b []Elem) Elem {
	var acc Elem
	for i := range a {
		acc = acc.Add(a[i].Mul(b[i]))
	}
	return acc
}

// addScaled sets dst[i] += c * src[i].
func addScaled(dst []Elem, c Elem, src []Elem) {
	for i := range dst {
		dst[i] = dst[i].Add(c.Mul(src[i]))
	}
}

// foldHigh collapses the top variable of a multilinear coefficient vector:
// out[x] = (1+r)*v[x] + r*v[x+half], the line through the two halves
// evaluated at r. Viewing v as a rows-by-cols matrix stored column-major,
// repeated folds collapse the column index.
func foldHigh(v []Elem, r Elem) []Elem {
	half := len(v) / 2
	out := make([]Elem, half)
	for x := 0; x < half; x++ {
		out[x] = v[x].Add(r.Mul(v[x].Add(v[x+half])))
	}
	return out
}

// lagrangeBasis expands fold challenges into the weight vector w with
// w[j] = prod_t (bit(j) ? rs[t] : 1+rs[t]), rs[0] weighting the top bit of
// j, so that folding v by rs equals, for each x, the dot product of matrix
// row x with w.
func lagrangeBasis(rs []Elem) []Elem {
	basis := []Elem{binfield.One[Elem]()}
	for t := len(rs) - 1; t >= 0; t-- {
		r := rs[t]
		next := make([]Elem, 2*len(basis))
		for j, b := range basis {
			rb := r.Mul(b)
			next[j] = b.Add(rb)
			next[j+len(basis)] = rb
		}
		basis = next
	}
	return basis
}

// sumcheckRound returns the coefficients (c0, c1, c2) of the degree-2 round
// polynomial g(r) = sum_x f'(x,r) * b'(x,r) when both vectors fold their
// top variable. The previous claim equals g(0)+g(1) = c1+c2.
func sumcheckRound(f, b []Elem) [3]Elem {
	half := len(f) / 2
	var c0, c1, c2 Elem
	for x := 0; x < half; x++ {
		flo, fhi := f[x], f[x+half]
		blo, bhi := b[x], b[x+half]
		df := flo.Add(fhi)
		db := blo.Add(bhi)
		c0 = c0.Add(flo.Mul(blo))
		c1 = c1.Add(flo.Mul(db)).Add(df.Mul(blo))
		c2 = c2.Add(df.Mul(db))
	}
	return [3]Elem{c0, c1, c2}
}

// evalQuad evaluates c0 + c1*r + c2*r^2.
func evalQuad(c [3]Elem, r Elem) Elem {
	return c[0].Add(r.Mul(c[1].Add(r.Mul(c[2]))))
}

// rowBytes serializes a matrix row as consecutive little-endian elements,
// the leaf format of every hash-tree commitment.
func rowBytes(row []Elem) []byte {
	buf := make([]byte, 0, len(row)*16)
	for _, e := range row {
		buf = e.AppendBytes(buf)
	}
	return buf
}

// accumulateOpening batches a set of opened codeword rows into a single
// claim: sigma = sum_t alpha^t * <rows[t], basis> together with the matching
// basis-side vector b = sum_t alpha^t * LagrangeRow(q_t), so that
// sigma == <folded message, b> whenever the rows are honest codeword rows.
//
// The parallel path spreads the Lagrange row reconstructions over workers;
// the verifier always passes parallel=false and stays single-threaded.
func accumulateOpening(code *reedsolomon.Code[Elem], rows [][]Elem, queries []int, alpha Elem, basis []Elem, parallel bool) (Elem, []Elem, error) {
	apow := make([]Elem, len(queries))
	ap := binfield.One[Elem]()
	for t := range apow {
		apow[t] = ap
		ap = ap.Mul(alpha)
	}

	var sigma Elem
	for t := range queries {
		sigma = sigma.Add(apow[t].Mul(dot(rows[t], basis)))
	}

	b := make([]Elem, code.MessageLen())
	if parallel {
		var mu sync.Mutex
		g := new(errgroup.Group)
		g.SetLimit(runtime.NumCPU())
		for t, q := range queries {
			t, q := t, q
			g.Go(func() error {
				lrow, err := code.LagrangeRow(q)
				if err != nil {
					return err
				}
				mu.Lock()
				addScaled(b, apow[t], lrow)
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Elem{}, nil, err
		}
	} else {
		for t, q := range queries {
			lrow, err := code.LagrangeRow(q)
			if err != nil {
				return Elem{}, nil, err
			}
			addScaled(b, apow[t], lrow)
		}
	}
	return sigma, b, nil
}
