package ligerito

import (
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rotkonetworks/zeratul-sub005/logger"
	"github.com/rotkonetworks/zeratul-sub005/merkle"
	"github.com/rotkonetworks/zeratul-sub005/reedsolomon"
)

// committedMatrix holds one level's encoded matrix and its hash tree. The
// coefficient vector is viewed column-major: column j is f[j*rows:(j+1)*rows],
// each column is encoded independently, and the tree commits to the rows of
// the encoded matrix.
type committedMatrix struct {
	cols    int
	encRows [][]Elem
	tree    *merkle.Tree
}

func commitMatrix(code *reedsolomon.Code[Elem], f []Elem, rows, cols int) (*committedMatrix, error) {
	if len(f) != rows*cols || code.MessageLen() != rows {
		return nil, fmt.Errorf("matrix shape %dx%d does not fit %d coefficients", rows, cols, len(f))
	}

	encCols := make([][]Elem, cols)
	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for j := 0; j < cols; j++ {
		j := j
		g.Go(func() error {
			var err error
			encCols[j], err = code.Encode(f[j*rows : (j+1)*rows])
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	n := code.BlockLen()
	encRows := make([][]Elem, n)
	leaves := make([][]byte, n)
	for q := 0; q < n; q++ {
		row := make([]Elem, cols)
		for j := 0; j < cols; j++ {
			row[j] = encCols[j][q]
		}
		encRows[q] = row
		leaves[q] = rowBytes(row)
	}

	tree, err := merkle.Build(leaves)
	if err != nil {
		return nil, err
	}
	return &committedMatrix{cols: cols, encRows: encRows, tree: tree}, nil
}

func (m *committedMatrix) openRows(indices []int) (Opening, error) {
	proof, err := m.tree.ProveBatch(indices)
	if err != nil {
		return Opening{}, err
	}
	rows := make([][]Elem, len(indices))
	for t, q := range indices {
		rows[t] = append([]Elem(nil), m.encRows[q]...)
	}
	return Opening{Rows: rows, Siblings: proof.Siblings}, nil
}

// Prove commits to the polynomial and produces a proof that the recursive
// fold chain is consistent with the commitments. It is deterministic: the
// same input and options yield byte-identical proofs.
func Prove(size int, poly []Elem32, opts ...Option) (*Proof, error) {
	o := newOptions(opts...)
	cfg, err := NewProverConfig(size)
	if err != nil {
		return nil, err
	}
	if len(poly) != PolynomialSize(size) {
		return nil, fmt.Errorf("%w: polynomial has %d coefficients, want %d",
			ErrInvalidInput, len(poly), PolynomialSize(size))
	}

	log := logger.Logger().With().Str("component", "prover").Int("size", size).Logger()
	start := time.Now()

	tr, err := newTranscript(o.transcriptTag, size)
	if err != nil {
		return nil, err
	}

	f := liftPolynomial(poly)

	cm0, err := commitMatrix(cfg.initialCode, f, cfg.InitialDims[0], cfg.InitialDims[1])
	if err != nil {
		return nil, err
	}
	proof := &Proof{
		ConfigSize:    uint8(size),
		TranscriptTag: o.transcriptTag,
		InitialRoot:   cm0.tree.Root(),
	}
	tr.bindRoot(proof.InitialRoot)
	log.Debug().Dur("took", time.Since(start)).Msg("initial commitment")

	r0 := tr.challengeElems("fold", cfg.InitialK)
	for _, r := range r0 {
		f = foldHigh(f, r)
	}

	cm, err := commitMatrix(cfg.codes[0], f, cfg.Dims[0][0], cfg.Dims[0][1])
	if err != nil {
		return nil, err
	}
	proof.RecursiveRoots = append(proof.RecursiveRoots, cm.tree.Root())
	tr.bindRoot(cm.tree.Root())

	queries := tr.challengeIndices("query", cfg.InitialDims[0]*InvRate, NumQueries)
	alpha := tr.challengeElem("batch")
	proof.InitialOpening, err = cm0.openRows(queries)
	if err != nil {
		return nil, err
	}

	sum, bAcc, err := accumulateOpening(cfg.initialCode, proof.InitialOpening.Rows, queries, alpha, lagrangeBasis(r0), true)
	if err != nil {
		return nil, err
	}
	tr.bindElems("sum", sum)

	for i := 0; i < cfg.Steps; i++ {
		rs := make([]Elem, cfg.Ks[i])
		for rnd := 0; rnd < cfg.Ks[i]; rnd++ {
			c := sumcheckRound(f, bAcc)
			tr.bindElems("sumcheck", c[0], c[1], c[2])
			r := tr.challengeElem("round")
			f = foldHigh(f, r)
			bAcc = foldHigh(bAcc, r)
			sum = evalQuad(c, r)
			rs[rnd] = r
			proof.SumcheckRounds = append(proof.SumcheckRounds, c)
		}

		if i == cfg.Steps-1 {
			proof.FinalYr = append([]Elem(nil), f...)
			tr.bindElems("final", f...)
			finalQueries := tr.challengeIndices("query", cfg.Dims[i][0]*InvRate, NumQueries)
			proof.FinalOpening, err = cm.openRows(finalQueries)
			if err != nil {
				return nil, err
			}
			break
		}

		cmNext, err := commitMatrix(cfg.codes[i+1], f, cfg.Dims[i+1][0], cfg.Dims[i+1][1])
		if err != nil {
			return nil, err
		}
		proof.RecursiveRoots = append(proof.RecursiveRoots, cmNext.tree.Root())
		tr.bindRoot(cmNext.tree.Root())

		stepQueries := tr.challengeIndices("query", cfg.Dims[i][0]*InvRate, NumQueries)
		stepAlpha := tr.challengeElem("batch")
		opening, err := cm.openRows(stepQueries)
		if err != nil {
			return nil, err
		}
		proof.RecursiveOpenings = append(proof.RecursiveOpenings, opening)

		sigma, bNew, err := accumulateOpening(cfg.codes[i], opening.Rows, stepQueries, stepAlpha, lagrangeBasis(rs), true)
		if err != nil {
			return nil, err
		}
		tr.bindElems("glue", sum.Add(sigma))
		beta := tr.challengeElem("beta")
		addScaled(bAcc, beta, bNew)
		sum = sum.Add(beta.Mul(sigma))
		cm = cmNext
		log.Debug().Int("step", i).Dur("took", time.Since(start)).Msg("recursion step")
	}

	log.Debug().Dur("took", time.Since(start)).Msg("proof generated")
	return proof, nil
}
