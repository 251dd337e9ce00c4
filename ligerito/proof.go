package ligerito

import (
	"bytes"
	"fmt"
	"io"

	zio "github.com/rotkonetworks/zeratul-sub005/io"
	"github.com/rotkonetworks/zeratul-sub005/merkle"
)

// Wire format constants. Hard caps bound every declared length so that
// adversarial proof bytes cannot trigger oversized allocations; they are
// loose upper bounds over every hardcoded config.
var proofMagic = [4]byte{'z', 'l', 'g', 'r'}

const (
	proofVersion = 1

	maxRecRoots       = 8
	maxOpeningRows    = 1 << 11
	maxRowWidth       = 1 << 8
	maxSiblings       = 1 << 16
	maxSumcheckRounds = 64
	maxYrLen          = 1 << 12
)

// Opening is a batch of rows opened from one committed matrix, with the
// deduplicated hash-tree siblings authenticating them.
type Opening struct {
	Rows     [][]Elem
	Siblings []merkle.Hash
}

// Proof is the sole artifact crossing the prover/verifier boundary.
// Its size is polylogarithmic in the committed vector length.
type Proof struct {
	ConfigSize    uint8
	TranscriptTag uint8

	InitialRoot    merkle.Hash
	RecursiveRoots []merkle.Hash

	InitialOpening    Opening
	RecursiveOpenings []Opening

	SumcheckRounds [][3]Elem
	FinalYr        []Elem
	FinalOpening   Opening
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}

func writeElems(w io.Writer, es []Elem) error {
	buf := make([]byte, 0, len(es)*16)
	for _, e := range es {
		buf = e.AppendBytes(buf)
	}
	_, err := w.Write(buf)
	return err
}

func readElems(r io.Reader, n int) ([]Elem, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n*16)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	es := make([]Elem, n)
	for i := range es {
		es[i] = Elem{}.FromBytes(buf[i*16:])
	}
	return es, nil
}

func writeOpening(w io.Writer, o *Opening) error {
	if _, err := zio.WriteUint32(w, uint32(len(o.Rows))); err != nil {
		return err
	}
	width := 0
	if len(o.Rows) > 0 {
		width = len(o.Rows[0])
	}
	if _, err := zio.WriteUint32(w, uint32(width)); err != nil {
		return err
	}
	for _, row := range o.Rows {
		if len(row) != width {
			return fmt.Errorf("ragged opening rows")
		}
		if err := writeElems(w, row); err != nil {
			return err
		}
	}
	if _, err := zio.WriteUint32(w, uint32(len(o.Siblings))); err != nil {
		return err
	}
	for _, sib := range o.Siblings {
		if _, err := w.Write(sib[:]); err != nil {
			return err
		}
	}
	return nil
}

func readOpening(r io.Reader, o *Opening) error {
	numRows, _, err := zio.ReadUint32(r)
	if err != nil {
		return err
	}
	width, _, err := zio.ReadUint32(r)
	if err != nil {
		return err
	}
	if numRows > maxOpeningRows || width > maxRowWidth {
		return fmt.Errorf("opening dimensions %dx%d exceed limits", numRows, width)
	}
	if numRows > 0 {
		o.Rows = make([][]Elem, numRows)
		for i := range o.Rows {
			if o.Rows[i], err = readElems(r, int(width)); err != nil {
				return err
			}
		}
	}
	numSib, _, err := zio.ReadUint32(r)
	if err != nil {
		return err
	}
	if numSib > maxSiblings {
		return fmt.Errorf("sibling count %d exceeds limit", numSib)
	}
	if numSib > 0 {
		o.Siblings = make([]merkle.Hash, numSib)
		for i := range o.Siblings {
			if _, err := io.ReadFull(r, o.Siblings[i][:]); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteTo serializes the proof. It implements io.WriterTo.
func (p *Proof) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}

	header := make([]byte, 0, 8+32)
	header = append(header, proofMagic[:]...)
	header = append(header, proofVersion, p.ConfigSize, p.TranscriptTag)
	header = append(header, p.InitialRoot[:]...)
	if _, err := cw.Write(header); err != nil {
		return cw.n, err
	}

	if _, err := zio.WriteUint8(cw, uint8(len(p.RecursiveRoots))); err != nil {
		return cw.n, err
	}
	for _, root := range p.RecursiveRoots {
		if _, err := cw.Write(root[:]); err != nil {
			return cw.n, err
		}
	}

	if err := writeOpening(cw, &p.InitialOpening); err != nil {
		return cw.n, err
	}

	if _, err := zio.WriteUint8(cw, uint8(len(p.RecursiveOpenings))); err != nil {
		return cw.n, err
	}
	for i := range p.RecursiveOpenings {
		if err := writeOpening(cw, &p.RecursiveOpenings[i]); err != nil {
			return cw.n, err
		}
	}

	if _, err := zio.WriteUint32(cw, uint32(len(p.SumcheckRounds))); err != nil {
		return cw.n, err
	}
	for _, round := range p.SumcheckRounds {
		if err := writeElems(cw, round[:]); err != nil {
			return cw.n, err
		}
	}

	if _, err := zio.WriteUint32(cw, uint32(len(p.FinalYr))); err != nil {
		return cw.n, err
	}
	if err := writeElems(cw, p.FinalYr); err != nil {
		return cw.n, err
	}

	if err := writeOpening(cw, &p.FinalOpening); err != nil {
		return cw.n, err
	}

	return cw.n, nil
}

// ReadFrom deserializes a proof, enforcing the wire-format caps. It
// implements io.ReaderFrom. Errors wrap ErrMalformedProof.
func (p *Proof) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingReader{r: r}
	n, err := p.readFrom(cr)
	if err != nil {
		return n, fmt.Errorf("%w: %v", ErrMalformedProof, err)
	}
	return n, nil
}

func (p *Proof) readFrom(cr *countingReader) (int64, error) {
	header := make([]byte, 7+32)
	if _, err := io.ReadFull(cr, header); err != nil {
		return cr.n, err
	}
	if !bytes.Equal(header[:4], proofMagic[:]) {
		return cr.n, fmt.Errorf("bad magic")
	}
	if header[4] != proofVersion {
		return cr.n, fmt.Errorf("unsupported version %d", header[4])
	}
	p.ConfigSize = header[5]
	p.TranscriptTag = header[6]
	copy(p.InitialRoot[:], header[7:])

	numRoots, _, err := zio.ReadUint8(cr)
	if err != nil {
		return cr.n, err
	}
	if numRoots > maxRecRoots {
		return cr.n, fmt.Errorf("root count %d exceeds limit", numRoots)
	}
	if numRoots > 0 {
		p.RecursiveRoots = make([]merkle.Hash, numRoots)
		for i := range p.RecursiveRoots {
			if _, err := io.ReadFull(cr, p.RecursiveRoots[i][:]); err != nil {
				return cr.n, err
			}
		}
	}

	if err := readOpening(cr, &p.InitialOpening); err != nil {
		return cr.n, err
	}

	numOpenings, _, err := zio.ReadUint8(cr)
	if err != nil {
		return cr.n, err
	}
	if numOpenings > maxRecRoots {
		return cr.n, fmt.Errorf("opening count %d exceeds limit", numOpenings)
	}
	if numOpenings > 0 {
		p.RecursiveOpenings = make([]Opening, numOpenings)
		for i := range p.RecursiveOpenings {
			if err := readOpening(cr, &p.RecursiveOpenings[i]); err != nil {
				return cr.n, err
			}
		}
	}

	numRounds, _, err := zio.ReadUint32(cr)
	if err != nil {
		return cr.n, err
	}
	if numRounds > maxSumcheckRounds {
		return cr.n, fmt.Errorf("sumcheck round count %d exceeds limit", numRounds)
	}
	if numRounds > 0 {
		p.SumcheckRounds = make([][3]Elem, numRounds)
		for i := range p.SumcheckRounds {
			es, err := readElems(cr, 3)
			if err != nil {
				return cr.n, err
			}
			copy(p.SumcheckRounds[i][:], es)
		}
	}

	yrLen, _, err := zio.ReadUint32(cr)
	if err != nil {
		return cr.n, err
	}
	if yrLen > maxYrLen {
		return cr.n, fmt.Errorf("final evaluation length %d exceeds limit", yrLen)
	}
	if p.FinalYr, err = readElems(cr, int(yrLen)); err != nil {
		return cr.n, err
	}

	if err := readOpening(cr, &p.FinalOpening); err != nil {
		return cr.n, err
	}

	return cr.n, nil
}

// Bytes serializes the proof to a fresh buffer.
func (p *Proof) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := p.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseProof deserializes a proof from a byte slice, rejecting trailing
// bytes.
func ParseProof(data []byte) (*Proof, error) {
	r := bytes.NewReader(data)
	var p Proof
	if _, err := p.ReadFrom(r); err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedProof, r.Len())
	}
	return &p, nil
}

// ParsePolynomial decodes the raw little-endian coefficient array handed
// over by external callers.
func ParsePolynomial(data []byte, size int) ([]Elem32, error) {
	want := PolynomialSize(size) * 4
	if len(data) != want {
		return nil, fmt.Errorf("%w: polynomial blob is %d bytes, want %d", ErrInvalidInput, len(data), want)
	}
	poly := make([]Elem32, PolynomialSize(size))
	for i := range poly {
		poly[i] = Elem32(0).FromBytes(data[i*4:])
	}
	return poly, nil
}
