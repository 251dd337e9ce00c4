// Package merkle implements an authenticated hash tree over an ordered
// sequence of byte-string leaves, with single-leaf traces and deduplicated
// batch proofs for multi-leaf openings.
//
// The leaf count must be a power of two; no padding convention exists and
// other counts are rejected outright.
package merkle

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Hash is a tree node digest.
type Hash = [32]byte

// ErrLeafCount is returned when the leaf count is zero or not a power of two.
var ErrLeafCount = errors.New("leaf count must be a nonzero power of two")

// parallelLeafThreshold is the leaf count above which leaf hashing is
// spread across workers.
const parallelLeafThreshold = 2048

// Tree is a complete binary hash tree. Layers are stored bottom-up;
// layers[0] holds the leaf hashes and the last layer holds the root.
type Tree struct {
	layers [][]Hash
}

func hashLeaf(b []byte) Hash {
	return sha256.Sum256(b)
}

func hashSiblings(left, right Hash) Hash {
	h := sha256.New()
	h.Write(left[:])
	h.Write(right[:])
	var out Hash
	h.Sum(out[:0])
	return out
}

// Build constructs the tree from the given leaves.
func Build(leaves [][]byte) (*Tree, error) {
	n := len(leaves)
	if n == 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrLeafCount, n)
	}

	layer := make([]Hash, n)
	if n >= parallelLeafThreshold {
		g := new(errgroup.Group)
		g.SetLimit(runtime.NumCPU())
		chunk := (n + runtime.NumCPU() - 1) / runtime.NumCPU()
		for start := 0; start < n; start += chunk {
			start := start
			end := min(start+chunk, n)
			g.Go(func() error {
				for i := start; i < end; i++ {
					layer[i] = hashLeaf(leaves[i])
				}
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, leaf := range leaves {
			layer[i] = hashLeaf(leaf)
		}
	}

	layers := [][]Hash{layer}
	for len(layer) > 1 {
		next := make([]Hash, len(layer)/2)
		for i := range next {
			next[i] = hashSiblings(layer[2*i], layer[2*i+1])
		}
		layers = append(layers, next)
		layer = next
	}

	return &Tree{layers: layers}, nil
}

// Root returns the tree root.
func (t *Tree) Root() Hash {
	top := t.layers[len(t.layers)-1]
	return top[0]
}

// Depth returns the number of layers above the leaves.
func (t *Tree) Depth() int {
	return len(t.layers) - 1
}

// NumLeaves returns the leaf count.
func (t *Tree) NumLeaves() int {
	return len(t.layers[0])
}

// Trace returns the sibling path for a single leaf, ordered root to leaf.
// Constrained verifiers use it to check one inclusion with minimal state.
func (t *Tree) Trace(index int) ([]Hash, error) {
	if index < 0 || index >= t.NumLeaves() {
		return nil, fmt.Errorf("leaf index %d out of range [0,%d)", index, t.NumLeaves())
	}
	path := make([]Hash, t.Depth())
	for d := 0; d < t.Depth(); d++ {
		path[t.Depth()-1-d] = t.layers[d][index^1]
		index >>= 1
	}
	return path, nil
}

// VerifyTrace checks a single-leaf trace against a root. It never panics;
// malformed input yields false.
func VerifyTrace(root Hash, leaf []byte, index, depth int, path []Hash) bool {
	if depth < 0 || depth > 62 || len(path) != depth {
		return false
	}
	if index < 0 || index >= 1<<depth {
		return false
	}
	h := hashLeaf(leaf)
	for d := depth - 1; d >= 0; d-- {
		sib := path[d]
		if index&1 == 0 {
			h = hashSiblings(h, sib)
		} else {
			h = hashSiblings(sib, h)
		}
		index >>= 1
	}
	return h == root
}
