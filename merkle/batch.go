package merkle

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// BatchProof opens several leaves at once. Siblings shared between the
// authentication paths of adjacent queries are emitted exactly once, in the
// bottom-up iteration order both sides reproduce.
type BatchProof struct {
	Siblings []Hash
}

func validIndices(indices []int, numLeaves int) bool {
	if len(indices) == 0 {
		return false
	}
	prev := -1
	for _, q := range indices {
		if q <= prev || q >= numLeaves {
			return false
		}
		prev = q
	}
	return true
}

// ProveBatch builds a deduplicated proof for the given leaf indices.
// Indices must be sorted, distinct and in range.
func (t *Tree) ProveBatch(indices []int) (*BatchProof, error) {
	if !validIndices(indices, t.NumLeaves()) {
		return nil, fmt.Errorf("batch indices must be sorted, distinct and in [0,%d)", t.NumLeaves())
	}

	qs := make([]int, len(indices))
	copy(qs, indices)
	cnt := len(qs)

	var siblings []Hash
	for d := 0; d < t.Depth(); d++ {
		layer := t.layers[d]
		present := bitset.New(uint(len(layer)))
		for _, q := range qs[:cnt] {
			present.Set(uint(q))
		}

		next := 0
		for i := 0; i < cnt; i++ {
			q := qs[i]
			if q&1 == 0 && present.Test(uint(q^1)) {
				// The sibling is itself queried; its hash is known to
				// the verifier, so no proof entry is needed.
				i++
			} else {
				siblings = append(siblings, layer[q^1])
			}
			qs[next] = q >> 1
			next++
		}
		cnt = next
	}

	return &BatchProof{Siblings: siblings}, nil
}

// VerifyBatch checks a batch proof against a root. It is total: any
// malformed combination of arguments returns false rather than panicking.
func VerifyBatch(root Hash, depth int, leaves [][]byte, indices []int, proof *BatchProof) bool {
	if proof == nil || depth < 0 || depth > 62 {
		return false
	}
	if len(leaves) != len(indices) || !validIndices(indices, 1<<depth) {
		return false
	}
	if depth == 0 {
		return len(indices) == 1 && indices[0] == 0 &&
			len(proof.Siblings) == 0 && hashLeaf(leaves[0]) == root
	}

	cur := make([]Hash, len(leaves))
	for i, leaf := range leaves {
		cur[i] = hashLeaf(leaf)
	}
	qs := make([]int, len(indices))
	copy(qs, indices)

	cnt := len(qs)
	consumed := 0
	for d := 0; d < depth; d++ {
		present := bitset.New(uint(1) << uint(depth-d))
		for _, q := range qs[:cnt] {
			present.Set(uint(q))
		}

		next := 0
		for i := 0; i < cnt; {
			q := qs[i]
			var left, right Hash
			if q&1 == 0 && present.Test(uint(q^1)) {
				left, right = cur[i], cur[i+1]
				i += 2
			} else {
				if consumed >= len(proof.Siblings) {
					return false
				}
				sib := proof.Siblings[consumed]
				consumed++
				if q&1 == 0 {
					left, right = cur[i], sib
				} else {
					left, right = sib, cur[i]
				}
				i++
			}
			cur[next] = hashSiblings(left, right)
			qs[next] = q >> 1
			next++
		}
		cnt = next
	}

	return cnt == 1 && consumed == len(proof.Siblings) && cur[0] == root
}
