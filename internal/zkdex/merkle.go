// merkle.go - native Poseidon Merkle tree used to build inclusion witnesses.

package zkdex

import (
	"fmt"
	"math/big"
)

// Tree is a fixed-depth binary Poseidon tree over a dense leaf prefix.
// Absent subtrees are represented by precomputed all-zero hashes, so a
// depth-20 tree over a handful of leaves stays cheap to build.
type Tree struct {
	depth  int
	levels [][]*big.Int
	zeros  []*big.Int
}

// NewTree hashes the given leaves into a tree of the given depth.
func NewTree(depth int, leaves []*big.Int) (*Tree, error) {
	if depth <= 0 || depth > 32 {
		return nil, fmt.Errorf("unsupported tree depth %d", depth)
	}
	if uint64(len(leaves)) > uint64(1)<<uint(depth) {
		return nil, fmt.Errorf("%d leaves exceed depth-%d capacity", len(leaves), depth)
	}

	zeros := make([]*big.Int, depth+1)
	zeros[0] = big.NewInt(0)
	for i := 1; i <= depth; i++ {
		zeros[i] = mustHash(zeros[i-1], zeros[i-1])
	}

	levels := make([][]*big.Int, depth+1)
	levels[0] = make([]*big.Int, len(leaves))
	copy(levels[0], leaves)
	for lvl := 0; lvl < depth; lvl++ {
		cur := levels[lvl]
		next := make([]*big.Int, (len(cur)+1)/2)
		for k := range next {
			left := cur[2*k]
			right := zeros[lvl]
			if 2*k+1 < len(cur) {
				right = cur[2*k+1]
			}
			next[k] = mustHash(left, right)
		}
		levels[lvl+1] = next
	}

	return &Tree{depth: depth, levels: levels, zeros: zeros}, nil
}

// Root returns the tree root, which is the zero-subtree hash for an empty tree.
func (t *Tree) Root() *big.Int {
	if len(t.levels[t.depth]) == 0 {
		return t.zeros[t.depth]
	}
	return t.levels[t.depth][0]
}

// Proof returns the sibling path for the leaf at index. Bit l of index says
// whether the running node is the right child at level l.
func (t *Tree) Proof(index int) ([]*big.Int, error) {
	if index < 0 || index >= len(t.levels[0]) {
		return nil, fmt.Errorf("leaf index %d out of range", index)
	}
	siblings := make([]*big.Int, t.depth)
	pos := index
	for lvl := 0; lvl < t.depth; lvl++ {
		sib := pos ^ 1
		if sib < len(t.levels[lvl]) {
			siblings[lvl] = t.levels[lvl][sib]
		} else {
			siblings[lvl] = t.zeros[lvl]
		}
		pos >>= 1
	}
	return siblings, nil
}

// VerifyProof recomputes the root from a leaf and its sibling path.
func VerifyProof(leaf, root *big.Int, siblings []*big.Int, index int) bool {
	cur := new(big.Int).Set(leaf)
	pos := index
	for _, sib := range siblings {
		if pos&1 == 0 {
			cur = mustHash(cur, sib)
		} else {
			cur = mustHash(sib, cur)
		}
		pos >>= 1
	}
	return cur.Cmp(root) == 0
}
