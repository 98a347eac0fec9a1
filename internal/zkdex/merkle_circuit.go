package zkdex

import (
	"github.com/consensys/gnark/frontend"
)

// MerkleRoot recomputes the root of a depth-MerkleDepth tree from a leaf and
// its sibling path. pathIndex is decomposed into MerkleDepth bits, which also
// bounds it below 2^MerkleDepth; bit l selects whether the running node is
// the left or right hash input at level l. This is the non-strict variant for
// composition into circuits that need the root as an output.
func MerkleRoot(api frontend.API, leaf frontend.Variable, siblings [MerkleDepth]frontend.Variable, pathIndex frontend.Variable) frontend.Variable {
	bits := api.ToBinary(pathIndex, MerkleDepth)
	cur := leaf
	for lvl := 0; lvl < MerkleDepth; lvl++ {
		left := api.Select(bits[lvl], siblings[lvl], cur)
		right := api.Select(bits[lvl], cur, siblings[lvl])
		cur = Poseidon(api, left, right)
	}
	return cur
}

// AssertMerkleProof is the strict variant: the recomputed root must equal the
// claimed one.
func AssertMerkleProof(api frontend.API, leaf, root frontend.Variable, siblings [MerkleDepth]frontend.Variable, pathIndex frontend.Variable) {
	api.AssertIsEqual(MerkleRoot(api, leaf, siblings, pathIndex), root)
}
