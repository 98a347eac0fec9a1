package lootbox

import (
	"github.com/consensys/gnark/frontend"

	"github.com/tokamak-network/nftgame-zk-dex-sub001/internal/zkdex"
)

// CircuitLootBox proves a loot-box opening: the prover owns the box note,
// publishes its nullifier, evaluates the VRF seeded by that nullifier, and
// commits to an outcome note carrying exactly the rarity tier the VRF
// selected under the declared threshold policy.
//
// The thresholds are private witness data, so the rarity policy is
// proof-specific; their validity (strictly increasing, ending at the scale)
// is asserted in-circuit.
//
// Public input order: BoxCommitment, OutcomeCommitment, VRFOutput, BoxID,
// Nullifier.
type CircuitLootBox struct {
	// ====== PUBLIC VARIABLES ======
	BoxCommitment     frontend.Variable `gnark:",public"`
	OutcomeCommitment frontend.Variable `gnark:",public"`
	VRFOutput         frontend.Variable `gnark:",public"`
	BoxID             frontend.Variable `gnark:",public"`
	Nullifier         frontend.Variable `gnark:",public"`

	// ====== PRIVATE VARIABLES ======
	Sk           frontend.Variable
	OwnerX       frontend.Variable
	OwnerY       frontend.Variable
	CollectionID frontend.Variable
	BoxSalt      frontend.Variable
	OutcomeSalt  frontend.Variable
	Rarity       frontend.Variable
	Thresholds   [zkdex.RarityTiers]frontend.Variable
}

// Define implements the loot-box relation.
func (c *CircuitLootBox) Define(api frontend.API) error {
	// 1) The prover owns the box.
	if err := zkdex.AssertOwnership(api, c.OwnerX, c.OwnerY, c.Sk); err != nil {
		return err
	}
	api.AssertIsEqual(c.BoxCommitment,
		zkdex.NFTNoteHash(api, c.OwnerX, c.OwnerY, c.BoxID, c.CollectionID, c.BoxSalt))

	// 2) Spend tag, also the VRF seed: one opening per box, and the seed
	// cannot be replayed across openings.
	api.AssertIsEqual(c.Nullifier, zkdex.NullifierHash(api, c.BoxID, c.BoxSalt, c.Sk))
	api.AssertIsEqual(c.VRFOutput, zkdex.VRFHash(api, c.Sk, c.Nullifier))

	// 3) The claimed rarity is the tier the VRF landed in.
	zkdex.AssertRarity(api, c.VRFOutput, c.Thresholds, c.Rarity)

	// 4) The outcome note binds that rarity to the opener.
	api.AssertIsEqual(c.OutcomeCommitment,
		zkdex.OutcomeNoteHash(api, c.OwnerX, c.OwnerY, c.BoxID, c.Rarity, c.OutcomeSalt))

	return nil
}
