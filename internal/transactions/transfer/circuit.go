package transfer

import (
	"github.com/consensys/gnark/frontend"

	"github.com/tokamak-network/nftgame-zk-dex-sub001/internal/zkdex"
)

// CircuitTransfer proves a private change of ownership for one NFT note.
// It shows that the prover owns the spent note, that the published nullifier
// belongs to it, and that the new note carries the same asset identity to the
// new owner under a fresh salt.
//
// Public input order: OldHash, NewHash, NFTID, CollectionID, Nullifier.
type CircuitTransfer struct {
	// ====== PUBLIC VARIABLES ======
	OldHash      frontend.Variable `gnark:",public"` // commitment of the spent note
	NewHash      frontend.Variable `gnark:",public"` // commitment of the created note
	NFTID        frontend.Variable `gnark:",public"`
	CollectionID frontend.Variable `gnark:",public"`
	Nullifier    frontend.Variable `gnark:",public"`

	// ====== PRIVATE VARIABLES ======
	Sk        frontend.Variable // spender secret key
	OwnerX    frontend.Variable // spender public key
	OwnerY    frontend.Variable
	OldSalt   frontend.Variable
	NewOwnerX frontend.Variable // recipient public key
	NewOwnerY frontend.Variable
	NewSalt   frontend.Variable
}

// Define implements the transfer relation.
func (c *CircuitTransfer) Define(api frontend.API) error {
	// 1) The prover controls the old note's owner key.
	if err := zkdex.AssertOwnership(api, c.OwnerX, c.OwnerY, c.Sk); err != nil {
		return err
	}

	// 2) The spent commitment opens to the declared identity fields.
	api.AssertIsEqual(c.OldHash,
		zkdex.NFTNoteHash(api, c.OwnerX, c.OwnerY, c.NFTID, c.CollectionID, c.OldSalt))

	// 3) The published nullifier is the spend tag of exactly that note.
	api.AssertIsEqual(c.Nullifier, zkdex.NullifierHash(api, c.NFTID, c.OldSalt, c.Sk))

	// 4) The new note preserves asset identity under the recipient key.
	api.AssertIsEqual(c.NewHash,
		zkdex.NFTNoteHash(api, c.NewOwnerX, c.NewOwnerY, c.NFTID, c.CollectionID, c.NewSalt))

	return nil
}
