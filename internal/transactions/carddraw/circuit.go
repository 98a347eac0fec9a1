package carddraw

import (
	"github.com/consensys/gnark/frontend"

	"github.com/tokamak-network/nftgame-zk-dex-sub001/internal/gadgets"
	"github.com/tokamak-network/nftgame-zk-dex-sub001/internal/zkdex"
)

// CircuitCardDraw proves a fair card draw: the prover is a registered player
// of the game, the committed deck is the Fisher-Yates shuffle of the ordered
// deck under the private seed, and the drawn card is the deck entry at the
// public draw index. The card itself stays hidden inside the draw note.
//
// Public input order: DeckCommitment, DrawCommitment, DrawIndex, GameID,
// PlayerCommitment.
type CircuitCardDraw struct {
	// ====== PUBLIC VARIABLES ======
	DeckCommitment   frontend.Variable `gnark:",public"`
	DrawCommitment   frontend.Variable `gnark:",public"`
	DrawIndex        frontend.Variable `gnark:",public"`
	GameID           frontend.Variable `gnark:",public"`
	PlayerCommitment frontend.Variable `gnark:",public"`

	// ====== PRIVATE VARIABLES ======
	Sk         frontend.Variable
	OwnerX     frontend.Variable
	OwnerY     frontend.Variable
	PlayerSalt frontend.Variable
	Seed       frontend.Variable
	Deck       [zkdex.DeckSize]frontend.Variable
	DeckSalt   frontend.Variable
	DrawSalt   frontend.Variable
}

// Define implements the card-draw relation.
func (c *CircuitCardDraw) Define(api frontend.API) error {
	// 1) The prover is the player behind the public registration.
	if err := zkdex.AssertOwnership(api, c.OwnerX, c.OwnerY, c.Sk); err != nil {
		return err
	}
	api.AssertIsEqual(c.PlayerCommitment,
		zkdex.PlayerCommitmentHash(api, c.OwnerX, c.OwnerY, c.GameID, c.PlayerSalt))

	// 2) The deck is the seeded shuffle of the ordered deck, and the public
	// commitment opens to it.
	if err := zkdex.AssertShuffle(api, c.Seed, c.Deck); err != nil {
		return err
	}
	api.AssertIsEqual(c.DeckCommitment,
		zkdex.DeckCommitmentHash(api, c.Deck[:], c.DeckSalt))

	// 3) The draw index addresses a real deck position.
	api.ToBinary(c.DrawIndex, 6)
	api.AssertIsEqual(gadgets.LessThan(api, c.DrawIndex, zkdex.DeckSize, 6), 1)

	// 4) The draw note carries the card at that position.
	card := gadgets.ReadAt(api, c.DrawIndex, c.Deck[:]...)
	api.ToBinary(card, 6)
	api.AssertIsEqual(gadgets.LessThan(api, card, zkdex.DeckSize, 6), 1)
	api.AssertIsEqual(c.DrawCommitment,
		zkdex.DrawNoteHash(api, c.OwnerX, c.OwnerY, c.DrawIndex, card, c.DrawSalt))

	return nil
}
