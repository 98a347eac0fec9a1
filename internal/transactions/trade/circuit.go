package trade

import (
	"github.com/consensys/gnark/frontend"

	"github.com/tokamak-network/nftgame-zk-dex-sub001/internal/zkdex"
)

// CircuitTrade proves an item sale: the seller spends an item note, a
// matching note is created for the buyer, and a payment note owed to the
// seller is bound to the declared price. A zero price is a gift and the
// public payment hash must then be exactly zero.
//
// Public input order: OldItemHash, NewItemHash, PaymentNoteHash, GameID,
// Nullifier.
type CircuitTrade struct {
	// ====== PUBLIC VARIABLES ======
	OldItemHash     frontend.Variable `gnark:",public"`
	NewItemHash     frontend.Variable `gnark:",public"`
	PaymentNoteHash frontend.Variable `gnark:",public"` // 0 signals a gift
	GameID          frontend.Variable `gnark:",public"`
	Nullifier       frontend.Variable `gnark:",public"`

	// ====== PRIVATE VARIABLES ======
	Sk          frontend.Variable // seller secret key
	SellerX     frontend.Variable
	SellerY     frontend.Variable
	ItemID      frontend.Variable
	OldSalt     frontend.Variable
	BuyerX      frontend.Variable
	BuyerY      frontend.Variable
	NewSalt     frontend.Variable
	Price       frontend.Variable
	Token       frontend.Variable
	PaymentSalt frontend.Variable
}

// Define implements the trade relation.
func (c *CircuitTrade) Define(api frontend.API) error {
	// 1) Seller owns the item note being spent.
	if err := zkdex.AssertOwnership(api, c.SellerX, c.SellerY, c.Sk); err != nil {
		return err
	}
	api.AssertIsEqual(c.OldItemHash,
		zkdex.NFTNoteHash(api, c.SellerX, c.SellerY, c.ItemID, c.GameID, c.OldSalt))
	api.AssertIsEqual(c.Nullifier, zkdex.NullifierHash(api, c.ItemID, c.OldSalt, c.Sk))

	// 2) Same item, new owner.
	api.AssertIsEqual(c.NewItemHash,
		zkdex.NFTNoteHash(api, c.BuyerX, c.BuyerY, c.ItemID, c.GameID, c.NewSalt))

	// 3) Payment gate: one equality covers both the paid and gift branches.
	paymentHash := zkdex.PaymentNoteHash(api, c.SellerX, c.SellerY, c.Price, c.Token, c.PaymentSalt)
	gated := api.Mul(api.Sub(1, api.IsZero(c.Price)), paymentHash)
	api.AssertIsEqual(c.PaymentNoteHash, gated)

	return nil
}
