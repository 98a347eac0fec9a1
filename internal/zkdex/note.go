// note.go - Poseidon note commitments, addresses and nullifiers (native side).
//
// A note binds an owner key to asset identity fields under a fresh salt. The
// commitment reveals nothing about its preimage; spending a note reveals only
// its nullifier, which cannot be linked back to the commitment without sk.

package zkdex

import "math/big"

var (
	addressModulus = new(big.Int).Lsh(big.NewInt(1), AddressBits)
	splitModulus   = new(big.Int).Lsh(big.NewInt(1), SplitBits)
)

// NFTNote commits to ownership of one NFT within a collection.
// The same shape carries game items (collection = game) and loot boxes.
type NFTNote struct {
	Owner        PublicKey
	NFTID        *big.Int
	CollectionID *big.Int
	Salt         *big.Int
}

// NewNFTNote builds a note for owner with a fresh random salt.
func NewNFTNote(owner PublicKey, nftID, collectionID *big.Int) *NFTNote {
	return &NFTNote{
		Owner:        owner,
		NFTID:        nftID,
		CollectionID: collectionID,
		Salt:         RandomField(),
	}
}

// Hash returns the 5-input commitment H(pkX, pkY, nftId, collectionId, salt).
func (n *NFTNote) Hash() *big.Int {
	return mustHash(n.Owner.X, n.Owner.Y, n.NFTID, n.CollectionID, n.Salt)
}

// AssetNote commits to a fungible in-game asset amount.
type AssetNote struct {
	Owner     PublicKey
	GameID    *big.Int
	AssetID   *big.Int
	AssetType *big.Int
	Amount    *big.Int
	Salt      *big.Int
}

// Hash returns the 7-input commitment over all asset fields.
func (n *AssetNote) Hash() *big.Int {
	return mustHash(n.Owner.X, n.Owner.Y, n.GameID, n.AssetID, n.AssetType, n.Amount, n.Salt)
}

// TimelockNote is an AssetNote that additionally binds an unlock time.
type TimelockNote struct {
	Owner      PublicKey
	GameID     *big.Int
	AssetID    *big.Int
	AssetType  *big.Int
	Amount     *big.Int
	UnlockTime *big.Int
	Salt       *big.Int
}

// Hash returns the 8-input commitment with the unlock time before the salt.
func (n *TimelockNote) Hash() *big.Int {
	return mustHash(n.Owner.X, n.Owner.Y, n.GameID, n.AssetID, n.AssetType, n.Amount, n.UnlockTime, n.Salt)
}

// PaymentNote commits a payment owed to a seller in a trade.
type PaymentNote struct {
	Owner PublicKey
	Price *big.Int
	Token *big.Int
	Salt  *big.Int
}

// Hash returns the 5-input commitment H(pkX, pkY, price, token, salt).
func (n *PaymentNote) Hash() *big.Int {
	return mustHash(n.Owner.X, n.Owner.Y, n.Price, n.Token, n.Salt)
}

// ComputeAddress derives the truncated public address H(pkX, pkY) mod 2^160.
func ComputeAddress(pk PublicKey) *big.Int {
	h := mustHash(pk.X, pk.Y)
	return new(big.Int).Mod(h, addressModulus)
}

// ComputeSplit128 splits v into (hi, lo) with v = hi*2^128 + lo.
func ComputeSplit128(v *big.Int) (hi, lo *big.Int) {
	lo = new(big.Int)
	hi, _ = new(big.Int).DivMod(v, splitModulus, lo)
	return hi, lo
}

// ComputeNullifier derives the spend tag H(itemId, salt, sk). It is
// deterministic per note; salt reuse across notes of the same owner collides
// on purpose so the ledger rejects the second spend.
func ComputeNullifier(itemID, salt, sk *big.Int) *big.Int {
	return mustHash(itemID, salt, sk)
}

// ComputeOutcomeNote commits a loot-box outcome binding the derived rarity.
func ComputeOutcomeNote(owner PublicKey, boxID, rarity, salt *big.Int) *big.Int {
	return mustHash(owner.X, owner.Y, boxID, rarity, salt)
}

// ComputeDrawNote commits a drawn card at a given deck position.
func ComputeDrawNote(owner PublicKey, drawIndex, card, salt *big.Int) *big.Int {
	return mustHash(owner.X, owner.Y, drawIndex, card, salt)
}

// ComputePlayerCommitment binds a player key to a game instance.
func ComputePlayerCommitment(owner PublicKey, gameID, salt *big.Int) *big.Int {
	return mustHash(owner.X, owner.Y, gameID, salt)
}
