// note_circuit.go - in-circuit counterparts of the note commitments.
//
// Each gadget re-derives the full preimage; no circuit in this module ever
// accepts a commitment without re-hashing the exact ordered input tuple.

package zkdex

import (
	"github.com/consensys/gnark/frontend"

	"github.com/tokamak-network/nftgame-zk-dex-sub001/internal/gadgets"
)

// NFTNoteHash recomputes the 5-input NFT note commitment.
func NFTNoteHash(api frontend.API, pkX, pkY, nftID, collectionID, salt frontend.Variable) frontend.Variable {
	return Poseidon(api, pkX, pkY, nftID, collectionID, salt)
}

// AssetNoteHash recomputes the 7-input asset note commitment.
func AssetNoteHash(api frontend.API, pkX, pkY, gameID, assetID, assetType, amount, salt frontend.Variable) frontend.Variable {
	return Poseidon(api, pkX, pkY, gameID, assetID, assetType, amount, salt)
}

// TimelockNoteHash recomputes the 8-input time-locked note commitment.
func TimelockNoteHash(api frontend.API, pkX, pkY, gameID, assetID, assetType, amount, unlockTime, salt frontend.Variable) frontend.Variable {
	return Poseidon(api, pkX, pkY, gameID, assetID, assetType, amount, unlockTime, salt)
}

// PaymentNoteHash recomputes the 5-input payment note commitment.
func PaymentNoteHash(api frontend.API, pkX, pkY, price, token, salt frontend.Variable) frontend.Variable {
	return Poseidon(api, pkX, pkY, price, token, salt)
}

// OutcomeNoteHash recomputes the loot-box outcome commitment.
func OutcomeNoteHash(api frontend.API, pkX, pkY, boxID, rarity, salt frontend.Variable) frontend.Variable {
	return Poseidon(api, pkX, pkY, boxID, rarity, salt)
}

// DrawNoteHash recomputes the card-draw commitment.
func DrawNoteHash(api frontend.API, pkX, pkY, drawIndex, card, salt frontend.Variable) frontend.Variable {
	return Poseidon(api, pkX, pkY, drawIndex, card, salt)
}

// PlayerCommitmentHash recomputes the player-to-game binding.
func PlayerCommitmentHash(api frontend.API, pkX, pkY, gameID, salt frontend.Variable) frontend.Variable {
	return Poseidon(api, pkX, pkY, gameID, salt)
}

// NullifierHash recomputes the spend tag H(itemId, salt, sk).
func NullifierHash(api frontend.API, itemID, salt, sk frontend.Variable) frontend.Variable {
	return Poseidon(api, itemID, salt, sk)
}

// AddressFromPk derives the truncated address H(pkX, pkY) mod 2^160 from a
// witness quotient/remainder pair. The remainder is range-checked to 160 bits
// and the quotient to the remaining 94 bits, so neither side of the division
// can smuggle in an unbounded value.
func AddressFromPk(api frontend.API, pkX, pkY frontend.Variable) (frontend.Variable, error) {
	h := Poseidon(api, pkX, pkY)
	_, r, err := gadgets.CheckedDivMod(api, h, addressModulus, 254-AddressBits, AddressBits)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Split128 splits v into (hi, lo) with v = hi*2^128 + lo, range-checking both
// halves.
func Split128(api frontend.API, v frontend.Variable) (hi, lo frontend.Variable, err error) {
	hi, lo, err = gadgets.CheckedDivMod(api, v, splitModulus, 254-SplitBits, SplitBits)
	if err != nil {
		return nil, nil, err
	}
	return hi, lo, nil
}
