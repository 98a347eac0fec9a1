// Package zkdex implements the cryptographic core of the NFT game exchange:
// Baby Jubjub key material, Poseidon note commitments and nullifiers, Merkle
// inclusion proofs, the verified Fisher-Yates deck shuffle and the Poseidon
// VRF with rarity-tier mapping.
//
// Every primitive comes in two forms that must agree bit for bit: a native Go
// function used by provers to build witnesses (and by tests as the oracle),
// and a circuit gadget taking a frontend.API used inside the transaction
// circuits. The native side uses the iden3 Poseidon and the gnark-crypto
// Baby Jubjub implementation; the circuit side uses their gnark counterparts
// on the BN254 scalar field.
//
// Nothing in this package tracks spent state. Nullifier and draw-index
// uniqueness is enforced by the external ledger, never in-circuit.
package zkdex

// Fixed protocol parameters. These are baked into compiled circuits; changing
// any of them invalidates previously generated proving and verifying keys.
const (
	// MerkleDepth is the depth of asset trees (about 1M leaves).
	MerkleDepth = 20

	// DeckSize is the number of cards in a shuffled deck.
	DeckSize = 52

	// RarityTiers is the number of loot-box rarity tiers.
	RarityTiers = 4

	// RarityScale is the cumulative threshold ceiling: the last tier
	// threshold must equal it exactly.
	RarityScale = 10000

	// RandBits is how many low bits of a Poseidon output feed the shuffle
	// and rarity reductions.
	RandBits = 14

	// AddressBits is the width of truncated addresses derived from keys.
	AddressBits = 160

	// SplitBits is the half-width of the hi/lo digest split.
	SplitBits = 128
)
