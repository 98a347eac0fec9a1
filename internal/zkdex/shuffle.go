// shuffle.go - native Fisher-Yates shuffle driven by a Poseidon stream.

package zkdex

import (
	"fmt"
	"math/big"
)

var randMask = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), RandBits), big.NewInt(1))

// ShuffleDeck returns the permutation of [0, DeckSize) fixed by seed: for
// step s the swap source is i = DeckSize-1-s and the target is the low
// RandBits bits of H(seed, s) reduced mod i+1. Deterministic in seed alone.
func ShuffleDeck(seed *big.Int) [DeckSize]*big.Int {
	var deck [DeckSize]*big.Int
	for k := range deck {
		deck[k] = big.NewInt(int64(k))
	}
	for step := 0; step < DeckSize-1; step++ {
		i := DeckSize - 1 - step
		r := mustHash(seed, big.NewInt(int64(step)))
		low := new(big.Int).And(r, randMask)
		j := int(new(big.Int).Mod(low, big.NewInt(int64(i+1))).Int64())
		deck[i], deck[j] = deck[j], deck[i]
	}
	return deck
}

// ComputeDeckCommitment binds a full deck to one field element via the
// left-fold chain h = H(c0, c1), h = H(h, c2), ..., out = H(h, salt).
func ComputeDeckCommitment(cards []*big.Int, salt *big.Int) (*big.Int, error) {
	if len(cards) < 2 {
		return nil, fmt.Errorf("deck commitment needs at least 2 cards, got %d", len(cards))
	}
	h := mustHash(cards[0], cards[1])
	for k := 2; k < len(cards); k++ {
		h = mustHash(h, cards[k])
	}
	return mustHash(h, salt), nil
}
