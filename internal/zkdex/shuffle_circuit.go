// shuffle_circuit.go - in-circuit replay of the Fisher-Yates shuffle.
//
// The swap source i of each step is a compile-time index, but the swap target
// j is only known at proof time, so reading and writing position j go through
// an equality-selector sum over the candidate prefix [0, i]. Each step costs
// O(DeckSize) constraints, the whole shuffle O(DeckSize^2); this dominates
// the card-draw circuit and is why the deck size is a fixed small constant.

package zkdex

import (
	"github.com/consensys/gnark/frontend"

	"github.com/tokamak-network/nftgame-zk-dex-sub001/internal/gadgets"
)

// AssertShuffle constrains deck to be exactly the permutation that
// ShuffleDeck derives from seed, by replaying every swap.
func AssertShuffle(api frontend.API, seed frontend.Variable, deck [DeckSize]frontend.Variable) error {
	state := make([]frontend.Variable, DeckSize)
	for k := range state {
		state[k] = k
	}

	for step := 0; step < DeckSize-1; step++ {
		i := DeckSize - 1 - step

		r := Poseidon(api, seed, step)
		rBits := api.ToBinary(r)
		low := api.FromBinary(rBits[:RandBits]...)
		_, j, err := gadgets.CheckedDivMod(api, low, i+1, RandBits, RandBits)
		if err != nil {
			return err
		}

		// j <= i by the divmod range check, so indicators over [0, i] suffice.
		eq := gadgets.Indicators(api, j, i+1)
		var atJ frontend.Variable = 0
		for k := 0; k <= i; k++ {
			atJ = api.Add(atJ, api.Mul(eq[k], state[k]))
		}
		atI := state[i]
		for k := 0; k < i; k++ {
			state[k] = api.Add(state[k], api.Mul(eq[k], api.Sub(atI, state[k])))
		}
		state[i] = atJ
	}

	for k := 0; k < DeckSize; k++ {
		api.AssertIsEqual(state[k], deck[k])
	}
	return nil
}

// DeckCommitmentHash is the in-circuit deck commitment chain.
func DeckCommitmentHash(api frontend.API, cards []frontend.Variable, salt frontend.Variable) frontend.Variable {
	if len(cards) < 2 {
		panic("deck commitment needs at least 2 cards")
	}
	h := Poseidon(api, cards[0], cards[1])
	for k := 2; k < len(cards); k++ {
		h = Poseidon(api, h, cards[k])
	}
	return Poseidon(api, h, salt)
}
