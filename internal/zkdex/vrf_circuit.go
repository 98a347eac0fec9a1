package zkdex

import (
	"github.com/consensys/gnark/frontend"

	"github.com/tokamak-network/nftgame-zk-dex-sub001/internal/gadgets"
)

// VRFHash recomputes the keyed pseudorandom output H(sk, seed) in-circuit.
func VRFHash(api frontend.API, sk, seed frontend.Variable) frontend.Variable {
	return Poseidon(api, sk, seed)
}

// AssertRarity constrains rarity to be the tier selected by vrfOut under the
// given cumulative thresholds. The low RandBits bits of vrfOut give a value
// in [0, 16383], folded into [0, RarityScale) by one conditional subtraction
// (sound because 16383 < 2*RarityScale). Tier membership is the difference of
// adjacent cumulative less-than flags; the claimed rarity must hit the single
// tier whose membership flag is 1.
//
// Thresholds are witness data, so their validity is asserted here too:
// RandBits-wide, strictly increasing, ending exactly at RarityScale.
func AssertRarity(api frontend.API, vrfOut frontend.Variable, thresholds [RarityTiers]frontend.Variable, rarity frontend.Variable) {
	bits := api.ToBinary(vrfOut)
	randomVal := api.FromBinary(bits[:RandBits]...)
	over := gadgets.GreaterEqThan(api, randomVal, RarityScale, RandBits)
	vrfMod := api.Sub(randomVal, api.Mul(over, RarityScale))

	for i := 0; i < RarityTiers; i++ {
		api.ToBinary(thresholds[i], RandBits)
	}
	for i := 1; i < RarityTiers; i++ {
		api.AssertIsEqual(gadgets.LessThan(api, thresholds[i-1], thresholds[i], RandBits), 1)
	}
	api.AssertIsEqual(thresholds[RarityTiers-1], RarityScale)

	var prev frontend.Variable = 0
	var matched frontend.Variable = 0
	for i := 0; i < RarityTiers; i++ {
		cum := gadgets.LessThan(api, vrfMod, thresholds[i], RandBits)
		inTier := api.Sub(cum, prev)
		matched = api.Add(matched, api.Mul(gadgets.IsEqual(api, rarity, i), inTier))
		prev = cum
	}
	// rejects both "no tier matches" and a rarity outside the tier set
	api.AssertIsEqual(matched, 1)
}
