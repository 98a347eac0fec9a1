// vrf.go - native Poseidon VRF and rarity-tier mapping.

package zkdex

import (
	"fmt"
	"math/big"
)

// ComputeVRF evaluates the keyed pseudorandom output H(sk, seed). The seed is
// by convention the nullifier of the triggering action, so each opening gets
// a fresh, unforgeable value.
func ComputeVRF(sk, seed *big.Int) *big.Int {
	return mustHash(sk, seed)
}

// ValidateThresholds checks that the cumulative rarity thresholds are
// strictly increasing and end exactly at RarityScale.
func ValidateThresholds(thresholds [RarityTiers]uint64) error {
	for i := 1; i < RarityTiers; i++ {
		if thresholds[i] <= thresholds[i-1] {
			return fmt.Errorf("thresholds must be strictly increasing: t[%d]=%d, t[%d]=%d",
				i-1, thresholds[i-1], i, thresholds[i])
		}
	}
	if thresholds[RarityTiers-1] != RarityScale {
		return fmt.Errorf("last threshold must be %d, got %d", RarityScale, thresholds[RarityTiers-1])
	}
	return nil
}

// RarityTier reduces a VRF output into [0, RarityScale) and maps it to the
// first tier whose cumulative threshold exceeds it.
func RarityTier(vrfOut *big.Int, thresholds [RarityTiers]uint64) (int, error) {
	if err := ValidateThresholds(thresholds); err != nil {
		return 0, err
	}
	randomVal := new(big.Int).And(vrfOut, randMask).Uint64()
	vrfMod := randomVal
	if vrfMod >= RarityScale {
		vrfMod -= RarityScale
	}
	for i := 0; i < RarityTiers; i++ {
		if vrfMod < thresholds[i] {
			return i, nil
		}
	}
	// unreachable: vrfMod < RarityScale == thresholds[RarityTiers-1]
	return 0, fmt.Errorf("vrf value %d not covered by thresholds", vrfMod)
}
