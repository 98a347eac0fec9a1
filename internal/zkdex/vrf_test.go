package zkdex

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/test"
	qt "github.com/frankban/quicktest"
)

var testThresholds = [RarityTiers]uint64{100, 500, 2000, 10000}

func TestRarityTier(t *testing.T) {
	c := qt.New(t)

	// the low 14 bits of the argument are the random value
	tier, err := RarityTier(big.NewInt(50), testThresholds)
	c.Assert(err, qt.IsNil)
	c.Assert(tier, qt.Equals, 0)

	tier, err = RarityTier(big.NewInt(9999), testThresholds)
	c.Assert(err, qt.IsNil)
	c.Assert(tier, qt.Equals, 3)

	// 16383 folds to 6383, landing in the last tier
	tier, err = RarityTier(big.NewInt(16383), testThresholds)
	c.Assert(err, qt.IsNil)
	c.Assert(tier, qt.Equals, 3)

	tier, err = RarityTier(big.NewInt(499), testThresholds)
	c.Assert(err, qt.IsNil)
	c.Assert(tier, qt.Equals, 1)

	_, err = RarityTier(big.NewInt(50), [RarityTiers]uint64{100, 50, 2000, 10000})
	c.Assert(err, qt.IsNotNil)
	_, err = RarityTier(big.NewInt(50), [RarityTiers]uint64{100, 500, 2000, 9999})
	c.Assert(err, qt.IsNotNil)
}

func TestComputeVRF(t *testing.T) {
	c := qt.New(t)

	sk := RandomField()
	seed := RandomField()
	c.Assert(ComputeVRF(sk, seed).Cmp(ComputeVRF(sk, seed)), qt.Equals, 0)
	c.Assert(ComputeVRF(sk, seed).Cmp(ComputeVRF(RandomField(), seed)), qt.Not(qt.Equals), 0)
}

type vrfCircuit struct {
	Sk   frontend.Variable
	Seed frontend.Variable
	Out  frontend.Variable `gnark:",public"`
}

func (c *vrfCircuit) Define(api frontend.API) error {
	api.AssertIsEqual(c.Out, VRFHash(api, c.Sk, c.Seed))
	return nil
}

func TestVRFCircuitMatchesNative(t *testing.T) {
	assert := test.NewAssert(t)

	sk := RandomField()
	seed := RandomField()

	assert.CheckCircuit(
		&vrfCircuit{},
		test.WithValidAssignment(&vrfCircuit{Sk: sk, Seed: seed, Out: ComputeVRF(sk, seed)}),
		test.WithInvalidAssignment(&vrfCircuit{Sk: sk, Seed: seed, Out: ComputeVRF(seed, sk)}),
		test.WithCurves(ecc.BN254),
	)
}

type rarityCircuit struct {
	VRFOut     frontend.Variable
	Thresholds [RarityTiers]frontend.Variable
	Rarity     frontend.Variable `gnark:",public"`
}

func (c *rarityCircuit) Define(api frontend.API) error {
	AssertRarity(api, c.VRFOut, c.Thresholds, c.Rarity)
	return nil
}

func TestAssertRarity(t *testing.T) {
	assert := test.NewAssert(t)

	var thr [RarityTiers]frontend.Variable
	for i, v := range testThresholds {
		thr[i] = v
	}
	nonIncreasing := [RarityTiers]frontend.Variable{100, 50, 2000, 10000}
	shortScale := [RarityTiers]frontend.Variable{100, 500, 2000, 9999}

	assert.CheckCircuit(
		&rarityCircuit{},
		test.WithValidAssignment(&rarityCircuit{VRFOut: 50, Thresholds: thr, Rarity: 0}),
		test.WithValidAssignment(&rarityCircuit{VRFOut: 9999, Thresholds: thr, Rarity: 3}),
		test.WithValidAssignment(&rarityCircuit{VRFOut: 16383, Thresholds: thr, Rarity: 3}),
		test.WithValidAssignment(&rarityCircuit{VRFOut: 499, Thresholds: thr, Rarity: 1}),
		// wrong tier claimed
		test.WithInvalidAssignment(&rarityCircuit{VRFOut: 50, Thresholds: thr, Rarity: 1}),
		// rarity outside the tier set
		test.WithInvalidAssignment(&rarityCircuit{VRFOut: 50, Thresholds: thr, Rarity: 5}),
		// broken threshold policies are rejected regardless of other inputs
		test.WithInvalidAssignment(&rarityCircuit{VRFOut: 50, Thresholds: nonIncreasing, Rarity: 0}),
		test.WithInvalidAssignment(&rarityCircuit{VRFOut: 50, Thresholds: shortScale, Rarity: 0}),
		test.WithCurves(ecc.BN254),
	)
}
