package lootbox

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/tokamak-network/nftgame-zk-dex-sub001/internal/zkdex"
)

// LootBoxTx carries a loot-box opening proof and its ordered public inputs.
// The outcome note is delivered to the opener off-band; only its hash is
// published.
type LootBoxTx struct {
	Proof []byte

	BoxCommitment     string
	OutcomeCommitment string
	VRFOutput         string
	BoxID             string
	Nullifier         string

	Rarity      int             `json:"-"`
	OutcomeSalt *big.Int        `json:"-"`
	Owner       zkdex.PublicKey `json:"-"`
}

// PublicInputs returns the public vector in circuit order.
func (tx *LootBoxTx) PublicInputs() []string {
	return []string{tx.BoxCommitment, tx.OutcomeCommitment, tx.VRFOutput, tx.BoxID, tx.Nullifier}
}

// Compile builds the loot-box constraint system on BN254.
func Compile() (constraint.ConstraintSystem, error) {
	return frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &CircuitLootBox{})
}

// OpenLootBox spends the box note and proves the VRF-selected rarity under
// the given cumulative thresholds (per-tier upper bounds out of the rarity
// scale, strictly increasing, last one equal to the scale).
func OpenLootBox(box *zkdex.NFTNote, sk *big.Int, thresholds [zkdex.RarityTiers]uint64, ccs constraint.ConstraintSystem, pk groth16.ProvingKey) (*LootBoxTx, error) {
	if box == nil || sk == nil {
		return nil, errors.New("open lootbox: nil note or key")
	}
	if err := zkdex.ValidateThresholds(thresholds); err != nil {
		return nil, fmt.Errorf("open lootbox: %w", err)
	}
	owner := zkdex.DerivePublicKey(sk)
	if !owner.Equal(box.Owner) {
		return nil, errors.New("open lootbox: secret key does not own the box")
	}

	nullifier := zkdex.ComputeNullifier(box.NFTID, box.Salt, sk)
	vrfOut := zkdex.ComputeVRF(sk, nullifier)
	rarity, err := zkdex.RarityTier(vrfOut, thresholds)
	if err != nil {
		return nil, fmt.Errorf("open lootbox: %w", err)
	}
	outcomeSalt := zkdex.RandomField()
	outcome := zkdex.ComputeOutcomeNote(owner, box.NFTID, big.NewInt(int64(rarity)), outcomeSalt)

	witness := &CircuitLootBox{
		BoxCommitment:     box.Hash(),
		OutcomeCommitment: outcome,
		VRFOutput:         vrfOut,
		BoxID:             box.NFTID,
		Nullifier:         nullifier,
		Sk:                sk,
		OwnerX:            owner.X,
		OwnerY:            owner.Y,
		CollectionID:      box.CollectionID,
		BoxSalt:           box.Salt,
		OutcomeSalt:       outcomeSalt,
		Rarity:            rarity,
	}
	for i, th := range thresholds {
		witness.Thresholds[i] = th
	}

	w, err := frontend.NewWitness(witness, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("lootbox witness: %w", err)
	}
	proof, err := groth16.Prove(ccs, pk, w)
	if err != nil {
		return nil, fmt.Errorf("lootbox proof: %w", err)
	}
	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("lootbox proof marshal: %w", err)
	}

	return &LootBoxTx{
		Proof:             buf.Bytes(),
		BoxCommitment:     box.Hash().String(),
		OutcomeCommitment: outcome.String(),
		VRFOutput:         vrfOut.String(),
		BoxID:             box.NFTID.String(),
		Nullifier:         nullifier.String(),
		Rarity:            rarity,
		OutcomeSalt:       outcomeSalt,
		Owner:             owner,
	}, nil
}

// VerifyLootBox checks an opening proof against its public inputs.
func VerifyLootBox(tx *LootBoxTx, vk groth16.VerifyingKey) error {
	return VerifyRaw(tx.Proof, tx.PublicInputs(), vk)
}

// VerifyRaw verifies a loot-box proof against an ordered public-input vector.
func VerifyRaw(proofBytes []byte, publics []string, vk groth16.VerifyingKey) error {
	if len(publics) != 5 {
		return fmt.Errorf("lootbox expects 5 public inputs, got %d", len(publics))
	}
	vals, err := zkdex.ParseFieldElements(publics)
	if err != nil {
		return err
	}

	assignment := &CircuitLootBox{
		BoxCommitment:     vals[0],
		OutcomeCommitment: vals[1],
		VRFOutput:         vals[2],
		BoxID:             vals[3],
		Nullifier:         vals[4],
	}
	w, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("lootbox public witness: %w", err)
	}

	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(proofBytes)); err != nil {
		return fmt.Errorf("lootbox proof unmarshal: %w", err)
	}
	if err := groth16.Verify(proof, vk, w); err != nil {
		return fmt.Errorf("lootbox proof rejected: %w", err)
	}
	return nil
}
