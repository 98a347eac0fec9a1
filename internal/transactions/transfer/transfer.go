package transfer

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

// TransferTx carries a transfer proof together with its ordered public
// inputs, all decimal-encoded for transport. NewNote is handed to the
// recipient off-band so they can later spend it.
type TransferTx struct {
	Proof []byte

	OldHash      string
	NewHash      string
	NFTID        string
	CollectionID string
	Nullifier    string

	NewNote *zkdex.NFTNote `json:"-"`
}

// PublicInputs returns the public vector in circuit order.
func (tx *TransferTx) PublicInputs() []string {
	return []string{tx.OldHash, tx.NewHash, tx.NFTID, tx.CollectionID, tx.Nullifier}
}

// Compile builds the transfer constraint system on BN254.
func Compile() (constraint.ConstraintSystem, error) {
	return frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &CircuitTransfer{})
}

// CreateTransfer spends oldNote with sk and creates the same asset for
// newOwner under a fresh salt, returning the proof and public inputs.
func CreateTransfer(oldNote *zkdex.NFTNote, sk *big.Int, newOwner zkdex.PublicKey, ccs constraint.ConstraintSystem, pk groth16.ProvingKey) (*TransferTx, error) {
	if oldNote == nil || sk == nil {
		return nil, errors.New("create transfer: nil note or key")
	}
	if !zkdex.DerivePublicKey(sk).Equal(oldNote.Owner) {
		return nil, errors.New("create transfer: secret key does not own the note")
	}

	nullifier := zkdex.ComputeNullifier(oldNote.NFTID, oldNote.Salt, sk)
	newNote := zkdex.NewNFTNote(newOwner, oldNote.NFTID, oldNote.CollectionID)

	witness := &CircuitTransfer{
		OldHash:      oldNote.Hash(),
		NewHash:      newNote.Hash(),
		NFTID:        oldNote.NFTID,
		CollectionID: oldNote.CollectionID,
		Nullifier:    nullifier,
		Sk:           sk,
		OwnerX:       oldNote.Owner.X,
		OwnerY:       oldNote.Owner.Y,
		OldSalt:      oldNote.Salt,
		NewOwnerX:    newOwner.X,
		NewOwnerY:    newOwner.Y,
		NewSalt:      newNote.Salt,
	}
	w, err := frontend.NewWitness(witness, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("transfer witness: %w", err)
	}
	proof, err := groth16.Prove(ccs, pk, w)
	if err != nil {
		return nil, fmt.Errorf("transfer proof: %w", err)
	}
	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("transfer proof marshal: %w", err)
	}

	return &TransferTx{
		Proof:        buf.Bytes(),
		OldHash:      oldNote.Hash().String(),
		NewHash:      newNote.Hash().String(),
		NFTID:        oldNote.NFTID.String(),
		CollectionID: oldNote.CollectionID.String(),
		Nullifier:    nullifier.String(),
		NewNote:      newNote,
	}, nil
}

// VerifyTransfer checks a transfer proof against its public inputs.
func VerifyTransfer(tx *TransferTx, vk groth16.VerifyingKey) error {
	return VerifyRaw(tx.Proof, tx.PublicInputs(), vk)
}

// VerifyRaw verifies a transfer proof against an ordered public-input vector,
// as received on the wire.
func VerifyRaw(proofBytes []byte, publics []string, vk groth16.VerifyingKey) error {
	if len(publics) != 5 {
		return fmt.Errorf("transfer expects 5 public inputs, got %d", len(publics))
	}
	vals, err := zkdex.ParseFieldElements(publics)
	if err != nil {
		return err
	}

	assignment := &CircuitTransfer{
		OldHash:      vals[0],
		NewHash:      vals[1],
		NFTID:        vals[2],
		CollectionID: vals[3],
		Nullifier:    vals[4],
	}
	w, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("transfer public witness: %w", err)
	}

	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(proofBytes)); err != nil {
		return fmt.Errorf("transfer proof unmarshal: %w", err)
	}
	if err := groth16.Verify(proof, vk, w); err != nil {
		return fmt.Errorf("transfer proof rejected: %w", err)
	}
	return nil
}
