package trade

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

// TradeTx carries a trade proof and its ordered public inputs. The payment
// note (nil for gifts) is delivered to the seller off-band; the item note to
// the buyer.
type TradeTx struct {
	Proof []byte

	OldItemHash     string
	NewItemHash     string
	PaymentNoteHash string
	GameID          string
	Nullifier       string

	NewItemNote *zkdex.NFTNote     `json:"-"`
	PaymentNote *zkdex.PaymentNote `json:"-"`
}

// PublicInputs returns the public vector in circuit order.
func (tx *TradeTx) PublicInputs() []string {
	return []string{tx.OldItemHash, tx.NewItemHash, tx.PaymentNoteHash, tx.GameID, tx.Nullifier}
}

// Compile builds the trade constraint system on BN254.
func Compile() (constraint.ConstraintSystem, error) {
	return frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &CircuitTrade{})
}

// CreateTrade sells itemNote to buyer for price units of token. A zero price
// produces a gift: no payment note is created and the public payment hash is
// zero. The item note's collection field is the game id.
func CreateTrade(itemNote *zkdex.NFTNote, sk *big.Int, buyer zkdex.PublicKey, price, token *big.Int, ccs constraint.ConstraintSystem, pk groth16.ProvingKey) (*TradeTx, error) {
	if itemNote == nil || sk == nil {
		return nil, errors.New("create trade: nil note or key")
	}
	seller := zkdex.DerivePublicKey(sk)
	if !seller.Equal(itemNote.Owner) {
		return nil, errors.New("create trade: secret key does not own the item")
	}

	nullifier := zkdex.ComputeNullifier(itemNote.NFTID, itemNote.Salt, sk)
	newItem := zkdex.NewNFTNote(buyer, itemNote.NFTID, itemNote.CollectionID)

	// the payment salt enters the witness either way; only a non-zero price
	// publishes the note hash
	payment := &zkdex.PaymentNote{Owner: seller, Price: price, Token: token, Salt: zkdex.RandomField()}
	paymentHash := big.NewInt(0)
	if price.Sign() != 0 {
		paymentHash = payment.Hash()
	}

	witness := &CircuitTrade{
		OldItemHash:     itemNote.Hash(),
		NewItemHash:     newItem.Hash(),
		PaymentNoteHash: paymentHash,
		GameID:          itemNote.CollectionID,
		Nullifier:       nullifier,
		Sk:              sk,
		SellerX:         seller.X,
		SellerY:         seller.Y,
		ItemID:          itemNote.NFTID,
		OldSalt:         itemNote.Salt,
		BuyerX:          buyer.X,
		BuyerY:          buyer.Y,
		NewSalt:         newItem.Salt,
		Price:           price,
		Token:           token,
		PaymentSalt:     payment.Salt,
	}
	w, err := frontend.NewWitness(witness, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("trade witness: %w", err)
	}
	proof, err := groth16.Prove(ccs, pk, w)
	if err != nil {
		return nil, fmt.Errorf("trade proof: %w", err)
	}
	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("trade proof marshal: %w", err)
	}

	tx := &TradeTx{
		Proof:           buf.Bytes(),
		OldItemHash:     itemNote.Hash().String(),
		NewItemHash:     newItem.Hash().String(),
		PaymentNoteHash: paymentHash.String(),
		GameID:          itemNote.CollectionID.String(),
		Nullifier:       nullifier.String(),
		NewItemNote:     newItem,
	}
	if price.Sign() != 0 {
		tx.PaymentNote = payment
	}
	return tx, nil
}

// VerifyTrade checks a trade proof against its public inputs.
func VerifyTrade(tx *TradeTx, vk groth16.VerifyingKey) error {
	return VerifyRaw(tx.Proof, tx.PublicInputs(), vk)
}

// VerifyRaw verifies a trade proof against an ordered public-input vector.
func VerifyRaw(proofBytes []byte, publics []string, vk groth16.VerifyingKey) error {
	if len(publics) != 5 {
		return fmt.Errorf("trade expects 5 public inputs, got %d", len(publics))
	}
	vals, err := zkdex.ParseFieldElements(publics)
	if err != nil {
		return err
	}

	assignment := &CircuitTrade{
		OldItemHash:     vals[0],
		NewItemHash:     vals[1],
		PaymentNoteHash: vals[2],
		GameID:          vals[3],
		Nullifier:       vals[4],
	}
	w, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("trade public witness: %w", err)
	}

	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(proofBytes)); err != nil {
		return fmt.Errorf("trade proof unmarshal: %w", err)
	}
	if err := groth16.Verify(proof, vk, w); err != nil {
		return fmt.Errorf("trade proof rejected: %w", err)
	}
	return nil
}
