package carddraw

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/tokamak-network/nftgame-zk-dex-sub001/internal/zkdex"
)

// DrawTx carries a card-draw proof and its ordered public inputs. The drawn
// card and the shuffle material stay with the player; only the commitments
// and the draw index are published.
type DrawTx struct {
	Proof []byte

	DeckCommitment   string
	DrawCommitment   string
	DrawIndex        string
	GameID           string
	PlayerCommitment string

	Card     *big.Int `json:"-"`
	Seed     *big.Int `json:"-"`
	DeckSalt *big.Int `json:"-"`
	DrawSalt *big.Int `json:"-"`
}

// PublicInputs returns the public vector in circuit order.
func (tx *DrawTx) PublicInputs() []string {
	return []string{tx.DeckCommitment, tx.DrawCommitment, tx.DrawIndex, tx.GameID, tx.PlayerCommitment}
}

// Compile builds the card-draw constraint system on BN254.
func Compile() (constraint.ConstraintSystem, error) {
	return frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &CircuitCardDraw{})
}

// DrawCard shuffles a fresh deck under a random seed and proves the draw at
// drawIndex for the player registered under (gameID, playerSalt).
func DrawCard(sk, gameID, playerSalt *big.Int, drawIndex int, ccs constraint.ConstraintSystem, pk groth16.ProvingKey) (*DrawTx, error) {
	if sk == nil || gameID == nil || playerSalt == nil {
		return nil, errors.New("draw card: nil key or registration")
	}
	if drawIndex < 0 || drawIndex >= zkdex.DeckSize {
		return nil, fmt.Errorf("draw card: index %d out of range", drawIndex)
	}
	owner := zkdex.DerivePublicKey(sk)

	seed := zkdex.RandomField()
	deck := zkdex.ShuffleDeck(seed)
	deckSalt := zkdex.RandomField()
	deckCommitment, err := zkdex.ComputeDeckCommitment(deck[:], deckSalt)
	if err != nil {
		return nil, fmt.Errorf("draw card: %w", err)
	}

	card := deck[drawIndex]
	drawSalt := zkdex.RandomField()
	drawCommitment := zkdex.ComputeDrawNote(owner, big.NewInt(int64(drawIndex)), card, drawSalt)
	playerCommitment := zkdex.ComputePlayerCommitment(owner, gameID, playerSalt)

	witness := &CircuitCardDraw{
		DeckCommitment:   deckCommitment,
		DrawCommitment:   drawCommitment,
		DrawIndex:        drawIndex,
		GameID:           gameID,
		PlayerCommitment: playerCommitment,
		Sk:               sk,
		OwnerX:           owner.X,
		OwnerY:           owner.Y,
		PlayerSalt:       playerSalt,
		Seed:             seed,
		DeckSalt:         deckSalt,
		DrawSalt:         drawSalt,
	}
	for i, c := range deck {
		witness.Deck[i] = c
	}

	w, err := frontend.NewWitness(witness, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("draw witness: %w", err)
	}
	proof, err := groth16.Prove(ccs, pk, w)
	if err != nil {
		return nil, fmt.Errorf("draw proof: %w", err)
	}
	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("draw proof marshal: %w", err)
	}

	return &DrawTx{
		Proof:            buf.Bytes(),
		DeckCommitment:   deckCommitment.String(),
		DrawCommitment:   drawCommitment.String(),
		DrawIndex:        strconv.Itoa(drawIndex),
		GameID:           gameID.String(),
		PlayerCommitment: playerCommitment.String(),
		Card:             card,
		Seed:             seed,
		DeckSalt:         deckSalt,
		DrawSalt:         drawSalt,
	}, nil
}

// VerifyDraw checks a draw proof against its public inputs.
func VerifyDraw(tx *DrawTx, vk groth16.VerifyingKey) error {
	return VerifyRaw(tx.Proof, tx.PublicInputs(), vk)
}

// VerifyRaw verifies a card-draw proof against an ordered public-input vector.
func VerifyRaw(proofBytes []byte, publics []string, vk groth16.VerifyingKey) error {
	if len(publics) != 5 {
		return fmt.Errorf("draw expects 5 public inputs, got %d", len(publics))
	}
	vals, err := zkdex.ParseFieldElements(publics)
	if err != nil {
		return err
	}

	assignment := &CircuitCardDraw{
		DeckCommitment:   vals[0],
		DrawCommitment:   vals[1],
		DrawIndex:        vals[2],
		GameID:           vals[3],
		PlayerCommitment: vals[4],
	}
	w, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("draw public witness: %w", err)
	}

	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(proofBytes)); err != nil {
		return fmt.Errorf("draw proof unmarshal: %w", err)
	}
	if err := groth16.Verify(proof, vk, w); err != nil {
		return fmt.Errorf("draw proof rejected: %w", err)
	}
	return nil
}
