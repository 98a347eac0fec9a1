package transfer

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/test"

	"github.com/tokamak-network/nftgame-zk-dex-sub001/internal/zkdex"
)

func transferWitness(t *testing.T) (*CircuitTransfer, *zkdex.KeyPair, *zkdex.KeyPair) {
	t.Helper()

	seller, err := zkdex.GenerateKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	buyer, err := zkdex.GenerateKeyPair()
	if err != nil {
		t.Fatal(err)
	}

	oldNote := zkdex.NewNFTNote(seller.Pk, big.NewInt(7), big.NewInt(3))
	newNote := zkdex.NewNFTNote(buyer.Pk, oldNote.NFTID, oldNote.CollectionID)

	return &CircuitTransfer{
		OldHash:      oldNote.Hash(),
		NewHash:      newNote.Hash(),
		NFTID:        oldNote.NFTID,
		CollectionID: oldNote.CollectionID,
		Nullifier:    zkdex.ComputeNullifier(oldNote.NFTID, oldNote.Salt, seller.Sk),
		Sk:           seller.Sk,
		OwnerX:       seller.Pk.X,
		OwnerY:       seller.Pk.Y,
		OldSalt:      oldNote.Salt,
		NewOwnerX:    buyer.Pk.X,
		NewOwnerY:    buyer.Pk.Y,
		NewSalt:      newNote.Salt,
	}, seller, buyer
}

func TestCircuitTransfer(t *testing.T) {
	assert := test.NewAssert(t)

	valid, seller, _ := transferWitness(t)

	// a key that does not own the spent note
	stranger, err := zkdex.GenerateKeyPair()
	assert.NoError(err)
	wrongOwner := *valid
	wrongOwner.Sk = stranger.Sk

	// nullifier derived from a different salt
	wrongNullifier := *valid
	wrongNullifier.Nullifier = zkdex.ComputeNullifier(
		big.NewInt(7), zkdex.RandomField(), seller.Sk)

	// old commitment opened with the wrong salt
	wrongSalt := *valid
	wrongSalt.OldSalt = zkdex.RandomField()

	assert.CheckCircuit(
		&CircuitTransfer{},
		test.WithValidAssignment(valid),
		test.WithInvalidAssignment(&wrongOwner),
		test.WithInvalidAssignment(&wrongNullifier),
		test.WithInvalidAssignment(&wrongSalt),
		test.WithCurves(ecc.BN254),
	)
}

func TestPublicInputOrder(t *testing.T) {
	tx := &TransferTx{
		OldHash: "1", NewHash: "2", NFTID: "3", CollectionID: "4", Nullifier: "5",
	}
	got := tx.PublicInputs()
	want := []string{"1", "2", "3", "4", "5"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("public input %d: got %s, want %s", i, got[i], want[i])
		}
	}
	var _ frontend.Circuit = &CircuitTransfer{}
}
