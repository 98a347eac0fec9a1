// protocol_test.go - End-to-end protocol tests: real Groth16 proofs over the
// transaction circuits, settled against the append-only ledger.

package protocol

import (
	"math/big"
	"sync"
	"testing"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"

	"github.com/tokamak-network/nftgame-zk-dex-sub001/internal/transactions/trade"
	"github.com/tokamak-network/nftgame-zk-dex-sub001/internal/transactions/transfer"
	izkdex "github.com/tokamak-network/nftgame-zk-dex-sub001/internal/zkdex"
	"github.com/tokamak-network/nftgame-zk-dex-sub001/zkdex"
)

// Circuit compilation and trusted setup are expensive; do them once per
// circuit and share across tests.
var (
	transferOnce sync.Once
	transferCCS  constraint.ConstraintSystem
	transferPK   groth16.ProvingKey
	transferVK   groth16.VerifyingKey
	transferErr  error

	tradeOnce sync.Once
	tradeCCS  constraint.ConstraintSystem
	tradePK   groth16.ProvingKey
	tradeVK   groth16.VerifyingKey
	tradeErr  error
)

func transferSetup(t *testing.T) (constraint.ConstraintSystem, groth16.ProvingKey, groth16.VerifyingKey) {
	t.Helper()
	transferOnce.Do(func() {
		transferCCS, transferErr = transfer.Compile()
		if transferErr != nil {
			return
		}
		transferPK, transferVK, transferErr = groth16.Setup(transferCCS)
	})
	if transferErr != nil {
		t.Fatalf("transfer setup failed: %v", transferErr)
	}
	return transferCCS, transferPK, transferVK
}

func tradeSetup(t *testing.T) (constraint.ConstraintSystem, groth16.ProvingKey, groth16.VerifyingKey) {
	t.Helper()
	tradeOnce.Do(func() {
		tradeCCS, tradeErr = trade.Compile()
		if tradeErr != nil {
			return
		}
		tradePK, tradeVK, tradeErr = groth16.Setup(tradeCCS)
	})
	if tradeErr != nil {
		t.Fatalf("trade setup failed: %v", tradeErr)
	}
	return tradeCCS, tradePK, tradeVK
}

func TestEndToEndTransfer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Groth16 end-to-end test in short mode")
	}
	ccs, pk, vk := transferSetup(t)

	alice, err := izkdex.GenerateKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	bob, err := izkdex.GenerateKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	sword := izkdex.NewNFTNote(alice.Pk, big.NewInt(7001), big.NewInt(3))

	tx, err := transfer.CreateTransfer(sword, alice.Sk, bob.Pk, ccs, pk)
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if err := transfer.VerifyTransfer(tx, vk); err != nil {
		t.Fatalf("valid transfer rejected: %v", err)
	}

	t.Run("recipient can open the new note", func(t *testing.T) {
		if tx.NewNote == nil {
			t.Fatal("no new note delivered")
		}
		if !tx.NewNote.Owner.Equal(bob.Pk) {
			t.Fatal("new note not owned by recipient")
		}
		if tx.NewNote.Hash().String() != tx.NewHash {
			t.Fatal("published hash does not open to the delivered note")
		}
	})

	t.Run("tampered public input is rejected", func(t *testing.T) {
		publics := tx.PublicInputs()
		publics[1] = izkdex.RandomField().String() // swap in a different output note
		if err := transfer.VerifyRaw(tx.Proof, publics, vk); err == nil {
			t.Fatal("verification passed with a forged output commitment")
		}
	})

	t.Run("double spend is caught by the ledger", func(t *testing.T) {
		ledger := zkdex.NewLedger()
		if err := ledger.ApplyTransfer(tx.PublicInputs(), tx.Proof); err != nil {
			t.Fatalf("first settlement failed: %v", err)
		}

		// A second transfer of the same note to a different recipient.
		// The proof verifies in isolation; only the ledger can refuse it.
		carol, err := izkdex.GenerateKeyPair()
		if err != nil {
			t.Fatal(err)
		}
		tx2, err := transfer.CreateTransfer(sword, alice.Sk, carol.Pk, ccs, pk)
		if err != nil {
			t.Fatalf("second transfer failed: %v", err)
		}
		if err := transfer.VerifyTransfer(tx2, vk); err != nil {
			t.Fatalf("second proof should verify on its own: %v", err)
		}
		if err := ledger.ApplyTransfer(tx2.PublicInputs(), tx2.Proof); err == nil {
			t.Fatal("ledger accepted a double spend")
		}
	})
}

func TestEndToEndTrade(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Groth16 end-to-end test in short mode")
	}
	ccs, pk, vk := tradeSetup(t)

	seller, err := izkdex.GenerateKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	buyer, err := izkdex.GenerateKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	item := izkdex.NewNFTNote(seller.Pk, big.NewInt(4242), big.NewInt(9))

	t.Run("paid trade", func(t *testing.T) {
		tx, err := trade.CreateTrade(item, seller.Sk, buyer.Pk, big.NewInt(500), big.NewInt(1), ccs, pk)
		if err != nil {
			t.Fatalf("trade failed: %v", err)
		}
		if err := trade.VerifyTrade(tx, vk); err != nil {
			t.Fatalf("valid trade rejected: %v", err)
		}
		if tx.PaymentNote == nil {
			t.Fatal("paid trade produced no payment note")
		}
		if tx.PaymentNote.Hash().String() != tx.PaymentNoteHash {
			t.Fatal("payment hash does not open to the payment note")
		}

		ledger := zkdex.NewLedger()
		if err := ledger.ApplyTrade(tx.PublicInputs(), tx.Proof); err != nil {
			t.Fatalf("settlement failed: %v", err)
		}
		if !ledger.HasCommitment(tx.PaymentNoteHash) {
			t.Fatal("payment commitment not recorded")
		}
	})

	t.Run("gift trade", func(t *testing.T) {
		gift := izkdex.NewNFTNote(seller.Pk, big.NewInt(4243), big.NewInt(9))
		tx, err := trade.CreateTrade(gift, seller.Sk, buyer.Pk, big.NewInt(0), big.NewInt(1), ccs, pk)
		if err != nil {
			t.Fatalf("gift failed: %v", err)
		}
		if err := trade.VerifyTrade(tx, vk); err != nil {
			t.Fatalf("valid gift rejected: %v", err)
		}
		if tx.PaymentNote != nil {
			t.Fatal("gift must not carry a payment note")
		}
		if tx.PaymentNoteHash != "0" {
			t.Fatalf("gift payment hash must be zero, got %s", tx.PaymentNoteHash)
		}
	})
}
