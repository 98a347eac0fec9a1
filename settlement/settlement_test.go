package settlement

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tokamak-network/nftgame-zk-dex-sub001/zkdex"
)

// startTestNode runs a node with an always-accepting transfer verifier so the
// ledger rules can be exercised without real proofs.
func startTestNode(t *testing.T, port int) *Node {
	t.Helper()

	var wg sync.WaitGroup
	node := NewNode("test", fmt.Sprintf("localhost:%d", port), zkdex.NewLedger(), "", zerolog.Nop(), &wg)
	node.RegisterVerifier(zkdex.KindTransfer, func(proof []byte, publics []string) error {
		return nil
	})
	node.RegisterVerifier(zkdex.KindDraw, func(proof []byte, publics []string) error {
		return nil
	})

	ready := make(chan struct{})
	if err := node.StartServer(ready); err != nil {
		t.Fatalf("StartServer failed: %v", err)
	}
	<-ready
	t.Cleanup(func() { node.Shutdown(context.Background()) })
	return node
}

func TestSubmitAndDoubleSpend(t *testing.T) {
	node := startTestNode(t, 9610)

	tx := SubmitPayload{
		Kind:    zkdex.KindTransfer,
		Publics: []string{"11", "22", "7", "3", "99"},
		Proof:   []byte("proof"),
	}
	if err := Submit(node.Address, tx); err != nil {
		t.Fatalf("first submission failed: %v", err)
	}
	if !node.HasNullifier("99") {
		t.Fatal("nullifier not recorded after settlement")
	}

	// replaying the same nullifier must be refused even though the proof
	// verifies
	tx.Publics = []string{"11", "33", "7", "3", "99"}
	if err := Submit(node.Address, tx); err == nil {
		t.Fatal("expected double-spend to be rejected")
	}
}

func TestSubmitUnknownKind(t *testing.T) {
	node := startTestNode(t, 9620)

	err := Submit(node.Address, SubmitPayload{
		Kind:    "mint",
		Publics: []string{"1", "2", "3", "4", "5"},
	})
	if err == nil {
		t.Fatal("expected unknown kind to be rejected")
	}
}

func TestSubmitRejectedProof(t *testing.T) {
	node := startTestNode(t, 9630)
	node.RegisterVerifier(zkdex.KindTrade, func(proof []byte, publics []string) error {
		return errors.New("proof rejected")
	})

	err := Submit(node.Address, SubmitPayload{
		Kind:    zkdex.KindTrade,
		Publics: []string{"1", "2", "3", "4", "5"},
	})
	if err == nil {
		t.Fatal("expected failing verifier to reject the submission")
	}
	if node.HasNullifier("5") {
		t.Fatal("rejected submission must not touch the ledger")
	}
}

func TestNullifierQuery(t *testing.T) {
	node := startTestNode(t, 9640)

	spent, err := QueryNullifier(node.Address, "99")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if spent {
		t.Fatal("fresh ledger should have no spent nullifiers")
	}

	err = Submit(node.Address, SubmitPayload{
		Kind:    zkdex.KindDraw,
		Publics: []string{"d1", "c1", "13", "7", "p1"},
	})
	if err != nil {
		t.Fatalf("draw submission failed: %v", err)
	}
	spent, err = QueryNullifier(node.Address, "99")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if spent {
		t.Fatal("draws do not spend nullifiers")
	}
}
