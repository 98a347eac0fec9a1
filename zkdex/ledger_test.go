package zkdex

import (
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestLedgerDoubleSpend(t *testing.T) {
	c := qt.New(t)
	l := NewLedger()

	publics := []string{"11", "22", "7", "3", "99"}
	c.Assert(l.ApplyTransfer(publics, []byte("proof")), qt.IsNil)
	c.Assert(l.HasNullifier("99"), qt.IsTrue)
	c.Assert(l.HasCommitment("22"), qt.IsTrue)

	// same nullifier again, even under a different kind
	again := []string{"11", "33", "0", "3", "99"}
	c.Assert(l.ApplyTrade(again, []byte("proof")), qt.IsNotNil)
	c.Assert(l.ApplyLootBox(again, []byte("proof")), qt.IsNotNil)
	c.Assert(len(l.GetRecords()), qt.Equals, 1)
}

func TestLedgerTradeGift(t *testing.T) {
	c := qt.New(t)
	l := NewLedger()

	gift := []string{"11", "22", "0", "3", "99"}
	c.Assert(l.ApplyTrade(gift, nil), qt.IsNil)
	c.Assert(l.HasCommitment("0"), qt.IsFalse)

	paid := []string{"12", "23", "555", "3", "98"}
	c.Assert(l.ApplyTrade(paid, nil), qt.IsNil)
	c.Assert(l.HasCommitment("555"), qt.IsTrue)
}

func TestLedgerDrawIndexes(t *testing.T) {
	c := qt.New(t)
	l := NewLedger()

	c.Assert(l.ApplyDraw([]string{"d1", "c1", "13", "7", "p1"}, nil), qt.IsNil)
	// same index, same game
	c.Assert(l.ApplyDraw([]string{"d2", "c2", "13", "7", "p2"}, nil), qt.IsNotNil)
	// same index, different game
	c.Assert(l.ApplyDraw([]string{"d3", "c3", "13", "8", "p3"}, nil), qt.IsNil)
	c.Assert(l.HasDrawIndex("7", "13"), qt.IsTrue)
	c.Assert(l.HasDrawIndex("8", "13"), qt.IsTrue)
	c.Assert(l.HasDrawIndex("7", "14"), qt.IsFalse)
}

func TestLedgerSaveLoad(t *testing.T) {
	c := qt.New(t)
	l := NewLedger()
	c.Assert(l.ApplyTransfer([]string{"11", "22", "7", "3", "99"}, []byte{1, 2, 3}), qt.IsNil)
	c.Assert(l.ApplyDraw([]string{"d1", "c1", "13", "7", "p1"}, nil), qt.IsNil)

	path := filepath.Join(t.TempDir(), "ledger.json")
	c.Assert(l.SaveToFile(path), qt.IsNil)

	loaded, err := LoadLedgerFromFile(path)
	c.Assert(err, qt.IsNil)
	c.Assert(loaded.HasNullifier("99"), qt.IsTrue)
	c.Assert(loaded.HasDrawIndex("7", "13"), qt.IsTrue)
	c.Assert(len(loaded.GetRecords()), qt.Equals, 2)
	c.Assert(loaded.GetRecords()[0].Proof, qt.DeepEquals, []byte{1, 2, 3})
}
