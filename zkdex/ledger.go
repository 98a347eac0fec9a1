// ledger.go - Persistent, append-only global ledger for the asset protocol.
//
// The Ledger records all note commitments, nullifiers, per-game draw indexes,
// and settled transactions. It is append-only, supports double-spend
// detection, and is persisted as a single JSON file.
//
// NOTE: Ledger is not thread-safe by itself; the settlement node guards it
// with a mutex.

package zkdex

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Ledger is the canonical, append-only public ledger. All participants read
// from and append to the same file.
type Ledger struct {
	Commitments []string            // note commitments, decimal field elements
	Nullifiers  []string            // spend tags, decimal field elements
	Draws       map[string][]string // game id -> consumed draw indexes
	Records     []*Record           // full settled transactions
}

// NewLedger creates a new, empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		Commitments: make([]string, 0),
		Nullifiers:  make([]string, 0),
		Draws:       make(map[string][]string),
		Records:     make([]*Record, 0),
	}
}

// HasNullifier returns true if the nullifier has already been spent.
func (l *Ledger) HasNullifier(nf string) bool {
	for _, s := range l.Nullifiers {
		if s == nf {
			return true
		}
	}
	return false
}

// HasCommitment returns true if the commitment is already in the ledger.
func (l *Ledger) HasCommitment(cm string) bool {
	for _, c := range l.Commitments {
		if c == cm {
			return true
		}
	}
	return false
}

// HasDrawIndex returns true if the draw index was already consumed in the
// given game.
func (l *Ledger) HasDrawIndex(gameID, index string) bool {
	for _, idx := range l.Draws[gameID] {
		if idx == index {
			return true
		}
	}
	return false
}

// spend appends a nullifier after the double-spend check.
func (l *Ledger) spend(nf string) error {
	if l.HasNullifier(nf) {
		return errors.New("double-spend detected: nullifier already in ledger")
	}
	l.Nullifiers = append(l.Nullifiers, nf)
	return nil
}

// ApplyTransfer appends a verified transfer. The public vector is
// [oldHash, newHash, nftID, collectionID, nullifier].
func (l *Ledger) ApplyTransfer(publics []string, proof []byte) error {
	if len(publics) != 5 {
		return fmt.Errorf("transfer record expects 5 public inputs, got %d", len(publics))
	}
	if err := l.spend(publics[4]); err != nil {
		return err
	}
	l.Commitments = append(l.Commitments, publics[1])
	l.Records = append(l.Records, &Record{Kind: KindTransfer, Publics: publics, Proof: proof})
	return nil
}

// ApplyTrade appends a verified trade. The public vector is
// [oldItemHash, newItemHash, paymentNoteHash, gameID, nullifier]; a zero
// payment hash marks a gift and adds no payment commitment.
func (l *Ledger) ApplyTrade(publics []string, proof []byte) error {
	if len(publics) != 5 {
		return fmt.Errorf("trade record expects 5 public inputs, got %d", len(publics))
	}
	if err := l.spend(publics[4]); err != nil {
		return err
	}
	l.Commitments = append(l.Commitments, publics[1])
	if publics[2] != "0" {
		l.Commitments = append(l.Commitments, publics[2])
	}
	l.Records = append(l.Records, &Record{Kind: KindTrade, Publics: publics, Proof: proof})
	return nil
}

// ApplyLootBox appends a verified loot-box opening. The public vector is
// [boxCommitment, outcomeCommitment, vrfOutput, boxID, nullifier].
func (l *Ledger) ApplyLootBox(publics []string, proof []byte) error {
	if len(publics) != 5 {
		return fmt.Errorf("lootbox record expects 5 public inputs, got %d", len(publics))
	}
	if err := l.spend(publics[4]); err != nil {
		return err
	}
	l.Commitments = append(l.Commitments, publics[1])
	l.Records = append(l.Records, &Record{Kind: KindLootBox, Publics: publics, Proof: proof})
	return nil
}

// ApplyDraw appends a verified card draw. The public vector is
// [deckCommitment, drawCommitment, drawIndex, gameID, playerCommitment].
// A draw index may be consumed only once per game.
func (l *Ledger) ApplyDraw(publics []string, proof []byte) error {
	if len(publics) != 5 {
		return fmt.Errorf("draw record expects 5 public inputs, got %d", len(publics))
	}
	index, gameID := publics[2], publics[3]
	if l.HasDrawIndex(gameID, index) {
		return fmt.Errorf("draw index %s already consumed in game %s", index, gameID)
	}
	if l.Draws == nil {
		l.Draws = make(map[string][]string)
	}
	l.Draws[gameID] = append(l.Draws[gameID], index)
	l.Commitments = append(l.Commitments, publics[1])
	l.Records = append(l.Records, &Record{Kind: KindDraw, Publics: publics, Proof: proof})
	return nil
}

// GetRecords returns all settled transactions in the ledger.
func (l *Ledger) GetRecords() []*Record {
	return l.Records
}

// SaveToFile saves the ledger to a JSON file, overwriting it if it exists.
func (l *Ledger) SaveToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(l)
}

// LoadLedgerFromFile loads the ledger from a JSON file.
// Returns an error if the file is invalid or cannot be read.
func LoadLedgerFromFile(path string) (*Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var l Ledger
	dec := json.NewDecoder(f)
	if err := dec.Decode(&l); err != nil {
		return nil, err
	}
	if l.Draws == nil {
		l.Draws = make(map[string][]string)
	}
	return &l, nil
}
