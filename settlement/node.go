package settlement

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tokamak-network/nftgame-zk-dex-sub001/zkdex"
)

// Verifier checks one proof kind against its ordered public-input vector.
// The node stays decoupled from the circuit packages; the binary registers
// one verifier per kind at startup.
type Verifier func(proof []byte, publics []string) error

// Node is a settlement endpoint: it accepts proof submissions over HTTP,
// verifies them, applies them to the shared ledger, and answers nullifier
// queries.
type Node struct {
	ID      string
	Address string

	log       zerolog.Logger
	server    *http.Server
	waitGroup *sync.WaitGroup

	mu         sync.Mutex
	ledger     *zkdex.Ledger
	ledgerPath string // empty disables persistence
	verifiers  map[string]Verifier
	extra      map[string]http.HandlerFunc

	// Gate, when set, is consulted before verification; a false return
	// rejects the submission with 429. Used for per-sender rate limiting.
	Gate func(sender string) bool

	// OnSettle, when set, is called after a submission is applied to the
	// ledger. Used for metrics.
	OnSettle func(kind string)
}

// NewNode creates a settlement node over the given ledger. If ledgerPath is
// non-empty the ledger is saved there after every accepted submission.
func NewNode(id, address string, ledger *zkdex.Ledger, ledgerPath string, logger zerolog.Logger, wg *sync.WaitGroup) *Node {
	return &Node{
		ID:         id,
		Address:    address,
		log:        logger.With().Str("node", id).Logger(),
		waitGroup:  wg,
		ledger:     ledger,
		ledgerPath: ledgerPath,
		verifiers:  make(map[string]Verifier),
		extra:      make(map[string]http.HandlerFunc),
	}
}

// RegisterVerifier installs the verifier for a transaction kind.
func (n *Node) RegisterVerifier(kind string, v Verifier) {
	n.verifiers[kind] = v
}

// Handle registers an additional HTTP handler, e.g. health or metrics
// endpoints. Must be called before StartServer.
func (n *Node) Handle(pattern string, h http.HandlerFunc) {
	n.extra[pattern] = h
}

// HasNullifier reports whether the nullifier is spent on this node's ledger.
func (n *Node) HasNullifier(nf string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ledger.HasNullifier(nf)
}

// submitHandler verifies a submission and appends it to the ledger.
func (n *Node) submitHandler(w http.ResponseWriter, r *http.Request) {
	var payload SubmitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		n.log.Warn().Err(err).Msg("bad submission body")
		writeJSON(w, http.StatusBadRequest, SubmitResponse{Error: "invalid request body"})
		return
	}

	if n.Gate != nil && !n.Gate(payload.Sender) {
		n.log.Warn().Str("sender", payload.Sender).Msg("submission rate-limited")
		writeJSON(w, http.StatusTooManyRequests, SubmitResponse{Error: "rate limit exceeded"})
		return
	}

	verify, ok := n.verifiers[payload.Kind]
	if !ok {
		n.log.Warn().Str("kind", payload.Kind).Msg("unknown transaction kind")
		writeJSON(w, http.StatusBadRequest, SubmitResponse{Error: "unknown transaction kind: " + payload.Kind})
		return
	}

	if err := verify(payload.Proof, payload.Publics); err != nil {
		n.log.Warn().Err(err).Str("kind", payload.Kind).Msg("proof rejected")
		writeJSON(w, http.StatusBadRequest, SubmitResponse{Error: err.Error()})
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.apply(payload); err != nil {
		n.log.Warn().Err(err).Str("kind", payload.Kind).Msg("settlement refused")
		writeJSON(w, http.StatusConflict, SubmitResponse{Error: err.Error()})
		return
	}
	if n.ledgerPath != "" {
		if err := n.ledger.SaveToFile(n.ledgerPath); err != nil {
			n.log.Error().Err(err).Str("path", n.ledgerPath).Msg("ledger persist failed")
		}
	}

	if n.OnSettle != nil {
		n.OnSettle(payload.Kind)
	}
	n.log.Info().Str("kind", payload.Kind).Str("sender", payload.Sender).Msg("transaction settled")
	writeJSON(w, http.StatusOK, SubmitResponse{Accepted: true})
}

// apply routes a verified submission to the matching ledger operation.
// Caller holds the mutex.
func (n *Node) apply(p SubmitPayload) error {
	switch p.Kind {
	case zkdex.KindTransfer:
		return n.ledger.ApplyTransfer(p.Publics, p.Proof)
	case zkdex.KindTrade:
		return n.ledger.ApplyTrade(p.Publics, p.Proof)
	case zkdex.KindLootBox:
		return n.ledger.ApplyLootBox(p.Publics, p.Proof)
	case zkdex.KindDraw:
		return n.ledger.ApplyDraw(p.Publics, p.Proof)
	default:
		return fmt.Errorf("no ledger operation for kind %q", p.Kind)
	}
}

// nullifierHandler answers spend queries: GET /nullifier?value=<decimal>.
func (n *Node) nullifierHandler(w http.ResponseWriter, r *http.Request) {
	value := r.URL.Query().Get("value")
	if value == "" {
		http.Error(w, "missing value parameter", http.StatusBadRequest)
		return
	}
	n.mu.Lock()
	spent := n.ledger.HasNullifier(value)
	n.mu.Unlock()
	writeJSON(w, http.StatusOK, NullifierStatus{Nullifier: value, Spent: spent})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// StartServer starts the node's HTTP server in a new goroutine.
// It signals on the 'ready' channel once the server is actively listening.
func (n *Node) StartServer(ready chan<- struct{}) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/submit", n.submitHandler)
	mux.HandleFunc("/nullifier", n.nullifierHandler)
	for pattern, h := range n.extra {
		mux.HandleFunc(pattern, h)
	}

	n.server = &http.Server{
		Addr:    n.Address,
		Handler: mux,
	}

	listener, err := net.Listen("tcp", n.Address)
	if err != nil {
		return fmt.Errorf("settlement listen: %w", err)
	}

	n.waitGroup.Add(1)
	go func() {
		defer n.waitGroup.Done()
		n.log.Info().Str("address", n.Address).Msg("settlement node listening")

		ready <- struct{}{}

		if err := n.server.Serve(listener); err != http.ErrServerClosed {
			n.log.Error().Err(err).Msg("settlement server failed")
		}
		n.log.Info().Msg("settlement node stopped")
	}()
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (n *Node) Shutdown(ctx context.Context) error {
	if n.server == nil {
		return nil
	}
	return n.server.Shutdown(ctx)
}

// Submit sends a transaction to a settlement node and returns an error if it
// was not accepted.
func Submit(address string, payload SubmitPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post("http://"+address+"/submit", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("submit to %s: %w", address, err)
	}
	defer resp.Body.Close()

	var result SubmitResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode submit response: %w", err)
	}
	if !result.Accepted {
		return fmt.Errorf("submission rejected: %s", result.Error)
	}
	return nil
}

// QueryNullifier asks a settlement node whether a nullifier is spent.
func QueryNullifier(address, nullifier string) (bool, error) {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + address + "/nullifier?value=" + url.QueryEscape(nullifier))
	if err != nil {
		return false, fmt.Errorf("query %s: %w", address, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("nullifier query returned %s", resp.Status)
	}
	var status NullifierStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return false, fmt.Errorf("decode nullifier status: %w", err)
	}
	return status.Spent, nil
}
