// main.go - zkdexd: settlement daemon for the confidential game-asset protocol.
//
// The daemon compiles the four transaction circuits, loads or generates the
// Groth16 key pairs, and serves the settlement API:
//   - POST /submit     verify a proof and append it to the ledger
//   - GET  /nullifier  query whether a spend tag is consumed
//   - GET  /healthz    component health
//   - GET  /metrics    counters and timings
//
// The ledger is a single append-only JSON file shared by all participants.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	gnarklogger "github.com/consensys/gnark/logger"

	"github.com/tokamak-network/nftgame-zk-dex-sub001/internal/transactions/carddraw"
	"github.com/tokamak-network/nftgame-zk-dex-sub001/internal/transactions/lootbox"
	"github.com/tokamak-network/nftgame-zk-dex-sub001/internal/transactions/trade"
	"github.com/tokamak-network/nftgame-zk-dex-sub001/internal/transactions/transfer"
	internalzkdex "github.com/tokamak-network/nftgame-zk-dex-sub001/internal/zkdex"
	"github.com/tokamak-network/nftgame-zk-dex-sub001/settlement"
	"github.com/tokamak-network/nftgame-zk-dex-sub001/zkdex"
)

const version = "0.1.0"

// circuitSetup binds one transaction kind to its compiler and verifier.
type circuitSetup struct {
	kind    string
	compile func() (constraint.ConstraintSystem, error)
	verify  func(proof []byte, publics []string, vk groth16.VerifyingKey) error
}

var circuits = []circuitSetup{
	{zkdex.KindTransfer, transfer.Compile,
		func(p []byte, pub []string, vk groth16.VerifyingKey) error { return transfer.VerifyRaw(p, pub, vk) }},
	{zkdex.KindTrade, trade.Compile,
		func(p []byte, pub []string, vk groth16.VerifyingKey) error { return trade.VerifyRaw(p, pub, vk) }},
	{zkdex.KindLootBox, lootbox.Compile,
		func(p []byte, pub []string, vk groth16.VerifyingKey) error { return lootbox.VerifyRaw(p, pub, vk) }},
	{zkdex.KindDraw, carddraw.Compile,
		func(p []byte, pub []string, vk groth16.VerifyingKey) error { return carddraw.VerifyRaw(p, pub, vk) }},
}

func main() {
	configPath := flag.String("config", "zkdexd.json", "path to the daemon configuration file")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, closeLogger, err := NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer closeLogger()
	gnarklogger.Set(logger)

	logger.Info().Str("version", version).Str("node", cfg.NodeID).Msg("zkdexd starting")

	metrics := NewMetricsCollector()
	health := NewHealthChecker(version)

	// Compile circuits and load or generate their key pairs.
	if err := os.MkdirAll(cfg.KeyDir, 0755); err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.KeyDir).Msg("key directory")
	}
	verifyingKeys := make(map[string]groth16.VerifyingKey, len(circuits))
	for _, c := range circuits {
		start := time.Now()
		ccs, err := c.compile()
		if err != nil {
			logger.Fatal().Err(err).Str("kind", c.kind).Msg("circuit compilation failed")
		}
		metrics.RecordCircuitCompile(c.kind, time.Since(start))
		logger.Info().Str("kind", c.kind).
			Int("constraints", ccs.GetNbConstraints()).
			Dur("elapsed", time.Since(start)).
			Msg("circuit compiled")

		pkPath := filepath.Join(cfg.KeyDir, c.kind+"_pk.bin")
		vkPath := filepath.Join(cfg.KeyDir, c.kind+"_vk.bin")
		_, vk, err := internalzkdex.SetupOrLoadKeys(ccs, pkPath, vkPath)
		if err != nil {
			logger.Fatal().Err(err).Str("kind", c.kind).Msg("key setup failed")
		}
		verifyingKeys[c.kind] = vk
	}

	// Load or create the ledger.
	ledger, err := zkdex.LoadLedgerFromFile(cfg.LedgerPath)
	if err != nil {
		logger.Info().Str("path", cfg.LedgerPath).Msg("starting with a fresh ledger")
		ledger = zkdex.NewLedger()
	} else {
		logger.Info().Int("records", len(ledger.GetRecords())).Msg("ledger loaded")
	}
	metrics.SetLedgerRecords(len(ledger.GetRecords()))

	var wg sync.WaitGroup
	node := settlement.NewNode(cfg.NodeID, cfg.ListenAddress, ledger, cfg.LedgerPath, logger, &wg)

	limiter := NewSenderRateLimiter(cfg.RateLimitBurst, time.Minute/time.Duration(cfg.RateLimitPerMinute))
	node.Gate = func(sender string) bool {
		if limiter.Allow(sender) {
			return true
		}
		metrics.RecordRateLimited()
		return false
	}
	node.OnSettle = func(kind string) {
		metrics.RecordSettlement(kind)
		metrics.SetLedgerRecords(len(ledger.GetRecords()))
	}

	for _, c := range circuits {
		kind, verify, vk := c.kind, c.verify, verifyingKeys[c.kind]
		node.RegisterVerifier(kind, func(proof []byte, publics []string) error {
			start := time.Now()
			err := verify(proof, publics, vk)
			metrics.RecordVerify(kind, time.Since(start))
			if err != nil {
				metrics.RecordRejection(kind)
			}
			return err
		})
	}

	health.RegisterComponent("ledger", func() error {
		_, err := os.Stat(filepath.Dir(cfg.LedgerPath))
		return err
	})
	health.RegisterComponent("keys", func() error {
		_, err := os.Stat(cfg.KeyDir)
		return err
	})

	node.Handle("/healthz", func(w http.ResponseWriter, r *http.Request) {
		report := health.CheckHealth()
		status := http.StatusOK
		if report.OverallStatus != Healthy {
			status = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(report)
	})
	node.Handle("/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(metrics.Summary())
	})

	ready := make(chan struct{}, 1)
	if err := node.StartServer(ready); err != nil {
		logger.Fatal().Err(err).Msg("settlement node failed to start")
	}
	<-ready

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := node.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
	wg.Wait()
	logger.Info().Msg("zkdexd stopped")
}
