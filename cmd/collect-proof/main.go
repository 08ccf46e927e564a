package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/feral-file/notary-bridge/internal/adapter"
	"github.com/feral-file/notary-bridge/internal/config"
	"github.com/feral-file/notary-bridge/internal/domain"
	"github.com/feral-file/notary-bridge/internal/logger"
	"github.com/feral-file/notary-bridge/internal/proof"
	"github.com/feral-file/notary-bridge/internal/registry"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
	opFile     = flag.String("op", "-", "Path to the operation JSON, - reads stdin")
)

// quorumOutput is the printed quorum proof, ready for the master contract call
type quorumOutput struct {
	Kind        domain.OperationKind      `json:"kind"`
	TriggerHash string                    `json:"trigger_hash"`
	Digest      string                    `json:"digest"`
	Threshold   int                       `json:"threshold"`
	Complete    bool                      `json:"complete"`
	Proofs      []proof.SignatureResponse `json:"proofs"`
}

func main() {
	flag.Parse()

	cfg, err := config.LoadCollectorConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Logs go to stderr so stdout carries only the proof
	log, err := logger.New(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "collect-proof",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fs := adapter.NewFileSystem()
	jsonAdapter := adapter.NewJSON()

	// Load federation
	federation, err := registry.NewFederationLoader(fs, jsonAdapter).Load(cfg.FederationPath)
	if err != nil {
		log.Fatal("Failed to load federation", zap.Error(err), zap.String("path", cfg.FederationPath))
	}

	op, err := readOperation(*opFile, fs)
	if err != nil {
		log.Fatal("Failed to read operation", zap.Error(err))
	}

	httpClient := adapter.NewHTTPClient(cfg.HTTPTimeout, adapter.DefaultRetryConfig, log.Logger)
	members := federation.Members()
	endpoints := make([]proof.Endpoint, 0, len(members))
	for _, member := range members {
		endpoints = append(endpoints, proof.NewHTTPEndpoint(member.Endpoint, httpClient))
	}

	collector := proof.NewCollector(proof.Config{
		AllowedSigners: federation.Signers(),
	}, log.Logger)
	defer collector.Stop()

	log.Info("Collecting proofs",
		zap.String("kind", string(op.Kind)),
		zap.String("trigger_hash", op.TriggerHash),
		zap.Int("members", len(members)),
		zap.Int("threshold", federation.Threshold()),
	)

	quorum, err := collector.Collect(ctx, op, endpoints, federation.Threshold(), cfg.Timeout)
	complete := err == nil
	if err != nil {
		var notReached *domain.QuorumNotReachedError
		if !errors.As(err, &notReached) {
			log.Fatal("Failed to collect proofs", zap.Error(err))
		}
		log.Error("Quorum not reached", zap.Int("collected", notReached.Partial.Len()), zap.Int("threshold", notReached.Threshold))
		quorum = notReached.Partial
	}

	if err := printQuorum(os.Stdout, quorum, federation.Threshold(), complete); err != nil {
		log.Fatal("Failed to print proof", zap.Error(err))
	}
	if !complete {
		log.Flush(2 * time.Second)
		os.Exit(1)
	}
}

func readOperation(path string, fs adapter.FileSystem) (domain.Operation, error) {
	var op domain.Operation

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = fs.ReadFile(path)
	}
	if err != nil {
		return op, err
	}

	if err := json.Unmarshal(data, &op); err != nil {
		return op, fmt.Errorf("invalid operation json: %w", err)
	}
	return op, nil
}

func printQuorum(w io.Writer, quorum *domain.QuorumProof, threshold int, complete bool) error {
	out := quorumOutput{
		Kind:        quorum.Kind,
		TriggerHash: quorum.TriggerHash,
		Digest:      quorum.Digest.Hex(),
		Threshold:   threshold,
		Complete:    complete,
		Proofs:      make([]proof.SignatureResponse, 0, quorum.Len()),
	}
	for _, p := range quorum.Proofs {
		out.Proofs = append(out.Proofs, proof.NewSignatureResponse(quorum.Digest, p))
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
