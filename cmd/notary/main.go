package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/feral-file/notary-bridge/internal/adapter"
	"github.com/feral-file/notary-bridge/internal/api/middleware"
	"github.com/feral-file/notary-bridge/internal/api/rest"
	"github.com/feral-file/notary-bridge/internal/api/server"
	"github.com/feral-file/notary-bridge/internal/block"
	"github.com/feral-file/notary-bridge/internal/config"
	"github.com/feral-file/notary-bridge/internal/extractor"
	"github.com/feral-file/notary-bridge/internal/governor"
	"github.com/feral-file/notary-bridge/internal/logger"
	"github.com/feral-file/notary-bridge/internal/metrics"
	"github.com/feral-file/notary-bridge/internal/notary"
	"github.com/feral-file/notary-bridge/internal/providers/ethereum"
	"github.com/feral-file/notary-bridge/internal/providers/jetstream"
	"github.com/feral-file/notary-bridge/internal/ratelimit"
	"github.com/feral-file/notary-bridge/internal/replay"
	"github.com/feral-file/notary-bridge/internal/signer"
	"github.com/feral-file/notary-bridge/internal/store"
	"github.com/feral-file/notary-bridge/internal/watcher"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadNotaryConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	log, err := logger.New(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "notary",
			"chain":   string(cfg.Ethereum.ChainID),
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Flush(2 * time.Second)
	log.Info("Starting notary", zap.String("chain", string(cfg.Ethereum.ChainID)))

	// Load the signing key first so a bad key fails before any connection is opened
	var keySigner *signer.KeySigner
	if cfg.Signer.PrivateKey != "" {
		keySigner, err = signer.NewKeySignerFromHex(cfg.Signer.PrivateKey)
	} else {
		keySigner, err = signer.NewKeySignerFromKeystore(cfg.Signer.KeystorePath, cfg.Signer.KeystorePassword)
	}
	if err != nil {
		log.Fatal("Failed to load signing key", zap.Error(err))
	}
	log.Info("Loaded signing key", zap.String("address", keySigner.Address().Hex()))

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		log.Fatal("Failed to configure connection pool", zap.Error(err))
	}
	if err := store.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	clockAdapter := adapter.NewClock()

	// Initialize store
	dataStore := store.NewPGStore(db, clockAdapter)

	// Seed the address pool
	if len(cfg.AddressPool.Addresses) > 0 {
		added, err := dataStore.AddFree(ctx, cfg.AddressPool.Addresses)
		if err != nil {
			log.Fatal("Failed to seed address pool", zap.Error(err))
		}
		log.Info("Seeded address pool", zap.Int("added", added), zap.Int("configured", len(cfg.AddressPool.Addresses)))
	}

	// Initialize adapters
	jsonAdapter := adapter.NewJSON()
	natsJS := adapter.NewNatsJetStream()

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Redis is optional unless it backs the replay guard
	var redisClient adapter.RedisClient
	if cfg.Redis.Addr != "" {
		redisClient = adapter.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Warn("Failed to close Redis client", zap.Error(err))
			}
		}()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			if cfg.Replay.Backend == config.ReplayBackendRedis {
				log.Fatal("Failed to connect to Redis", zap.Error(err), zap.String("addr", cfg.Redis.Addr))
			}
			log.Warn("Redis unreachable, rate limits fall back to local buckets", zap.Error(err))
		} else {
			log.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	// Initialize replay guard
	var guard replay.Guard
	switch cfg.Replay.Backend {
	case config.ReplayBackendRedis:
		guard = replay.NewRedisGuard(redisClient)
	case config.ReplayBackendMemory:
		log.Warn("Using in-memory replay guard, consumed triggers are forgotten on restart")
		guard = replay.NewMemoryGuard()
	default:
		guard = dataStore
	}

	// Initialize trigger verifier
	var verifier notary.TriggerVerifier
	if cfg.Ledger.VerifierURL != "" {
		httpClient := adapter.NewHTTPClient(cfg.Ledger.HTTPTimeout, adapter.DefaultRetryConfig, log.Logger)
		verifier = notary.NewHTTPTriggerVerifier(cfg.Ledger.VerifierURL, httpClient)
		log.Info("Trigger verification enabled", zap.String("url", cfg.Ledger.VerifierURL))
	} else {
		log.Warn("Ledger verifier disabled by ledger.allow_unverified, triggers are signed unchecked")
	}

	// Initialize signing service
	notaryService, err := notary.NewService(
		notary.Config{CacheSize: cfg.ProofCacheSize, AllowUnverified: cfg.Ledger.AllowUnverified},
		keySigner,
		guard,
		dataStore,
		verifier,
		clockAdapter,
		m,
		log.Logger,
	)
	if err != nil {
		log.Fatal("Failed to create notary service", zap.Error(err))
	}

	// Initialize ethereum client
	networkID, err := cfg.Ethereum.NetworkID()
	if err != nil {
		log.Fatal("Invalid chain id", zap.Error(err))
	}
	ethDialer := adapter.NewEthClientDialer()
	adapterEthClient, err := ethDialer.Dial(ctx, cfg.Ethereum.RPCURL)
	if err != nil {
		log.Fatal("Failed to dial Ethereum RPC", zap.Error(err))
	}
	defer adapterEthClient.Close()

	nodeChainID, err := adapterEthClient.ChainID(ctx)
	if err != nil {
		log.Fatal("Failed to read chain id from node", zap.Error(err))
	}
	if nodeChainID.Cmp(networkID) != 0 {
		log.Fatal("Node serves a different chain",
			zap.String("configured", networkID.String()),
			zap.String("node", nodeChainID.String()))
	}
	ethereumClient := ethereum.NewClient(cfg.Ethereum.ChainID, networkID, adapterEthClient, log.Logger)
	log.Info("Connected to Ethereum RPC", zap.String("chain_id", networkID.String()))

	// Initialize NATS publisher
	natsPublisher, err := jetstream.NewPublisher(
		ctx,
		jetstream.Config{
			URL:             cfg.NATS.URL,
			StreamName:      cfg.NATS.StreamName,
			MaxReconnects:   cfg.NATS.MaxReconnects,
			ReconnectWait:   cfg.NATS.ReconnectWait,
			ConnectionName:  cfg.NATS.ConnectionName,
			DuplicateWindow: cfg.NATS.DuplicateWindow,
		}, natsJS, jsonAdapter, log.Logger)
	if err != nil {
		log.Fatal("Failed to create NATS publisher", zap.Error(err), zap.String("url", cfg.NATS.URL))
	}
	defer natsPublisher.Close()
	log.Info("Connected to NATS JetStream", zap.String("stream", cfg.NATS.StreamName))

	// Initialize withdrawal limit governor
	var limitGovernor governor.Governor
	if cfg.Governor.Enabled {
		token := common.HexToAddress(cfg.Governor.TokenAddress)
		pool := common.HexToAddress(cfg.Governor.PoolAddress)
		limitGovernor, err = governor.NewGovernor(governor.Config{
			Asset:          cfg.Governor.Asset,
			Token:          token,
			Pool:           pool,
			TokenPrecision: cfg.Governor.TokenPrecision,
			Divisor:        cfg.Governor.Divisor,
			Precision:      cfg.Governor.Precision,
			Window:         cfg.Governor.Window,
		}, governor.NewBalanceSupplyReader(ethereumClient, token, pool), dataStore, m, log.Logger)
		if err != nil {
			log.Fatal("Failed to create withdrawal limit governor", zap.Error(err))
		}
		log.Info("Governing withdrawal limit", zap.String("asset", cfg.Governor.Asset))
	}

	// Initialize chain watcher
	headProvider := block.NewBlockHeadProvider(
		ethereum.NewEthereumBlockFetcher(adapterEthClient),
		block.Config{
			TTL:           cfg.Ethereum.BlockHeadTTL,
			StaleWindow:   cfg.Ethereum.BlockHeadStaleWindow,
			Confirmations: cfg.Ethereum.Confirmations,
		},
		clockAdapter,
		log.Logger,
	)
	eventExtractor := extractor.NewExtractor(ethereumClient, extractor.Config{
		NativeAsset:        cfg.Ethereum.NativeAsset,
		NativePrecision:    cfg.Ethereum.NativePrecision,
		ReceiptConcurrency: cfg.Ethereum.ReceiptConcurrency,
	}, log.Logger)
	chainWatcher := watcher.NewWatcher(
		watcher.Config{
			Chain:        cfg.Ethereum.ChainID,
			Master:       common.HexToAddress(cfg.Ethereum.MasterAddress),
			StartBlock:   cfg.Ethereum.StartBlock,
			PollInterval: cfg.Ethereum.PollInterval,
		},
		headProvider,
		ethereumClient,
		dataStore,
		eventExtractor,
		natsPublisher,
		limitGovernor,
		dataStore,
		clockAdapter,
		m,
		log.Logger,
	)

	// Initialize registration rate limiter
	registrationLimiter, err := ratelimit.NewLimiter(ratelimit.Config{
		Name:                "registrations",
		RequestsPerMinute:   cfg.RateLimit.RegistrationsPerMinute,
		Burst:               cfg.RateLimit.RegistrationsPerMinute,
		EnableLocalFallback: true,
	}, redisClient, clockAdapter, log.Logger)
	if err != nil {
		log.Fatal("Failed to create rate limiter", zap.Error(err))
	}

	// Create the API server
	handler := rest.NewHandler(notaryService, dataStore, limitGovernor, dataStore, m, log.Logger)
	srv, err := server.New(server.Config{
		Debug:          cfg.Debug,
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(cfg.Server.IdleTimeout) * time.Second,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
		},
	}, handler, registry, registrationLimiter, log.Logger)
	if err != nil {
		log.Fatal("Failed to create API server", zap.Error(err))
	}

	errCh := make(chan error, 2)

	// Start server in a goroutine
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- fmt.Errorf("server: %w", err)
		}
	}()

	// Start the watcher
	go func() {
		if err := chainWatcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("watcher: %w", err)
		}
	}()

	// Wait for interrupt signal or a component failure
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("Component stopped", zap.Error(err))
	}
	cancel()

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Notary stopped")
}
