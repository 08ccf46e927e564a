package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/feral-file/notary-bridge/internal/adapter"
	"github.com/feral-file/notary-bridge/internal/bridge"
	"github.com/feral-file/notary-bridge/internal/config"
	"github.com/feral-file/notary-bridge/internal/logger"
	"github.com/feral-file/notary-bridge/internal/metrics"
	"github.com/feral-file/notary-bridge/internal/webhook"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadEventBridgeConfig(*configFile, *envPath)
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
		Tags:            map[string]string{"service": "event-bridge"},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Flush(2 * time.Second)
	log.Info("Starting event bridge")

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Initialize the webhook deliverer
	httpClient := adapter.NewHTTPClient(cfg.Webhook.HTTPTimeout, adapter.DefaultRetryConfig, log.Logger)
	deliverer, err := webhook.NewDeliverer(webhook.Config{
		URL:    cfg.Webhook.URL,
		Secret: cfg.Webhook.Secret,
	}, httpClient, adapter.NewJSON(), adapter.NewClock())
	if err != nil {
		log.Fatal("Failed to create webhook deliverer", zap.Error(err))
	}

	// Create the event bridge
	eventBridge, err := bridge.NewBridge(bridge.Config{
		URL:            cfg.NATS.URL,
		StreamName:     cfg.NATS.StreamName,
		ConsumerName:   cfg.Consumer.Name,
		MaxReconnects:  cfg.NATS.MaxReconnects,
		ReconnectWait:  cfg.NATS.ReconnectWait,
		ConnectionName: cfg.NATS.ConnectionName,
		AckWaitTimeout: cfg.Consumer.AckWait,
		MaxDeliver:     cfg.Consumer.MaxDeliver,
		NakDelay:       cfg.Consumer.NakDelay,
		Workers:        cfg.Consumer.Workers,
	}, adapter.NewNatsJetStream(), deliverer, adapter.NewJSON(), m, log.Logger)
	if err != nil {
		log.Fatal("Failed to create event bridge", zap.Error(err))
	}
	defer eventBridge.Close()

	// Expose metrics
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()

	// Start the event bridge
	go func() {
		if err := eventBridge.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("bridge: %w", err)
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

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Metrics server forced to shutdown", zap.Error(err))
	}

	log.Info("Event bridge stopped")
}
