package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"veritrust/internal/fraud"
	"veritrust/internal/ledger"
	ledgermetrics "veritrust/internal/ledger/metrics"
	ledgerstore "veritrust/internal/ledger/store"
	"veritrust/internal/ledger/stream"
	"veritrust/internal/platform/config"
	"veritrust/internal/platform/httpserver"
	"veritrust/internal/platform/kafka"
	"veritrust/internal/platform/logger"
	"veritrust/internal/platform/metrics"
	httptransport "veritrust/internal/transport/http"
	"veritrust/internal/verification"
	"veritrust/internal/verification/checkers"
	"veritrust/internal/verification/handler"
	verificationmetrics "veritrust/internal/verification/metrics"
	"veritrust/pkg/platform/circuit"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	shutdownTimeout   = 10 * time.Second
	topicSetupTimeout = 5 * time.Second
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// run wires high-level dependencies and owns the server lifecycle. Business
// logic lives in the internal service packages.
func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.DefaultRegisterer

	store := newLedger(cfg, log, ledgermetrics.New(reg))
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("failed to close ledger", "error", err)
		}
	}()

	opts := []verification.Option{
		verification.WithLogger(log),
		verification.WithMetrics(verificationmetrics.New(reg)),
	}
	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			return fmt.Errorf("create kafka producer: %w", err)
		}
		defer producer.Close()
		// Streaming is best effort, so a missing topic only warrants a warning.
		topicCtx, cancel := context.WithTimeout(ctx, topicSetupTimeout)
		if err := producer.EnsureTopic(topicCtx, 3, 1); err != nil {
			log.Warn("failed to ensure ledger topic", "topic", producer.Topic(), "error", err)
		}
		cancel()
		opts = append(opts, verification.WithPublisher(
			stream.New(producer, stream.WithTimeout(cfg.Kafka.PublishTimeout)),
		))
		log.Info("ledger stream enabled", "topic", producer.Topic(), "brokers", cfg.Kafka.Brokers)
	}

	svc, err := verification.New(
		checkers.NewFaceChecker(checkers.DefaultMatchThreshold),
		checkers.NewDocumentChecker(),
		checkers.NewRiskScorer(),
		store,
		fraud.New(store, fraud.WithLogger(log)),
		opts...,
	)
	if err != nil {
		return fmt.Errorf("build verification service: %w", err)
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:       log,
		Verification: handler.New(svc, log),
		Ledger:       store,
		Metrics:      metrics.New(reg),
		Version:      version,
		DisableAuth:  cfg.Server.DisableAuth,
	})
	srv := httpserver.New(cfg.Server.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting veritrust",
			"addr", cfg.Server.Addr,
			"env", cfg.Server.Env,
			"ledger_backend", cfg.Ledger.Backend,
			"auth_disabled", cfg.Server.DisableAuth,
			"version", version,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// newLedger builds the ledger store for the configured backend. Nothing is
// dialed here; the backend connects on first use.
func newLedger(cfg config.Config, log *slog.Logger, m *ledgermetrics.Metrics) *ledger.Store {
	breaker := circuit.New("ledger",
		circuit.WithFailureThreshold(cfg.Ledger.BreakerThreshold),
		circuit.WithCooldown(cfg.Ledger.BreakerCooldown),
	)
	return ledger.New(ledgerstore.Connector(cfg),
		ledger.WithLogger(log),
		ledger.WithMetrics(m),
		ledger.WithBreaker(breaker),
		ledger.WithFallbackCapacity(cfg.Ledger.FallbackCapacity),
		ledger.WithConnectTimeout(cfg.Ledger.ConnectTimeout),
		ledger.WithOpTimeout(cfg.Ledger.OpTimeout),
	)
}
