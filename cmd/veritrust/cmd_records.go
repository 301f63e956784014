package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"veritrust/internal/ledger"
	"veritrust/internal/ledger/models"
	ledgerstore "veritrust/internal/ledger/store"
	"veritrust/internal/platform/config"
	"veritrust/internal/platform/logger"
)

var recordsFlags struct {
	owner   string
	field   string
	value   string
	verbose bool
}

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List ledger records from the configured backend",
	Long: "records reads the durable ledger named by the service configuration\n" +
		"(LEDGER_BACKEND, DATABASE_URL, REDIS_URL, VERITRUST_CONFIG) and prints one\n" +
		"JSON record per line.",
	RunE: runRecords,
}

func init() {
	f := recordsCmd.Flags()
	f.StringVar(&recordsFlags.owner, "owner", "", "List every record of this owner")
	f.StringVar(&recordsFlags.field, "field", "", "Look up by an arbitrary field, e.g. id_hash")
	f.StringVar(&recordsFlags.value, "value", "", "Value to match with --field")
	f.BoolVarP(&recordsFlags.verbose, "verbose", "v", false, "Log ledger connection events to stderr")
	recordsCmd.MarkFlagsOneRequired("owner", "field")
	recordsCmd.MarkFlagsMutuallyExclusive("owner", "field")
	recordsCmd.MarkFlagsRequiredTogether("field", "value")
}

func runRecords(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	connect := ledgerstore.Connector(cfg)
	if connect == nil {
		return fmt.Errorf("ledger backend %q keeps records in memory only; nothing to read", cfg.Ledger.Backend)
	}

	level := "error"
	if recordsFlags.verbose {
		level = "debug"
	}
	log := logger.NewWithWriter(cmd.ErrOrStderr(), config.Log{Level: level, Format: "text"})

	store := ledger.New(connect,
		ledger.WithLogger(log),
		ledger.WithConnectTimeout(cfg.Ledger.ConnectTimeout),
		ledger.WithOpTimeout(cfg.Ledger.OpTimeout),
	)
	defer store.Close()

	field, value := models.FieldOwnerID, recordsFlags.owner
	if recordsFlags.field != "" {
		field, value = recordsFlags.field, recordsFlags.value
	}
	return listRecords(cmd.Context(), cmd, store, log, field, value)
}

type recordFinder interface {
	FindBy(ctx context.Context, field, value string) []models.Record
	Degraded() bool
}

func listRecords(ctx context.Context, cmd *cobra.Command, store recordFinder, log *slog.Logger, field, value string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	recs := store.FindBy(ctx, field, value)
	// A fresh process has an empty fallback buffer, so a degraded lookup
	// says nothing about the durable ledger.
	if store.Degraded() {
		return fmt.Errorf("ledger backend unavailable")
	}
	log.Debug("ledger lookup", "field", field, "value", value, "count", len(recs))

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	for i := range recs {
		if err := enc.Encode(&recs[i]); err != nil {
			return fmt.Errorf("encode record %s: %w", recs[i].ID, err)
		}
	}
	return nil
}
