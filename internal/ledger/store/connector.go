// Package store selects the durable ledger backend named by configuration.
package store

import (
	"veritrust/internal/ledger"
	"veritrust/internal/ledger/store/postgres"
	"veritrust/internal/ledger/store/redis"
	"veritrust/internal/platform/config"
)

// Connector returns the lazy connector for cfg.Ledger.Backend, or nil for
// BackendNone, which keeps the ledger in memory.
func Connector(cfg config.Config) ledger.Connector {
	switch cfg.Ledger.Backend {
	case config.BackendPostgres:
		return postgres.Connector(cfg.Ledger.DatabaseURL, cfg.Ledger.Table)
	case config.BackendRedis:
		return redis.Connector(cfg.Redis)
	default:
		return nil
	}
}
