// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"github.com/edsonjmoreira/bi-portal/internal/app/store/mongostore"
	"github.com/edsonjmoreira/bi-portal/internal/app/store/sqlitestore"
	"go.uber.org/zap"
)

// ConnectDB opens the storage backend selected in config. Both backends
// satisfy the same store.Store contract; nothing past this function
// knows which one is running.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	switch appCfg.StoreBackend {
	case "mongo":
		logger.Info("connecting MongoDB store",
			zap.String("database", appCfg.MongoDatabase))
		st, err := mongostore.Connect(ctx, appCfg.MongoURI, appCfg.MongoDatabase,
			appCfg.MongoMaxPoolSize, appCfg.MongoMinPoolSize)
		if err != nil {
			return DBDeps{}, fmt.Errorf("connect mongo store: %w", err)
		}
		return DBDeps{Store: st}, nil

	case "sqlite":
		logger.Info("opening SQLite store", zap.String("path", appCfg.SQLitePath))
		st, err := sqlitestore.Open(appCfg.SQLitePath)
		if err != nil {
			return DBDeps{}, fmt.Errorf("open sqlite store: %w", err)
		}
		return DBDeps{Store: st}, nil
	}

	// ValidateConfig rejects anything else before we get here.
	return DBDeps{}, fmt.Errorf("unknown store_backend %q", appCfg.StoreBackend)
}

// EnsureSchema creates indexes (mongo) or tables (sqlite) as needed.
// Idempotent; runs on every startup.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	return deps.Store.EnsureSchema(ctx)
}
