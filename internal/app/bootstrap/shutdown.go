// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown cleanly tears down the storage backend.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Store != nil {
		logger.Info("closing storage backend")
		if err := deps.Store.Close(ctx); err != nil {
			logger.Error("store close failed", zap.Error(err))
			return err
		}
	}
	return nil
}
