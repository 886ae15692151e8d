// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown drains queued notifications, then tears down the backends and
// the MongoDB connection.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Notifications != nil {
		if err := deps.Notifications.Stop(ctx); err != nil {
			logger.Warn("notification queue not drained", zap.Error(err))
		}
	}
	return releaseDeps(ctx, deps, logger)
}

func releaseDeps(ctx context.Context, deps DBDeps, logger *zap.Logger) error {
	if deps.Publisher != nil {
		if err := deps.Publisher.Close(); err != nil {
			logger.Warn("amqp publisher close failed", zap.Error(err))
		}
	}
	if deps.Redis != nil {
		if err := deps.Redis.Close(); err != nil {
			logger.Warn("redis close failed", zap.Error(err))
		}
	}
	if deps.Limiter != nil {
		deps.Limiter.Close()
	}
	if deps.IdeaHubMongoClient != nil {
		logger.Info("disconnecting IdeaHub MongoDB client")
		if err := deps.IdeaHubMongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
