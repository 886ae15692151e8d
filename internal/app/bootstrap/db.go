// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	auditstore "github.com/dalemusser/ideahub/internal/app/store/audit"
	approvalstore "github.com/dalemusser/ideahub/internal/app/store/approvals"
	articlestore "github.com/dalemusser/ideahub/internal/app/store/articles"
	userstore "github.com/dalemusser/ideahub/internal/app/store/users"
	"github.com/dalemusser/ideahub/internal/app/system/imagestore"
	"github.com/dalemusser/ideahub/internal/app/system/notify"
	"github.com/dalemusser/ideahub/internal/app/system/ratelimit"
	"github.com/dalemusser/ideahub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB connects MongoDB and the optional backends selected by config.
// A failure part way through releases what was already connected.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	var deps DBDeps

	cctx, cancel := context.WithTimeout(ctx, appCfg.MongoConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)
	client, err := mongo.Connect(cctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(cctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("ping mongo: %w", err)
	}
	deps.IdeaHubMongoClient = client
	deps.IdeaHubMongoDatabase = client.Database(appCfg.MongoDatabase)
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	fail := func(err error) (DBDeps, error) {
		releaseDeps(context.Background(), deps, logger)
		return DBDeps{}, err
	}

	switch appCfg.RateLimitType {
	case "redis":
		rc := redis.NewClient(&redis.Options{
			Addr:     appCfg.RedisAddr,
			Password: appCfg.RedisPassword,
			DB:       appCfg.RedisDB,
		})
		if err := rc.Ping(cctx).Err(); err != nil {
			_ = rc.Close()
			return fail(fmt.Errorf("ping redis: %w", err))
		}
		deps.Redis = rc
		deps.RateLimit = ratelimit.NewRedis(rc, "ideahub:rl:", appCfg.LoginRateLimit, appCfg.LoginRateWindow)
		logger.Info("rate limiting via redis", zap.String("addr", appCfg.RedisAddr))
	default:
		deps.Limiter = ratelimit.New(appCfg.LoginRateLimit, appCfg.LoginRateWindow)
		deps.RateLimit = deps.Limiter
	}

	var notifier notify.Notifier = notify.LogNotifier{Log: logger}
	if appCfg.NotifyType == "amqp" {
		pub, err := notify.NewPublisher(appCfg.NotifyAMQPURL, appCfg.NotifyAMQPExchange)
		if err != nil {
			return fail(err)
		}
		deps.Publisher = pub
		notifier = pub
		logger.Info("admin notifications via amqp", zap.String("exchange", appCfg.NotifyAMQPExchange))
	}
	deps.Notifications = workers.NewNotifyDispatcher(notifier, logger, appCfg.NotifyQueueSize, appCfg.NotifyTimeout)

	switch appCfg.StorageType {
	case "s3":
		s3store, err := imagestore.NewS3(imagestore.S3Config{
			Region:    appCfg.StorageS3Region,
			Bucket:    appCfg.StorageS3Bucket,
			Prefix:    appCfg.StorageS3Prefix,
			Endpoint:  appCfg.StorageS3Endpoint,
			AccessKey: appCfg.StorageS3AccessKey,
			SecretKey: appCfg.StorageS3SecretKey,
			PublicURL: appCfg.StorageS3PublicURL,
		})
		if err != nil {
			return fail(err)
		}
		deps.Images = s3store
	default:
		local, err := imagestore.NewLocal(appCfg.StorageLocalPath, appCfg.StorageLocalURL)
		if err != nil {
			return fail(err)
		}
		deps.Images = local
		deps.LocalImages = local
	}

	return deps, nil
}

// EnsureSchema creates the indexes every store relies on.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.IdeaHubMongoDatabase
	steps := []struct {
		name   string
		ensure func(context.Context) error
	}{
		{"users", userstore.New(db).EnsureIndexes},
		{"articles", articlestore.New(db).EnsureIndexes},
		{"approval_requests", approvalstore.New(db).EnsureIndexes},
		{"audit_events", auditstore.New(db).EnsureIndexes},
	}
	for _, s := range steps {
		if err := s.ensure(ctx); err != nil {
			logger.Error("ensure indexes failed", zap.String("collection", s.name), zap.Error(err))
			return fmt.Errorf("ensure %s indexes: %w", s.name, err)
		}
	}
	logger.Info("indexes ensured")
	return nil
}
