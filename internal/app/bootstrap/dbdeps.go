// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/ideahub/internal/app/system/imagestore"
	"github.com/dalemusser/ideahub/internal/app/system/notify"
	"github.com/dalemusser/ideahub/internal/app/system/ratelimit"
	"github.com/dalemusser/ideahub/internal/app/system/workers"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
// Everything here is connected in ConnectDB and released in Shutdown.
type DBDeps struct {
	IdeaHubMongoClient   *mongo.Client
	IdeaHubMongoDatabase *mongo.Database

	// Redis is set when ratelimit_type is redis.
	Redis *redis.Client
	// Limiter is the in-process limiter when ratelimit_type is memory.
	Limiter *ratelimit.Limiter
	// RateLimit is whichever of the two backends is active.
	RateLimit ratelimit.Backend

	// Publisher is set when notify_type is amqp.
	Publisher *notify.Publisher
	// Notifications delivers admin notices off the request path.
	Notifications *workers.NotifyDispatcher

	// Images stores uploaded article images. LocalImages is set when
	// storage_type is local so BuildHandler can serve the files.
	Images      imagestore.Store
	LocalImages *imagestore.Local
}
