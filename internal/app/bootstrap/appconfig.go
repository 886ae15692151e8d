// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP ports,
// TLS, logging level and request body limits. AppConfig is where the
// IdeaHub backends, storage and account policy are configured.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI            string        // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase       string        // Database name within MongoDB
	MongoMaxPoolSize    uint64        // Max connection pool size
	MongoMinPoolSize    uint64        // Min connection pool size
	MongoConnectTimeout time.Duration // Connect + initial ping deadline

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: ideahub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Persisted session lifetime

	// Image storage configuration
	StorageType      string // Storage backend: "local" or "s3"
	StorageLocalPath string // Local storage root (e.g., "./uploads")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/files")

	// S3 configuration (only used if StorageType is "s3")
	StorageS3Region    string // AWS region
	StorageS3Bucket    string // S3 bucket name
	StorageS3Prefix    string // Key prefix (e.g., "ideahub/")
	StorageS3Endpoint  string // Custom endpoint for MinIO or another S3-compatible server
	StorageS3PublicURL string // Public base URL for objects (CDN); blank derives it from the bucket
	StorageS3AccessKey string // Static credentials; blank uses the default AWS chain
	StorageS3SecretKey string

	// Admin notification channel
	NotifyType         string        // "log" or "amqp"
	NotifyAMQPURL      string        // RabbitMQ URL
	NotifyAMQPExchange string        // Topic exchange for account events
	NotifyQueueSize    int           // Buffered events before new ones are dropped
	NotifyTimeout      time.Duration // Per-delivery deadline
	AdminNotifyEmail   string        // Address included in pending-registration notices

	// Rate limiting of login/register
	RateLimitType   string        // "memory" or "redis"
	RedisAddr       string        // Redis address (only used if RateLimitType is "redis")
	RedisPassword   string        // Redis password
	RedisDB         int           // Redis database number
	LoginRateLimit  int           // Attempts per window per client IP
	LoginRateWindow time.Duration // Window length

	// Articles
	ArticlesPageSize int // Default listArticles page size

	// Passwords
	BcryptCost int // bcrypt cost for new hashes

	// Timeouts applied around store calls from handlers
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	// Audit logging destinations per category: all, db, log, off
	AuditLogAuth    string
	AuditLogAdmin   string
	AuditLogContent string

	// Admin bootstrap (promotes/creates on startup)
	BootstrapAdminEmail    string
	BootstrapAdminPassword string
	BootstrapAdminName     string
}
