// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/ideahub/internal/app/store/audit"
	"github.com/dalemusser/ideahub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations for a category.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off"
)

// Config selects a destination per event category.
type Config struct {
	Auth    string
	Admin   string
	Content string
}

// ValidMode reports whether m is a known destination.
func ValidMode(m string) bool {
	switch m {
	case ModeAll, ModeDB, ModeLog, ModeOff:
		return true
	}
	return false
}

// Recorder persists audit events. *audit.Store satisfies it.
type Recorder interface {
	Log(ctx context.Context, event audit.Event) error
}

// Logger writes audit events to the recorder and to zap.
// A nil *Logger is a no-op.
type Logger struct {
	store  Recorder
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store Recorder, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

type requestMeta struct {
	ip        string
	userAgent string
}

type metaKey struct{}

// WithRequest attaches the client IP and user agent of r to ctx so events
// logged further down the call chain carry them.
func WithRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, metaKey{}, requestMeta{
		ip:        ratelimit.ClientIP(r),
		userAgent: r.UserAgent(),
	})
}

// Middleware applies WithRequest to every request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithRequest(r.Context(), r)))
	})
}

func metaFrom(ctx context.Context) requestMeta {
	m, _ := ctx.Value(metaKey{}).(requestMeta)
	return m
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

func (l *Logger) mode(category string) string {
	var m string
	switch category {
	case audit.CategoryAuth:
		m = l.config.Auth
	case audit.CategoryAdmin:
		m = l.config.Admin
	case audit.CategoryContent:
		m = l.config.Content
	}
	if m == "" {
		return ModeAll
	}
	return m
}

// Log records an event according to the category's configured mode.
// Store failures are logged and never returned.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}
	mode := l.mode(event.Category)
	if mode == ModeOff {
		return
	}

	meta := metaFrom(ctx)
	if event.IP == "" {
		event.IP = meta.ip
	}
	if event.UserAgent == "" {
		event.UserAgent = meta.userAgent
	}

	if mode == ModeAll || mode == ModeLog {
		l.logToZap(event)
	}
	if (mode == ModeAll || mode == ModeDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Authentication Events ---

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, userID primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		Success:   true,
		Details:   map[string]string{"email": email},
	})
}

// LoginFailedUserNotFound logs a login for an unknown email.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, email string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserNotFound,
		FailureReason: "user not found",
		Details:       map[string]string{"attempted_email": email},
	})
}

// LoginFailedWrongPassword logs a password mismatch for a known user.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, userID primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedWrongPassword,
		UserID:        &userID,
		FailureReason: "wrong password",
		Details:       map[string]string{"email": email},
	})
}

// RateLimited logs a rejected auth attempt.
func (l *Logger) RateLimited(ctx context.Context, route string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedRateLimit,
		FailureReason: "rate limited",
		Details:       map[string]string{"route": route},
	})
}

// Logout logs a sign-out. userID may be empty for anonymous logouts,
// which are not recorded.
func (l *Logger) Logout(ctx context.Context, userID string) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return
	}
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		UserID:    &oid,
		Success:   true,
	})
}

// Registered logs a new account.
func (l *Logger) Registered(ctx context.Context, userID primitive.ObjectID, role string, approved bool) {
	status := "approved"
	if !approved {
		status = "pending"
	}
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventRegistered,
		UserID:    &userID,
		Success:   true,
		Details:   map[string]string{"role": role, "status": status},
	})
}

// --- Admin Events ---

// RequestDecided logs an approval or rejection.
func (l *Logger) RequestDecided(ctx context.Context, actorID, userID, requestID primitive.ObjectID, approved bool) {
	typ := audit.EventRequestRejected
	if approved {
		typ = audit.EventRequestApproved
	}
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: typ,
		UserID:    &userID,
		ActorID:   &actorID,
		Success:   true,
		Details:   map[string]string{"request_id": requestID.Hex()},
	})
}

// AdminBootstrapped logs the seeded admin account.
func (l *Logger) AdminBootstrapped(ctx context.Context, userID primitive.ObjectID, created bool) {
	action := "promoted"
	if created {
		action = "created"
	}
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventAdminBootstrap,
		UserID:    &userID,
		Success:   true,
		Details:   map[string]string{"action": action},
	})
}

// --- Content Events ---

func (l *Logger) article(ctx context.Context, typ string, actorID, articleID primitive.ObjectID, status string) {
	details := map[string]string{"article_id": articleID.Hex()}
	if status != "" {
		details["status"] = status
	}
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryContent,
		EventType: typ,
		ActorID:   &actorID,
		Success:   true,
		Details:   details,
	})
}

// ArticleCreated logs a new article.
func (l *Logger) ArticleCreated(ctx context.Context, actorID, articleID primitive.ObjectID, status string) {
	l.article(ctx, audit.EventArticleCreated, actorID, articleID, status)
}

// ArticleUpdated logs an article edit.
func (l *Logger) ArticleUpdated(ctx context.Context, actorID, articleID primitive.ObjectID, status string) {
	l.article(ctx, audit.EventArticleUpdated, actorID, articleID, status)
}

// ArticleDeleted logs an article deletion.
func (l *Logger) ArticleDeleted(ctx context.Context, actorID, articleID primitive.ObjectID) {
	l.article(ctx, audit.EventArticleDeleted, actorID, articleID, "")
}
