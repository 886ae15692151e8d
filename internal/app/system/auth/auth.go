package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/ideahub/internal/app/system/authz"
	"github.com/dalemusser/ideahub/internal/domain/models"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Persistence                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// Persister stores the signed-in user id across requests.
type Persister interface {
	// LoadUserID returns the persisted id and whether one was present.
	LoadUserID() (string, bool, error)
	SaveUserID(id string) error
	Clear() error
}

// CookiePersister keeps the user id in a signed gorilla session cookie.
// It is bound to one request/response pair.
type CookiePersister struct {
	store sessions.Store
	name  string
	w     http.ResponseWriter
	r     *http.Request
	log   *zap.Logger
}

// session returns the named session. A cookie that fails to decode (for
// example after a key rotation) yields a fresh session.
func (p *CookiePersister) session() *sessions.Session {
	sess, err := p.store.Get(p.r, p.name)
	if err != nil {
		var scErr securecookie.Error
		if errors.As(err, &scErr) && scErr.IsDecode() {
			p.log.Warn("session cookie invalid, using fresh session", zap.Error(err))
		} else {
			p.log.Error("session store error, using fresh session", zap.Error(err))
		}
	}
	return sess
}

// LoadUserID implements Persister.
func (p *CookiePersister) LoadUserID() (string, bool, error) {
	sess := p.session()
	if isAuth, _ := sess.Values[isAuthKey].(bool); !isAuth {
		return "", false, nil
	}
	id, _ := sess.Values[userIDKey].(string)
	return id, id != "", nil
}

// SaveUserID implements Persister.
func (p *CookiePersister) SaveUserID(id string) error {
	sess := p.session()
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = id
	if err := sess.Save(p.r, p.w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear implements Persister by expiring the cookie.
func (p *CookiePersister) Clear() error {
	sess := p.session()
	delete(sess.Values, isAuthKey)
	delete(sess.Values, userIDKey)
	sess.Options.MaxAge = -1
	if err := sess.Save(p.r, p.w); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// MemoryPersister holds the id in memory. Used by tests and by requests
// that arrive without session middleware.
type MemoryPersister struct {
	ID string
}

func (m *MemoryPersister) LoadUserID() (string, bool, error) { return m.ID, m.ID != "", nil }
func (m *MemoryPersister) SaveUserID(id string) error         { m.ID = id; return nil }
func (m *MemoryPersister) Clear() error                       { m.ID = ""; return nil }

/*─────────────────────────────────────────────────────────────────────────────*
| Session                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// UserFetcher loads the current state of a user. It returns (nil, nil)
// when no such user exists.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) (*models.User, error)
}

// Session is the signed-in user for one request. It is created empty,
// initialized with Restore, changed with Set, and torn down with Clear.
type Session struct {
	persist Persister
	fetch   UserFetcher
	log     *zap.Logger
	user    *models.User
}

// NewSession builds an empty session. fetch may be nil when Restore is
// never called.
func NewSession(p Persister, fetch UserFetcher, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{persist: p, fetch: fetch, log: logger}
}

// Restore loads the persisted user id and fetches the user fresh, so role
// or approval changes take effect on the next request. An id that no
// longer resolves to a user clears the persisted session. A fetch failure
// is returned and leaves the session signed out for this request.
func (s *Session) Restore(ctx context.Context) error {
	s.user = nil
	id, ok, err := s.persist.LoadUserID()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if s.fetch == nil {
		return errors.New("auth: session has no user fetcher")
	}

	u, err := s.fetch.FetchUser(ctx, id)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if u == nil {
		s.log.Info("persisted session references unknown user, clearing", zap.String("user_id", id))
		return s.persist.Clear()
	}
	s.user = u
	return nil
}

// Set makes u the signed-in user and persists it.
func (s *Session) Set(u models.User) error {
	if err := s.persist.SaveUserID(u.ID.Hex()); err != nil {
		return err
	}
	s.user = &u
	return nil
}

// Clear signs out. The in-request state is always cleared; a persistence
// error is logged.
func (s *Session) Clear() {
	s.user = nil
	if err := s.persist.Clear(); err != nil {
		s.log.Warn("failed to clear persisted session", zap.Error(err))
	}
}

// User returns the signed-in user.
func (s *Session) User() (models.User, bool) {
	if s == nil || s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// Principal returns the signed-in user's authorization view.
func (s *Session) Principal() (authz.Principal, bool) {
	u, ok := s.User()
	if !ok {
		return authz.Principal{}, false
	}
	return authz.PrincipalOf(u), true
}

// Viewer returns the principal, or an anonymous visitor when signed out.
func (s *Session) Viewer() authz.Principal {
	if p, ok := s.Principal(); ok {
		return p
	}
	return authz.Principal{Account: authz.Visitor{}}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Session manager & middleware                                                |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager builds per-request sessions over a cookie store.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	fetcher UserFetcher
	log     *zap.Logger
}

// NewSessionManager creates the cookie store. secure marks cookies Secure
// with SameSite=None; otherwise SameSite=Lax for local http development.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, fetcher UserFetcher, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		name = "ideahub-session"
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain),
		zap.Duration("max_age", maxAge))

	return &SessionManager{store: store, name: name, fetcher: fetcher, log: logger}, nil
}

// Session builds an unrestored session for the request.
func (sm *SessionManager) Session(w http.ResponseWriter, r *http.Request) *Session {
	p := &CookiePersister{store: sm.store, name: sm.name, w: w, r: r, log: sm.log}
	return NewSession(p, sm.fetcher, sm.log)
}

type ctxKey struct{}

// WithSession attaches s to the request context.
func WithSession(r *http.Request, s *Session) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ctxKey{}, s))
}

// FromRequest returns the request's session. Without LoadSession it
// returns a signed-out session that persists nothing beyond the request.
func FromRequest(r *http.Request) *Session {
	if s, ok := r.Context().Value(ctxKey{}).(*Session); ok {
		return s
	}
	return NewSession(&MemoryPersister{}, nil, nil)
}

// LoadSession restores the session and places it on the request context.
// Restore failures are logged and the request continues signed out.
func (sm *SessionManager) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := sm.Session(w, r)
		if err := s.Restore(r.Context()); err != nil {
			sm.log.Error("session restore failed", zap.Error(err))
		}
		next.ServeHTTP(w, WithSession(r, s))
	})
}

// RequireSignedIn responds 401 unless a user is signed in.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromRequest(r).Principal(); !ok {
			writeError(w, http.StatusUnauthorized, "sign in required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireManager responds 401 when signed out and 403 unless the user may
// manage articles (admin or approved volunteer).
func (sm *SessionManager) RequireManager(next http.Handler) http.Handler {
	return sm.require(authz.CanManageArticles, next)
}

// RequireAdmin responds 401 when signed out and 403 unless the user is an
// approved admin.
func (sm *SessionManager) RequireAdmin(next http.Handler) http.Handler {
	return sm.require(authz.CanModerate, next)
}

func (sm *SessionManager) require(allowed func(authz.Account) bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := FromRequest(r).Principal()
		if !ok {
			writeError(w, http.StatusUnauthorized, "sign in required")
			return
		}
		if !allowed(p.Account) {
			msg := "forbidden"
			if authz.IsPending(p.Account) {
				msg = "account pending approval"
			}
			writeError(w, http.StatusForbidden, msg)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
