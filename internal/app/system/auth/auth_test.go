package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/ideahub/internal/app/system/auth"
	"github.com/dalemusser/ideahub/internal/app/system/authz"
	"github.com/dalemusser/ideahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type mapFetcher struct {
	users map[string]models.User
	err   error
}

func (f *mapFetcher) FetchUser(_ context.Context, id string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func newFetcher(users ...models.User) *mapFetcher {
	f := &mapFetcher{users: map[string]models.User{}}
	for _, u := range users {
		f.users[u.ID.Hex()] = u
	}
	return f
}

func user(role string, approved bool) models.User {
	return models.User{ID: primitive.NewObjectID(), FullName: "Test " + role, Email: role + "@x.org", Role: role, IsApproved: approved}
}

func newTestSessionManager(t *testing.T, f auth.UserFetcher) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		f,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := auth.NewSessionManager("", "x", "", time.Hour, false, nil, zap.NewNop()); err == nil {
		t.Error("expected error for empty session key")
	}
}

func TestSession_SetRestoreClear(t *testing.T) {
	u := user(models.RoleVisitor, true)
	p := &auth.MemoryPersister{}
	s := auth.NewSession(p, newFetcher(u), zap.NewNop())

	if _, ok := s.Principal(); ok {
		t.Fatal("new session should be signed out")
	}
	if err := s.Set(u); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if p.ID != u.ID.Hex() {
		t.Errorf("persisted id = %q", p.ID)
	}

	restored := auth.NewSession(p, newFetcher(u), zap.NewNop())
	if err := restored.Restore(context.Background()); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	got, ok := restored.Principal()
	if !ok || got.UserID != u.ID {
		t.Fatalf("restored principal = %+v, %v", got, ok)
	}

	restored.Clear()
	if _, ok := restored.Principal(); ok {
		t.Error("session should be signed out after Clear")
	}
	if p.ID != "" {
		t.Error("persisted id should be cleared")
	}
}

func TestSession_RestoreSeesFreshRole(t *testing.T) {
	u := user(models.RoleVolunteer, false)
	f := newFetcher(u)
	p := &auth.MemoryPersister{ID: u.ID.Hex()}

	s := auth.NewSession(p, f, nil)
	_ = s.Restore(context.Background())
	pr, _ := s.Principal()
	if authz.CanManageArticles(pr.Account) {
		t.Fatal("pending volunteer should not manage articles")
	}

	u.IsApproved = true
	f.users[u.ID.Hex()] = u

	s = auth.NewSession(p, f, nil)
	_ = s.Restore(context.Background())
	pr, _ = s.Principal()
	if !authz.CanManageArticles(pr.Account) {
		t.Error("approval should be effective on the next restore")
	}
}

func TestSession_RestoreUnknownUserClears(t *testing.T) {
	p := &auth.MemoryPersister{ID: primitive.NewObjectID().Hex()}
	s := auth.NewSession(p, newFetcher(), nil)
	if err := s.Restore(context.Background()); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if _, ok := s.Principal(); ok {
		t.Error("unknown user should leave session signed out")
	}
	if p.ID != "" {
		t.Error("unknown user should clear the persisted id")
	}
}

func TestSession_RestoreFetchError(t *testing.T) {
	p := &auth.MemoryPersister{ID: primitive.NewObjectID().Hex()}
	s := auth.NewSession(p, &mapFetcher{err: errors.New("db down")}, nil)
	if err := s.Restore(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}
	if p.ID == "" {
		t.Error("a fetch error must not clear the persisted session")
	}
}

func TestFromRequest_WithoutMiddleware(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	s := auth.FromRequest(r)
	if s == nil {
		t.Fatal("expected a session")
	}
	if v := s.Viewer(); v.Account != (authz.Visitor{}) {
		t.Errorf("anonymous viewer = %+v", v)
	}
}

// TestCookieRoundTrip signs in through one request and restores the
// session from the cookie on the next.
func TestCookieRoundTrip(t *testing.T) {
	u := user(models.RoleAdmin, true)
	sm := newTestSessionManager(t, newFetcher(u))

	login := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", nil)
	if err := sm.Session(login, req).Set(u); err != nil {
		t.Fatalf("Set: %v", err)
	}
	cookies := login.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	var seen authz.Principal
	h := sm.LoadSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.FromRequest(r).Principal()
	}))
	next := httptest.NewRequest("GET", "/auth/me", nil)
	for _, c := range cookies {
		next.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), next)

	if seen.UserID != u.ID {
		t.Errorf("restored user = %v, want %v", seen.UserID, u.ID)
	}
	if _, ok := seen.Account.(authz.Admin); !ok {
		t.Errorf("account = %T, want Admin", seen.Account)
	}
}

func TestCookieClearExpires(t *testing.T) {
	u := user(models.RoleVisitor, true)
	sm := newTestSessionManager(t, newFetcher(u))

	rec := httptest.NewRecorder()
	sm.Session(rec, httptest.NewRequest("POST", "/auth/logout", nil)).Clear()

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("expected an expired cookie, got %+v", cookies)
	}
}

func TestGates(t *testing.T) {
	sm := newTestSessionManager(t, newFetcher())
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name   string
		gate   func(http.Handler) http.Handler
		user   *models.User
		status int
	}{
		{"signed in: anonymous", sm.RequireSignedIn, nil, http.StatusUnauthorized},
		{"signed in: visitor", sm.RequireSignedIn, ptr(user(models.RoleVisitor, true)), http.StatusOK},
		{"manager: anonymous", sm.RequireManager, nil, http.StatusUnauthorized},
		{"manager: visitor", sm.RequireManager, ptr(user(models.RoleVisitor, true)), http.StatusForbidden},
		{"manager: pending volunteer", sm.RequireManager, ptr(user(models.RoleVolunteer, false)), http.StatusForbidden},
		{"manager: volunteer", sm.RequireManager, ptr(user(models.RoleVolunteer, true)), http.StatusOK},
		{"manager: admin", sm.RequireManager, ptr(user(models.RoleAdmin, true)), http.StatusOK},
		{"admin: volunteer", sm.RequireAdmin, ptr(user(models.RoleVolunteer, true)), http.StatusForbidden},
		{"admin: pending admin", sm.RequireAdmin, ptr(user(models.RoleAdmin, false)), http.StatusForbidden},
		{"admin: admin", sm.RequireAdmin, ptr(user(models.RoleAdmin, true)), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/x", nil)
			if tt.user != nil {
				s := auth.NewSession(&auth.MemoryPersister{}, nil, nil)
				_ = s.Set(*tt.user)
				req = auth.WithSession(req, s)
			}
			rec := httptest.NewRecorder()
			tt.gate(ok).ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func ptr(u models.User) *models.User { return &u }
