package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/ideahub/internal/app/features/health"
	"github.com/dalemusser/ideahub/internal/testutil"
	"go.uber.org/zap"
)

type healthBody struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Message  string `json:"message"`
}

func serve(t *testing.T, h *health.Handler) (*httptest.ResponseRecorder, healthBody) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	health.Routes(h).ServeHTTP(rec, req)

	var body healthBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return rec, body
}

func TestServe_DatabaseConnected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := health.NewHandler(health.MongoPinger(db.Client()), zap.NewNop())

	rec, body := serve(t, handler)
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want %q", ct, "application/json")
	}
	if body.Status != "ok" || body.Database != "connected" {
		t.Errorf("body = %+v", body)
	}
}

func TestServe_DatabaseDown(t *testing.T) {
	down := health.PingerFunc(func(context.Context) error { return errors.New("server selection timeout") })
	handler := health.NewHandler(down, zap.NewNop())

	rec, body := serve(t, handler)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
	if body.Status != "error" || body.Database != "disconnected" || body.Message != "Database unavailable" {
		t.Errorf("body = %+v", body)
	}
}

func TestServe_StubUp(t *testing.T) {
	up := health.PingerFunc(func(context.Context) error { return nil })
	rec, body := serve(t, health.NewHandler(up, zap.NewNop()))
	if rec.Code != http.StatusOK || body.Status != "ok" {
		t.Errorf("got %d %+v", rec.Code, body)
	}
}
