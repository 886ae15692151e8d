package errors_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apierrors "github.com/dalemusser/ideahub/internal/app/features/errors"
	"github.com/dalemusser/ideahub/internal/app/system/apperr"
	"github.com/dalemusser/ideahub/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStatusFor(t *testing.T) {
	verr := &apperr.ValidationError{}
	verr.Add("title", "too short")

	tests := []struct {
		err  error
		want int
	}{
		{apperr.AuthenticationError{}, http.StatusUnauthorized},
		{apperr.DuplicateEmailError{Email: "a@b.c"}, http.StatusConflict},
		{apperr.PermissionError{}, http.StatusForbidden},
		{verr, http.StatusUnprocessableEntity},
		{apperr.NotFoundError{Entity: "article"}, http.StatusNotFound},
		{apperr.InvalidStateError{Entity: "article"}, http.StatusConflict},
		{apperr.Store("op", errors.New("down")), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := apierrors.StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestErrorLogger_Write(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := apierrors.NewErrorLogger(zap.New(core))
	req := httptest.NewRequest(http.MethodPost, "/articles", nil)

	verr := &apperr.ValidationError{}
	verr.Add("title", "too short")
	rec := testutil.NewRecorder()
	l.Write(rec, req, "create article", verr)
	rec.AssertStatus(t, http.StatusUnprocessableEntity)

	var body apierrors.Body
	rec.DecodeJSON(t, &body)
	if body.Fields["title"] != "too short" {
		t.Errorf("fields = %v", body.Fields)
	}

	rec = testutil.NewRecorder()
	l.Write(rec, req, "create article", apperr.Store("insert", errors.New("connection reset by peer")))
	rec.AssertStatus(t, http.StatusServiceUnavailable)
	if strings.Contains(rec.Body.String(), "connection reset") {
		t.Error("store error details must not be returned to clients")
	}
	if logs.FilterMessage("create article failed").Len() != 1 {
		t.Error("expected store failure to be logged at error level")
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	if err := apierrors.DecodeJSON(httptest.NewRecorder(), req, &v); err != nil || v.Name != "x" {
		t.Errorf("DecodeJSON = %v, %+v", err, v)
	}

	for _, body := range []string{"", "{", `{"nope":1}`} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		if err := apierrors.DecodeJSON(httptest.NewRecorder(), req, &v); err == nil {
			t.Errorf("DecodeJSON(%q) should fail", body)
		}
	}
}

func TestHandler_Fallbacks(t *testing.T) {
	h := apierrors.NewHandler()

	rec := testutil.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	rec.AssertStatus(t, http.StatusNotFound)

	rec = testutil.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodPatch, "/articles", nil))
	rec.AssertStatus(t, http.StatusMethodNotAllowed)
}
