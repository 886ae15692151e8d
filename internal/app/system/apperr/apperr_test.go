package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindUnknown},
		{"plain", errors.New("boom"), KindUnknown},
		{"auth", AuthenticationError{}, KindAuthentication},
		{"duplicate", DuplicateEmailError{Email: "a@b.co"}, KindDuplicateEmail},
		{"permission", PermissionError{Action: "delete article"}, KindPermission},
		{"validation", &ValidationError{Fields: map[string]string{"title": "too short"}}, KindValidation},
		{"not found", NotFoundError{Entity: "article"}, KindNotFound},
		{"invalid state", InvalidStateError{Entity: "request", From: "approved", To: "rejected"}, KindInvalidState},
		{"store", &StoreError{Op: "insert", Err: errors.New("down")}, KindStore},
		{"wrapped", fmt.Errorf("context: %w", PermissionError{}), KindPermission},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStore_WrapsOnlyUnclassified(t *testing.T) {
	if Store("op", nil) != nil {
		t.Fatal("expected nil for nil error")
	}

	cause := errors.New("connection reset")
	err := Store("insert article", cause)
	if !Is(err, KindStore) {
		t.Fatalf("expected store kind, got %q", KindOf(err))
	}
	if !errors.Is(err, cause) {
		t.Error("expected StoreError to unwrap to its cause")
	}

	nf := NotFoundError{Entity: "user"}
	if got := Store("find user", nf); got != error(nf) {
		t.Errorf("expected classified error to pass through, got %v", got)
	}
}

func TestValidationError_FirstMessageWins(t *testing.T) {
	var v ValidationError
	if v.OrNil() != nil {
		t.Fatal("empty ValidationError should be nil")
	}
	v.Add("title", "required")
	v.Add("title", "too short")
	v.Add("content", "too short")

	if v.Fields["title"] != "required" {
		t.Errorf("title: got %q, want %q", v.Fields["title"], "required")
	}
	if v.OrNil() == nil {
		t.Fatal("expected non-nil error after Add")
	}
	want := "validation failed: content: too short; title: required"
	if v.Error() != want {
		t.Errorf("Error() = %q, want %q", v.Error(), want)
	}
}
