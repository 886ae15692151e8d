// internal/app/features/errors/render.go
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dalemusser/ideahub/internal/app/system/apperr"
	"github.com/dalemusser/ideahub/internal/app/system/limits"
)

// Body is the error response shape.
type Body struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// StatusFor maps an application error to its HTTP status.
func StatusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindAuthentication:
		return http.StatusUnauthorized
	case apperr.KindDuplicateEmail:
		return http.StatusConflict
	case apperr.KindPermission:
		return http.StatusForbidden
	case apperr.KindValidation:
		return http.StatusUnprocessableEntity
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidState:
		return http.StatusConflict
	case apperr.KindStore:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// bodyFor builds the response for err. Store and unclassified errors get a
// generic message so internals are not leaked.
func bodyFor(err error) Body {
	switch apperr.KindOf(err) {
	case apperr.KindStore:
		return Body{Error: "the service is temporarily unavailable"}
	case apperr.KindUnknown:
		return Body{Error: "internal error"}
	case apperr.KindValidation:
		var verr *apperr.ValidationError
		if errors.As(err, &verr) {
			return Body{Error: "validation failed", Fields: verr.Fields}
		}
	}
	return Body{Error: err.Error()}
}

// DecodeJSON reads a JSON body into v. Unknown fields are rejected.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limits.MaxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body is empty")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
