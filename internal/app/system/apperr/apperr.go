// Package apperr defines the error taxonomy shared by the account and article
// managers. Each error carries a Kind so the HTTP layer can map it to a status
// code without knowing the concrete type.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind classifies an application error.
type Kind string

const (
	KindUnknown        Kind = ""
	KindAuthentication Kind = "authentication"
	KindDuplicateEmail Kind = "duplicate_email"
	KindPermission     Kind = "permission"
	KindValidation     Kind = "validation"
	KindNotFound       Kind = "not_found"
	KindInvalidState   Kind = "invalid_state"
	KindStore          Kind = "store"
)

// kinded is implemented by every error type in this package.
type kinded interface {
	Kind() Kind
}

// KindOf returns the Kind of the first error in err's chain that has one.
func KindOf(err error) Kind {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindUnknown
}

// Is reports whether err (or anything it wraps) is of kind k.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// AuthenticationError means the supplied credentials did not match.
type AuthenticationError struct{}

func (AuthenticationError) Error() string { return "invalid credentials" }
func (AuthenticationError) Kind() Kind    { return KindAuthentication }

// DuplicateEmailError means a registration used an email that is taken.
type DuplicateEmailError struct {
	Email string
}

func (e DuplicateEmailError) Error() string {
	return "an account with this email already exists"
}
func (DuplicateEmailError) Kind() Kind { return KindDuplicateEmail }

// PermissionError means the actor's role or ownership does not allow the action.
type PermissionError struct {
	Action string
}

func (e PermissionError) Error() string {
	if e.Action == "" {
		return "permission denied"
	}
	return "permission denied: " + e.Action
}
func (PermissionError) Kind() Kind { return KindPermission }

// ValidationError holds per-field messages. It is returned before any store
// call is attempted.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
func (*ValidationError) Kind() Kind { return KindValidation }

// Add records a message for field. The first message for a field wins.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

// OrNil returns e when at least one field failed, nil otherwise.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// NotFoundError means a referenced entity does not exist (or is not visible).
type NotFoundError struct {
	Entity string
	ID     string
}

func (e NotFoundError) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}
func (NotFoundError) Kind() Kind { return KindNotFound }

// InvalidStateError means the requested transition is not allowed from the
// entity's current state.
type InvalidStateError struct {
	Entity string
	From   string
	To     string
}

func (e InvalidStateError) Error() string {
	return fmt.Sprintf("%s cannot move from %q to %q", e.Entity, e.From, e.To)
}
func (InvalidStateError) Kind() Kind { return KindInvalidState }

// StoreError wraps a failure of the persistent store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}
func (e *StoreError) Unwrap() error { return e.Err }
func (*StoreError) Kind() Kind      { return KindStore }

// Store wraps err as a StoreError for operation op. A nil err stays nil and an
// error that already carries a Kind is returned unchanged.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != KindUnknown {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
