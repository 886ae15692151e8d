// Package authutil holds password rules and hashing for local accounts.
package authutil

import (
	"fmt"
	"unicode/utf8"

	"github.com/dalemusser/ideahub/internal/app/system/validate"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// DefaultCost is the bcrypt cost used when none is configured.
const DefaultCost = 12

var (
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", validate.MinPasswordLen)
	ErrPasswordTooLong  = fmt.Errorf("password must be at most %d bytes", MaxPasswordBytes)
)

// ValidatePassword checks pw against the length rules.
func ValidatePassword(pw string) error {
	if utf8.RuneCountInString(pw) < validate.MinPasswordLen {
		return ErrPasswordTooShort
	}
	if len(pw) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

// PasswordRules describes the rules for display next to the form.
func PasswordRules() string {
	return fmt.Sprintf("At least %d characters.", validate.MinPasswordLen)
}

// HashPassword hashes pw with DefaultCost.
func HashPassword(pw string) (string, error) {
	return HashPasswordCost(pw, DefaultCost)
}

// HashPasswordCost hashes pw with the given bcrypt cost. Costs outside
// bcrypt's range fall back to DefaultCost.
func HashPasswordCost(pw string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPassword reports whether pw matches hash. A malformed hash never
// matches.
func CheckPassword(pw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
