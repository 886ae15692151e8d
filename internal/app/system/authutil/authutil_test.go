package authutil

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// Test password validation

func TestValidatePassword_Valid(t *testing.T) {
	validPasswords := []string{
		"secret",
		"secret1",
		"MyP@ssw0rd",
		"ümlaut", // 6 runes, 7 bytes
	}

	for _, pw := range validPasswords {
		if err := ValidatePassword(pw); err != nil {
			t.Errorf("expected %q to be valid, got error: %v", pw, err)
		}
	}
}

func TestValidatePassword_TooShort(t *testing.T) {
	shortPasswords := []string{
		"",
		"a",
		"abcde", // 5 chars, below minimum of 6
	}

	for _, pw := range shortPasswords {
		if err := ValidatePassword(pw); err != ErrPasswordTooShort {
			t.Errorf("expected ErrPasswordTooShort for %q, got %v", pw, err)
		}
	}
}

func TestValidatePassword_TooLong(t *testing.T) {
	if err := ValidatePassword(strings.Repeat("a", MaxPasswordBytes+1)); err != ErrPasswordTooLong {
		t.Errorf("expected ErrPasswordTooLong, got %v", err)
	}
	if err := ValidatePassword(strings.Repeat("a", MaxPasswordBytes)); err != nil {
		t.Errorf("expected password at max length to be valid, got %v", err)
	}
}

// Test password hashing

func TestHashPassword_DifferentHashesForSamePassword(t *testing.T) {
	password := "SecurePassword123"

	hash1, err := HashPasswordCost(password, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPasswordCost failed: %v", err)
	}
	hash2, err := HashPasswordCost(password, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPasswordCost failed: %v", err)
	}

	if hash1 == password || !strings.HasPrefix(hash1, "$2") {
		t.Errorf("unexpected hash %q", hash1)
	}
	// bcrypt uses random salt, so hashes should be different
	if hash1 == hash2 {
		t.Error("expected different hashes for same password (random salt)")
	}
}

func TestHashPasswordCost_OutOfRangeUsesDefault(t *testing.T) {
	hash, err := HashPasswordCost("secret1", 0)
	if err != nil {
		t.Fatalf("HashPasswordCost failed: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("Cost failed: %v", err)
	}
	if cost != DefaultCost {
		t.Errorf("cost = %d, want %d", cost, DefaultCost)
	}
}

// Test password checking

func TestCheckPassword(t *testing.T) {
	hash, err := HashPasswordCost("SecurePassword123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPasswordCost failed: %v", err)
	}

	tests := []struct {
		name string
		pw   string
		hash string
		want bool
	}{
		{"correct", "SecurePassword123", hash, true},
		{"incorrect", "WrongPassword456", hash, false},
		{"empty password", "", hash, false},
		{"invalid hash", "SecurePassword123", "not-a-valid-hash", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPassword(tt.pw, tt.hash); got != tt.want {
				t.Errorf("CheckPassword = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPasswordRules(t *testing.T) {
	if !strings.Contains(PasswordRules(), "6") {
		t.Errorf("expected PasswordRules to mention minimum length of 6, got %q", PasswordRules())
	}
}
