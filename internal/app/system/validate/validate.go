// Package validate holds the field rules applied to registration, article and
// profile input before anything is written.
package validate

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Limits used by the forms.
const (
	MinPasswordLen = 6
	MinTitleLen    = 5
	MinContentLen  = 50
	MinReadTime    = 1
	MaxNameLen     = 200
	MaxBiography   = 2000
)

// IsValidEmail reports whether s is a bare address (no display name) with a
// non-empty local part and domain, and no empty dot-separated labels.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	local, domain := s[:at], s[at+1:]
	return validDotted(local) && validDotted(domain)
}

func validDotted(s string) bool {
	for _, part := range strings.Split(s, ".") {
		if part == "" {
			return false
		}
	}
	return true
}

// Length returns the number of characters in s after trimming whitespace.
func Length(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

// PasswordOK reports whether the password meets the minimum length.
func PasswordOK(pw string) bool {
	return utf8.RuneCountInString(pw) >= MinPasswordLen
}
