package validation

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText trims surrounding space and puts text into NFC form
// so visually identical names compare equal.
func NormalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// ValidateName validates a display or full name
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return errors.New("name is required")
	}

	if utf8.RuneCountInString(trimmed) > 100 {
		return errors.New("name is too long (max 100 characters)")
	}

	return nil
}

// ValidateUsername validates a login name.
// Compatibility forms are folded first so "ｊｏｅ" and "joe" cannot both register.
func ValidateUsername(username string) error {
	if username == "" {
		return errors.New("username is required")
	}

	if norm.NFKC.String(username) != username {
		return errors.New("username contains unsupported characters")
	}

	if utf8.RuneCountInString(username) > 50 {
		return errors.New("username is too long (max 50 characters)")
	}

	for _, r := range username {
		if unicode.IsSpace(r) || unicode.IsControl(r) || r == '/' || r == '\\' {
			return errors.New("username must not contain spaces or slashes")
		}
	}

	return nil
}

// ValidateField bounds free-text profile fields such as phone or address.
func ValidateField(field, value string, maxLen int) error {
	if utf8.RuneCountInString(value) > maxLen {
		return errors.New(field + " is too long")
	}
	return nil
}
