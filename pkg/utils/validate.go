package utils

import (
	"regexp"
	"unicode/utf16"
)

const MinPasswordLength = 6

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidEmail reports whether email has the local@domain.tld shape.
func ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// PasswordLength counts UTF-16 code units, so characters outside the BMP
// count twice and multi-byte UTF-8 characters count once.
func PasswordLength(password string) int {
	n := 0
	for _, r := range password {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

// PasswordTooShort reports whether password has fewer than MinPasswordLength
// characters.
func PasswordTooShort(password string) bool {
	return PasswordLength(password) < MinPasswordLength
}

// Field pairs a request field name with its submitted value.
type Field struct {
	Name  string
	Value string
}

// MissingFields returns the names of every empty field, in the given order.
func MissingFields(fields ...Field) []string {
	var missing []string
	for _, f := range fields {
		if f.Value == "" {
			missing = append(missing, f.Name)
		}
	}
	return missing
}
