// internal/app/system/inputval/inputval.go
package inputval

import (
	"net/mail"
	"strings"
)

// IsValidEmail reports whether s is a bare addr-spec ("local@domain").
//
// Display-name forms ("Name <a@b.c>"), surrounding whitespace, quoted local
// parts and empty or dotted-edge labels are rejected. Single-label domains
// ("admin@mailserver") are accepted.
func IsValidEmail(s string) bool {
	if s == "" || strings.TrimSpace(s) != s {
		return false
	}
	if strings.ContainsAny(s, " \t\r\n\"<>") {
		return false
	}

	at := strings.LastIndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return false
	}
	if !validDotAtom(s[:at]) || !validDotAtom(s[at+1:]) {
		return false
	}

	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Name == "" && addr.Address == s
}

// validDotAtom rejects empty parts, leading/trailing dots and "..".
func validDotAtom(part string) bool {
	if part == "" || part[0] == '.' || part[len(part)-1] == '.' {
		return false
	}
	return !strings.Contains(part, "..")
}
