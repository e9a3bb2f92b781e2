package domain

import (
	"strings"
	"unicode"
)

const gabonCallingCode = "241"

// WhatsAppNumber normalizes a seller phone number for a wa.me link: spaces,
// dashes and parentheses are stripped, a national leading 0 becomes the
// Gabon calling code, and numbers without a country prefix get one.
func WhatsAppNumber(raw string) string {
	if raw == "" {
		return ""
	}
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' || r == '(' || r == ')' {
			return -1
		}
		return r
	}, raw)

	if strings.HasPrefix(cleaned, "0") {
		cleaned = gabonCallingCode + cleaned[1:]
	}
	if !strings.HasPrefix(cleaned, gabonCallingCode) && !strings.HasPrefix(cleaned, "+") {
		cleaned = gabonCallingCode + cleaned
	}
	return cleaned
}

// WhatsAppLink is the click-to-chat URL for raw, or "" without a number.
func WhatsAppLink(raw string) string {
	n := WhatsAppNumber(raw)
	if n == "" {
		return ""
	}
	return "https://wa.me/" + strings.TrimPrefix(n, "+")
}
