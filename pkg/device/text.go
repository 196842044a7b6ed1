package device

import (
	"regexp"
	"strings"
)

var whitespace = regexp.MustCompile(`\s`)

// EncodeText makes text acceptable to `input text`, which cannot take raw whitespace:
// every whitespace character becomes the %s placeholder and single quotes are escaped.
func EncodeText(text string) string {
	encoded := whitespace.ReplaceAllString(text, "%s")
	return strings.ReplaceAll(encoded, "'", `\'`)
}

var nonDialable = regexp.MustCompile(`[^\d+]`)

// CleanNumber strips everything but digits and '+'.
func CleanNumber(number string) string {
	return nonDialable.ReplaceAllString(number, "")
}

var phoneNumber = regexp.MustCompile(`^\+?\d+$`)

// IsPhoneNumber reports whether s is already a dialable number.
func IsPhoneNumber(s string) bool {
	return phoneNumber.MatchString(s)
}
