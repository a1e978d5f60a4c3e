package sanitizer

import (
	"regexp"
	"strings"
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	cardSeparators  = strings.NewReplacer(" ", "", "-", "")
)

func Trim(s string) string {
	return strings.TrimSpace(s)
}

// CollapseWhitespace replaces runs of whitespace with a single space.
func CollapseWhitespace(s string) string {
	return whitespaceRegex.ReplaceAllString(s, " ")
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeCardNumber strips spaces and dashes typed as group separators.
func NormalizeCardNumber(number string) string {
	return cardSeparators.Replace(strings.TrimSpace(number))
}

// MaskEmail hides the local part of an address, leaving head leading and
// tail trailing characters visible. Short local parts keep only their first
// character. The domain is never masked.
func MaskEmail(email string, head, tail int) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return MaskString(email, head, tail)
	}
	return MaskString(email[:at], head, tail) + email[at:]
}

// MaskString replaces the middle of s with asterisks. At least one rune is
// always masked; when head+tail would expose everything only the first rune stays.
func MaskString(s string, head, tail int) string {
	runes := []rune(s)
	n := len(runes)
	if n == 0 {
		return s
	}
	head, tail = max(head, 0), max(tail, 0)
	if head+tail >= n {
		head, tail = min(1, n-1), 0
	}
	return string(runes[:head]) + strings.Repeat("*", n-head-tail) + string(runes[n-tail:])
}

// MaskCardNumber shows only the last four digits.
func MaskCardNumber(number string) string {
	digits := NormalizeCardNumber(number)
	if len(digits) <= 4 {
		return strings.Repeat("*", len(digits))
	}
	return MaskString(digits, 0, 4)
}
