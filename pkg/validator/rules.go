package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// emailPattern accepts "local@domain.tld" with no whitespace-aware parsing.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Required fails for empty or whitespace-only strings.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: ValidationError{Field: field, Message: "field is required", Key: "validation.required"},
	}
}

// MaxLen fails when value exceeds max runes.
func MaxLen(field, value string, max int) Rule {
	return Rule{
		Check: func() bool { return len([]rune(value)) <= max },
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be at most %d characters long", max),
			Key:     "validation.max_length",
		},
	}
}

// ValidEmail fails for malformed addresses. Empty values pass; pair with Required.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool { return value == "" || emailPattern.MatchString(value) },
		Error: ValidationError{Field: field, Message: "must be a valid email address", Key: "validation.email"},
	}
}

// Digits fails unless value is non-empty and consists of ASCII digits only.
func Digits(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if value == "" {
				return false
			}
			for _, r := range value {
				if r > unicode.MaxASCII || !unicode.IsDigit(r) {
					return false
				}
			}
			return true
		},
		Error: ValidationError{Field: field, Message: "must contain digits only", Key: "validation.digits"},
	}
}

// InList fails unless value is one of allowed.
func InList[T comparable](field string, value T, allowed []T) Rule {
	return Rule{
		Check: func() bool {
			for _, v := range allowed {
				if v == value {
					return true
				}
			}
			return false
		},
		Error: ValidationError{Field: field, Message: "must be one of the allowed values", Key: "validation.in_list"},
	}
}

// Check wraps an arbitrary predicate.
func Check(field string, ok bool, message string) Rule {
	return Rule{
		Check: func() bool { return ok },
		Error: ValidationError{Field: field, Message: message, Key: "validation.custom"},
	}
}

// MinNum fails when value is below min.
func MinNum[T Numeric](field string, value, min T) Rule {
	return Rule{
		Check: func() bool { return value >= min },
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be at least %v", min),
			Key:     "validation.min",
		},
	}
}
