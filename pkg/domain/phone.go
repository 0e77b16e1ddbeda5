package domain

import (
	"strings"
	"unicode"

	dErrors "gesclient/pkg/domain-errors"
)

const phoneNumberLength = 9

// International prefixes accepted in front of a national number.
var internationalPrefixes = []string{"+221", "00221"}

// Orange Senegal ranges: mobile prefixes and the fixed-line prefix.
var (
	orangeMobilePrefixes = map[string]bool{"77": true, "78": true, "76": true, "70": true}
	orangeFixedPrefix    = "33"
)

// PhoneNumber is a canonical Orange Senegal number in 9-digit national form.
type PhoneNumber string

// ParsePhoneNumber normalizes and validates an Orange Senegal number.
//
// Normalization strips one leading "+221" or "00221", then every whitespace
// rune. "+221 77 123 45 67", "00221771234567" and "771234567" all yield
// "771234567".
//
// Errors: returns CodeValidation naming the violated rule: non-digit content,
// wrong length, or a prefix outside the Orange ranges.
func ParsePhoneNumber(raw string) (PhoneNumber, error) {
	num := raw
	for _, prefix := range internationalPrefixes {
		if rest, ok := strings.CutPrefix(num, prefix); ok {
			num = rest
			break
		}
	}
	num = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, num)

	if !isASCIIDigits(num) {
		return "", dErrors.New(dErrors.CodeValidation, "phone number must contain only digits")
	}
	if len(num) != phoneNumberLength {
		return "", dErrors.New(dErrors.CodeValidation, "phone number must contain exactly 9 digits")
	}
	if !orangeMobilePrefixes[num[:2]] && !strings.HasPrefix(num, orangeFixedPrefix) {
		return "", dErrors.New(dErrors.CodeValidation, "phone number is not a valid Orange Senegal number")
	}
	return PhoneNumber(num), nil
}

func (p PhoneNumber) String() string {
	return string(p)
}

// IsFixedLine reports whether the number belongs to the fixed-line range.
func (p PhoneNumber) IsFixedLine() bool {
	return strings.HasPrefix(string(p), orangeFixedPrefix)
}
