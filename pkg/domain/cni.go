package domain

import (
	"strconv"
	"sync/atomic"

	dErrors "gesclient/pkg/domain-errors"
)

// DefaultCNILength is the digit count of a national identity card number.
// Older deployments issued 17-digit numbers; SetCNILength switches the rule
// at startup without touching call sites.
const DefaultCNILength = 13

var cniLength atomic.Int64

func init() {
	cniLength.Store(DefaultCNILength)
}

// SetCNILength changes the digit count enforced by ParseCNI. Non-positive
// values restore the default. Call once during startup.
func SetCNILength(n int) {
	if n <= 0 {
		n = DefaultCNILength
	}
	cniLength.Store(int64(n))
}

// CNILength returns the digit count currently enforced by ParseCNI.
func CNILength() int {
	return int(cniLength.Load())
}

// CNI is the canonical national identity card number.
//
// Invariants:
//   - exactly CNILength() ASCII digits
//   - first digit is '1' or '2'
type CNI string

// ParseCNI constructs a CNI from external input.
//
// Usage: call from services before any lookup or write keyed on a CNI so that
// uniqueness checks always compare canonical values.
//
// Errors: returns CodeValidation naming the violated rule. The input is not
// trimmed; callers normalize whitespace before parsing.
func ParseCNI(raw string) (CNI, error) {
	n := CNILength()
	if len(raw) != n || !isASCIIDigits(raw) {
		return "", dErrors.New(dErrors.CodeValidation,
			"cni must contain exactly "+strconv.Itoa(n)+" digits")
	}
	if raw[0] != '1' && raw[0] != '2' {
		return "", dErrors.New(dErrors.CodeValidation, "cni must start with 1 or 2")
	}
	return CNI(raw), nil
}

func (c CNI) String() string {
	return string(c)
}

func isASCIIDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
