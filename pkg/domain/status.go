package domain

import dErrors "gesclient/pkg/domain-errors"

// NumeroStatus is the activation state of a registered phone number.
type NumeroStatus string

const (
	NumeroStatusActive   NumeroStatus = "Active"
	NumeroStatusInactive NumeroStatus = "Inactive"
)

// ParseNumeroStatus accepts exactly "Active" or "Inactive".
func ParseNumeroStatus(raw string) (NumeroStatus, error) {
	s := NumeroStatus(raw)
	if !s.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, `status must be "Active" or "Inactive"`)
	}
	return s, nil
}

func (s NumeroStatus) IsValid() bool {
	return s == NumeroStatusActive || s == NumeroStatusInactive
}

func (s NumeroStatus) String() string {
	return string(s)
}
