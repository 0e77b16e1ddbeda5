package models

import (
	"strings"
	"time"

	id "gesclient/pkg/domain"
	dErrors "gesclient/pkg/domain-errors"
)

// MinNameLength is the minimum length of nom and prenom after trimming.
const MinNameLength = 2

// Client is a customer identified by a unique national id.
//
// Invariants:
//   - Nom and Prenom carry at least MinNameLength characters
//   - CNI is canonical (see domain.ParseCNI) and unique across clients
type Client struct {
	ID        id.ID     `json:"id"`
	Nom       string    `json:"nom"`
	Prenom    string    `json:"prenom"`
	CNI       id.CNI    `json:"cni"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewClient validates names and builds a Client with a freshly minted id.
func NewClient(nom, prenom string, cni id.CNI, now time.Time) (*Client, error) {
	nom, prenom = strings.TrimSpace(nom), strings.TrimSpace(prenom)
	if err := ValidateNom(nom); err != nil {
		return nil, err
	}
	if err := ValidatePrenom(prenom); err != nil {
		return nil, err
	}
	return &Client{
		ID:        id.NewID(),
		Nom:       nom,
		Prenom:    prenom,
		CNI:       cni,
		CreatedAt: now,
	}, nil
}

// ValidateNom enforces the minimum length on a trimmed last name.
func ValidateNom(nom string) error {
	if len([]rune(nom)) < MinNameLength {
		return dErrors.New(dErrors.CodeValidation, "nom is required and must contain at least 2 characters")
	}
	return nil
}

// ValidatePrenom enforces the minimum length on a trimmed first name.
func ValidatePrenom(prenom string) error {
	if len([]rune(prenom)) < MinNameLength {
		return dErrors.New(dErrors.CodeValidation, "prenom is required and must contain at least 2 characters")
	}
	return nil
}

// Patch carries the optional fields of a client update.
type Patch struct {
	Nom    *string
	Prenom *string
	CNI    *string
}
