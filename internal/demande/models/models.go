package models

import (
	"time"

	id "gesclient/pkg/domain"
)

// Demande is an administrative request filed under an account.
type Demande struct {
	ID      id.ID     `json:"id"`
	Type    string    `json:"type"`
	Content string    `json:"content"`
	Status  string    `json:"status"`
	Account string    `json:"account"`
	Date    time.Time `json:"date"`
}

// Patch carries the optional fields of a demande update.
type Patch struct {
	Type    *string
	Content *string
	Status  *string
	Account *string
}
