package models

import (
	"time"

	id "gesclient/pkg/domain"
)

// ActionAPIRequest marks logs written by the request audit observer.
const ActionAPIRequest = "API_REQUEST"

// Log is an audit record. DemandeID is a weak reference: it is never checked
// for existence and deleting a Demande leaves its logs in place.
type Log struct {
	ID         id.ID     `json:"id"`
	Action     string    `json:"action"`
	Message    string    `json:"message"`
	Success    bool      `json:"success"`
	IP         string    `json:"ip"`
	UserID     *string   `json:"userId"`
	URL        string    `json:"url"`
	Method     string    `json:"method"`
	StatusCode int       `json:"statusCode"`
	DemandeID  *id.ID    `json:"demandeId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Patch carries the optional fields of a log update.
type Patch struct {
	Action     *string
	Message    *string
	Success    *bool
	IP         *string
	URL        *string
	Method     *string
	StatusCode *int
	DemandeID  *string
}
