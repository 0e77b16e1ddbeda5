package models

import (
	"time"

	id "gesclient/pkg/domain"
)

// NumeroClient is an Orange Senegal phone line owned by a Client.
//
// Invariants:
//   - PhoneNumber is canonical and unique across numeros
//   - CNI belongs to an existing Client and is unique across numeros
//   - ClientID references the Client owning CNI
type NumeroClient struct {
	ID          id.ID           `json:"id"`
	PhoneNumber id.PhoneNumber  `json:"phoneNumber"`
	CNI         string          `json:"cni"`
	Status      id.NumeroStatus `json:"status"`
	ClientID    id.ID           `json:"clientId"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Patch carries the optional fields of a numero update.
type Patch struct {
	PhoneNumber *string
	CNI         *string
	Status      *string
	ClientID    *string
}
