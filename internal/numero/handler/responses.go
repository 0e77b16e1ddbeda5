package handler

import (
	"time"

	clientModels "gesclient/internal/client/models"
	"gesclient/internal/numero/service"
)

// NumeroResponse is a numero with its owning client.
type NumeroResponse struct {
	ID          string               `json:"id"`
	PhoneNumber string               `json:"phoneNumber"`
	CNI         string               `json:"cni"`
	Status      string               `json:"status"`
	ClientID    string               `json:"clientId"`
	CreatedAt   time.Time            `json:"createdAt"`
	Client      *clientModels.Client `json:"client"`
}

func toNumeroResponse(d *service.NumeroDetails) *NumeroResponse {
	n := d.Numero
	return &NumeroResponse{
		ID:          n.ID.String(),
		PhoneNumber: n.PhoneNumber.String(),
		CNI:         n.CNI,
		Status:      n.Status.String(),
		ClientID:    n.ClientID.String(),
		CreatedAt:   n.CreatedAt,
		Client:      d.Client,
	}
}

func toNumeroResponses(details []*service.NumeroDetails) []*NumeroResponse {
	out := make([]*NumeroResponse, 0, len(details))
	for _, d := range details {
		out = append(out, toNumeroResponse(d))
	}
	return out
}
