package handler

import (
	"time"

	"gesclient/internal/client/service"
	numeroModels "gesclient/internal/numero/models"
)

// ClientResponse is a client with the phone numbers it owns.
type ClientResponse struct {
	ID            string                       `json:"id"`
	Nom           string                       `json:"nom"`
	Prenom        string                       `json:"prenom"`
	CNI           string                       `json:"cni"`
	CreatedAt     time.Time                    `json:"createdAt"`
	NumeroClients []*numeroModels.NumeroClient `json:"numeroClients"`
}

func toClientResponse(d *service.ClientDetails) *ClientResponse {
	numeros := d.Numeros
	if numeros == nil {
		numeros = []*numeroModels.NumeroClient{}
	}
	return &ClientResponse{
		ID:            d.Client.ID.String(),
		Nom:           d.Client.Nom,
		Prenom:        d.Client.Prenom,
		CNI:           d.Client.CNI.String(),
		CreatedAt:     d.Client.CreatedAt,
		NumeroClients: numeros,
	}
}

func toClientResponses(details []*service.ClientDetails) []*ClientResponse {
	out := make([]*ClientResponse, 0, len(details))
	for _, d := range details {
		out = append(out, toClientResponse(d))
	}
	return out
}
