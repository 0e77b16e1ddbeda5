package handler

import (
	logModels "gesclient/internal/auditlog/models"
	"gesclient/internal/demande/models"
	"gesclient/internal/demande/service"
)

// JournalizedDemandeResponse is a demande with its logs inlined.
type JournalizedDemandeResponse struct {
	*models.Demande
	Logs []*logModels.Log `json:"logs"`
}

func toJournalizedResponses(entries []*service.JournalizedDemande) []*JournalizedDemandeResponse {
	out := make([]*JournalizedDemandeResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, &JournalizedDemandeResponse{Demande: e.Demande, Logs: e.Logs})
	}
	return out
}
