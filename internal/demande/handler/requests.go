package handler

import (
	"strings"

	"gesclient/internal/demande/models"
	"gesclient/internal/demande/service"
	dErrors "gesclient/pkg/domain-errors"
)

// CreateDemandeRequest is the body of POST /demandes.
type CreateDemandeRequest struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Status  string `json:"status"`
	Account string `json:"account"`
}

func (r *CreateDemandeRequest) Normalize() {
	r.Type = strings.TrimSpace(r.Type)
	r.Content = strings.TrimSpace(r.Content)
	r.Status = strings.TrimSpace(r.Status)
	r.Account = strings.TrimSpace(r.Account)
}

func (r *CreateDemandeRequest) Validate() error {
	switch {
	case r.Type == "":
		return dErrors.New(dErrors.CodeValidation, "type is required")
	case r.Content == "":
		return dErrors.New(dErrors.CodeValidation, "content is required")
	case r.Status == "":
		return dErrors.New(dErrors.CodeValidation, "status is required")
	case r.Account == "":
		return dErrors.New(dErrors.CodeValidation, "account is required")
	}
	return nil
}

func (r *CreateDemandeRequest) Command() service.CreateCommand {
	return service.CreateCommand{Type: r.Type, Content: r.Content, Status: r.Status, Account: r.Account}
}

// UpdateDemandeRequest is the body of PUT /demandes/{id}.
type UpdateDemandeRequest struct {
	Type    *string `json:"type"`
	Content *string `json:"content"`
	Status  *string `json:"status"`
	Account *string `json:"account"`
}

func (r *UpdateDemandeRequest) Validate() error {
	if r.Type == nil && r.Content == nil && r.Status == nil && r.Account == nil {
		return dErrors.New(dErrors.CodeValidation, "at least one field must be provided")
	}
	return nil
}

func (r *UpdateDemandeRequest) Patch() models.Patch {
	return models.Patch{Type: r.Type, Content: r.Content, Status: r.Status, Account: r.Account}
}
