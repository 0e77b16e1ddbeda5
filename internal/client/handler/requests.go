package handler

import (
	"strings"

	"gesclient/internal/client/models"
	"gesclient/internal/client/service"
	dErrors "gesclient/pkg/domain-errors"
)

// CreateClientRequest is the body of POST /clients.
type CreateClientRequest struct {
	Nom    string `json:"nom"`
	Prenom string `json:"prenom"`
	CNI    string `json:"cni"`
}

func (r *CreateClientRequest) Normalize() {
	r.Nom = strings.TrimSpace(r.Nom)
	r.Prenom = strings.TrimSpace(r.Prenom)
	r.CNI = strings.TrimSpace(r.CNI)
}

func (r *CreateClientRequest) Validate() error {
	if err := models.ValidateNom(r.Nom); err != nil {
		return err
	}
	if err := models.ValidatePrenom(r.Prenom); err != nil {
		return err
	}
	if r.CNI == "" {
		return dErrors.New(dErrors.CodeValidation, "cni is required")
	}
	return nil
}

func (r *CreateClientRequest) Command() service.CreateCommand {
	return service.CreateCommand{Nom: r.Nom, Prenom: r.Prenom, CNI: r.CNI}
}

// UpdateClientRequest is the body of PUT /clients/{id}. Absent fields are
// left untouched.
type UpdateClientRequest struct {
	Nom    *string `json:"nom"`
	Prenom *string `json:"prenom"`
	CNI    *string `json:"cni"`
}

func (r *UpdateClientRequest) Normalize() {
	trim(r.Nom)
	trim(r.Prenom)
	trim(r.CNI)
}

func (r *UpdateClientRequest) Validate() error {
	if r.Nom == nil && r.Prenom == nil && r.CNI == nil {
		return dErrors.New(dErrors.CodeValidation, "at least one field must be provided")
	}
	if r.Nom != nil {
		if err := models.ValidateNom(*r.Nom); err != nil {
			return err
		}
	}
	if r.Prenom != nil {
		if err := models.ValidatePrenom(*r.Prenom); err != nil {
			return err
		}
	}
	return nil
}

func (r *UpdateClientRequest) Patch() models.Patch {
	return models.Patch{Nom: r.Nom, Prenom: r.Prenom, CNI: r.CNI}
}

func trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
