package handler

import (
	"strings"

	"gesclient/internal/numero/models"
	"gesclient/internal/numero/service"
	dErrors "gesclient/pkg/domain-errors"
)

// CreateNumeroRequest is the body of POST /numeros. ClientID is optional.
type CreateNumeroRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	CNI         string `json:"cni"`
	Status      string `json:"status"`
	ClientID    string `json:"clientId"`
}

func (r *CreateNumeroRequest) Normalize() {
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
	r.CNI = strings.TrimSpace(r.CNI)
	r.Status = strings.TrimSpace(r.Status)
	r.ClientID = strings.TrimSpace(r.ClientID)
}

func (r *CreateNumeroRequest) Validate() error {
	switch {
	case r.PhoneNumber == "":
		return dErrors.New(dErrors.CodeValidation, "phoneNumber is required")
	case r.CNI == "":
		return dErrors.New(dErrors.CodeValidation, "cni is required")
	case r.Status == "":
		return dErrors.New(dErrors.CodeValidation, "status is required")
	}
	return nil
}

func (r *CreateNumeroRequest) Command() service.CreateCommand {
	return service.CreateCommand{
		PhoneNumber: r.PhoneNumber,
		CNI:         r.CNI,
		Status:      r.Status,
		ClientID:    r.ClientID,
	}
}

// UpdateNumeroRequest is the body of PUT /numeros/{id}.
type UpdateNumeroRequest struct {
	PhoneNumber *string `json:"phoneNumber"`
	CNI         *string `json:"cni"`
	Status      *string `json:"status"`
	ClientID    *string `json:"clientId"`
}

func (r *UpdateNumeroRequest) Validate() error {
	if r.PhoneNumber == nil && r.CNI == nil && r.Status == nil && r.ClientID == nil {
		return dErrors.New(dErrors.CodeValidation, "at least one field must be provided")
	}
	return nil
}

func (r *UpdateNumeroRequest) Patch() models.Patch {
	return models.Patch{
		PhoneNumber: r.PhoneNumber,
		CNI:         r.CNI,
		Status:      r.Status,
		ClientID:    r.ClientID,
	}
}
