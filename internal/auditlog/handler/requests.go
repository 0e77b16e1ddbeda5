package handler

import (
	"strings"

	"gesclient/internal/auditlog/models"
	"gesclient/internal/auditlog/service"
	dErrors "gesclient/pkg/domain-errors"
)

// CreateLogRequest is the body of POST /logs.
type CreateLogRequest struct {
	Action     string  `json:"action"`
	Message    string  `json:"message"`
	Success    bool    `json:"success"`
	IP         string  `json:"ip"`
	UserID     *string `json:"userId"`
	URL        string  `json:"url"`
	Method     string  `json:"method"`
	StatusCode int     `json:"statusCode"`
	DemandeID  string  `json:"demandeId"`
}

func (r *CreateLogRequest) Normalize() {
	r.Action = strings.TrimSpace(r.Action)
	r.Message = strings.TrimSpace(r.Message)
	r.DemandeID = strings.TrimSpace(r.DemandeID)
}

func (r *CreateLogRequest) Validate() error {
	if r.Action == "" {
		return dErrors.New(dErrors.CodeValidation, "action is required")
	}
	if r.Message == "" {
		return dErrors.New(dErrors.CodeValidation, "message is required")
	}
	return nil
}

func (r *CreateLogRequest) Command() service.CreateCommand {
	return service.CreateCommand{
		Action:     r.Action,
		Message:    r.Message,
		Success:    r.Success,
		IP:         r.IP,
		UserID:     r.UserID,
		URL:        r.URL,
		Method:     r.Method,
		StatusCode: r.StatusCode,
		DemandeID:  r.DemandeID,
	}
}

// UpdateLogRequest is the body of PUT /logs/{id}. An empty demandeId
// detaches the log from its demande.
type UpdateLogRequest struct {
	Action     *string `json:"action"`
	Message    *string `json:"message"`
	Success    *bool   `json:"success"`
	IP         *string `json:"ip"`
	URL        *string `json:"url"`
	Method     *string `json:"method"`
	StatusCode *int    `json:"statusCode"`
	DemandeID  *string `json:"demandeId"`
}

func (r *UpdateLogRequest) Validate() error {
	if r.Action == nil && r.Message == nil && r.Success == nil && r.IP == nil &&
		r.URL == nil && r.Method == nil && r.StatusCode == nil && r.DemandeID == nil {
		return dErrors.New(dErrors.CodeValidation, "at least one field must be provided")
	}
	return nil
}

func (r *UpdateLogRequest) Patch() models.Patch {
	return models.Patch{
		Action:     r.Action,
		Message:    r.Message,
		Success:    r.Success,
		IP:         r.IP,
		URL:        r.URL,
		Method:     r.Method,
		StatusCode: r.StatusCode,
		DemandeID:  r.DemandeID,
	}
}
