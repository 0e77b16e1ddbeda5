// Package service exposes CRUD over audit logs. Logs may reference a demande
// by id; the reference is never checked.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"gesclient/internal/auditlog/models"
	"gesclient/internal/platform/metrics"
	id "gesclient/pkg/domain"
	dErrors "gesclient/pkg/domain-errors"
	"gesclient/pkg/platform/sentinel"
	"gesclient/pkg/requestcontext"
)

const entityName = "log"

type Store interface {
	Create(ctx context.Context, l *models.Log) error
	List(ctx context.Context) ([]*models.Log, error)
	FindByID(ctx context.Context, logID id.ID) (*models.Log, error)
	Update(ctx context.Context, l *models.Log) error
	Delete(ctx context.Context, logID id.ID) error
}

type CreateCommand struct {
	Action     string
	Message    string
	Success    bool
	IP         string
	UserID     *string
	URL        string
	Method     string
	StatusCode int
	DemandeID  string
}

type Service struct {
	logs    Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(logs Store, opts ...Option) *Service {
	s := &Service{logs: logs, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*models.Log, error) {
	demandeID, err := parseDemandeID(cmd.DemandeID)
	if err != nil {
		return nil, err
	}
	l := &models.Log{
		ID:         id.NewID(),
		Action:     strings.TrimSpace(cmd.Action),
		Message:    strings.TrimSpace(cmd.Message),
		Success:    cmd.Success,
		IP:         cmd.IP,
		UserID:     cmd.UserID,
		URL:        cmd.URL,
		Method:     cmd.Method,
		StatusCode: cmd.StatusCode,
		DemandeID:  demandeID,
		CreatedAt:  requestcontext.Now(ctx),
	}
	if err := validate(l); err != nil {
		return nil, err
	}
	if err := s.logs.Create(ctx, l); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create log")
	}
	s.metrics.IncrementCreated(entityName)
	return l, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Log, error) {
	logs, err := s.logs.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list logs")
	}
	return logs, nil
}

func (s *Service) Get(ctx context.Context, logID id.ID) (*models.Log, error) {
	l, err := s.logs.FindByID(ctx, logID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, errLogNotFound()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load log")
	}
	return l, nil
}

// Update applies a partial update. An empty demandeId clears the reference.
func (s *Service) Update(ctx context.Context, logID id.ID, patch models.Patch) (*models.Log, error) {
	current, err := s.logs.FindByID(ctx, logID)
	if err != nil {
		return nil, mutationError(err)
	}

	if patch.Action != nil {
		current.Action = strings.TrimSpace(*patch.Action)
	}
	if patch.Message != nil {
		current.Message = strings.TrimSpace(*patch.Message)
	}
	if patch.Success != nil {
		current.Success = *patch.Success
	}
	if patch.IP != nil {
		current.IP = *patch.IP
	}
	if patch.URL != nil {
		current.URL = *patch.URL
	}
	if patch.Method != nil {
		current.Method = *patch.Method
	}
	if patch.StatusCode != nil {
		current.StatusCode = *patch.StatusCode
	}
	if patch.DemandeID != nil {
		if current.DemandeID, err = parseDemandeID(*patch.DemandeID); err != nil {
			return nil, err
		}
	}
	if err := validate(current); err != nil {
		return nil, err
	}

	if err := s.logs.Update(ctx, current); err != nil {
		return nil, mutationError(err)
	}
	s.logger.InfoContext(ctx, "log updated",
		"request_id", requestcontext.RequestID(ctx),
		"log_id", logID,
	)
	return current, nil
}

func (s *Service) Delete(ctx context.Context, logID id.ID) error {
	if err := s.logs.Delete(ctx, logID); err != nil {
		return mutationError(err)
	}
	s.metrics.IncrementDeleted(entityName)
	return nil
}

func parseDemandeID(raw string) (*id.ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	demandeID, err := id.ParseID(raw)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "demandeId must be a 24-character hex identifier")
	}
	return &demandeID, nil
}

func validate(l *models.Log) error {
	if l.Action == "" {
		return dErrors.New(dErrors.CodeValidation, "action is required")
	}
	if l.Message == "" {
		return dErrors.New(dErrors.CodeValidation, "message is required")
	}
	return nil
}

func errLogNotFound() error {
	return dErrors.New(dErrors.CodeNotFound, "log not found")
}

func mutationError(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return errLogNotFound()
	}
	return dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
}
