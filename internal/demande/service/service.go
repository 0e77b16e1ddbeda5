// Package service implements demande management and the journalized view of
// an account's demandes.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	logModels "gesclient/internal/auditlog/models"
	"gesclient/internal/demande/models"
	"gesclient/internal/platform/metrics"
	id "gesclient/pkg/domain"
	dErrors "gesclient/pkg/domain-errors"
	"gesclient/pkg/platform/sentinel"
	"gesclient/pkg/requestcontext"
)

const entityName = "demande"

type Store interface {
	Create(ctx context.Context, d *models.Demande) error
	List(ctx context.Context) ([]*models.Demande, error)
	ListByAccount(ctx context.Context, account string) ([]*models.Demande, error)
	FindByID(ctx context.Context, demandeID id.ID) (*models.Demande, error)
	Update(ctx context.Context, d *models.Demande) error
	Delete(ctx context.Context, demandeID id.ID) error
}

// LogReader loads the logs that reference a set of demandes.
type LogReader interface {
	ListByDemandeIDs(ctx context.Context, demandeIDs []id.ID) ([]*logModels.Log, error)
}

// JournalizedDemande is a demande with the logs pointing at it.
type JournalizedDemande struct {
	Demande *models.Demande
	Logs    []*logModels.Log
}

type CreateCommand struct {
	Type    string
	Content string
	Status  string
	Account string
}

type Service struct {
	demandes Store
	logs     LogReader
	logger   *slog.Logger
	metrics  *metrics.Metrics
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

func New(demandes Store, logs LogReader, opts ...Option) *Service {
	s := &Service{demandes: demandes, logs: logs, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*models.Demande, error) {
	demande := &models.Demande{
		ID:      id.NewID(),
		Type:    strings.TrimSpace(cmd.Type),
		Content: strings.TrimSpace(cmd.Content),
		Status:  strings.TrimSpace(cmd.Status),
		Account: strings.TrimSpace(cmd.Account),
		Date:    requestcontext.Now(ctx),
	}
	if err := validate(demande); err != nil {
		return nil, err
	}
	if err := s.demandes.Create(ctx, demande); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create demande")
	}

	s.logger.InfoContext(ctx, "demande created",
		"request_id", requestcontext.RequestID(ctx),
		"demande_id", demande.ID,
		"account", demande.Account,
	)
	s.metrics.IncrementCreated(entityName)
	return demande, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Demande, error) {
	demandes, err := s.demandes.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list demandes")
	}
	return demandes, nil
}

// ListByAccount returns the account's demandes newest first. An account
// without demandes is reported as not found.
func (s *Service) ListByAccount(ctx context.Context, account string) ([]*models.Demande, error) {
	demandes, err := s.byAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	if len(demandes) == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "no demande found for this account")
	}
	return demandes, nil
}

// ListJournalizedByAccount returns the account's demandes that have at least
// one log, each with its logs. An empty result is not an error.
func (s *Service) ListJournalizedByAccount(ctx context.Context, account string) ([]*JournalizedDemande, error) {
	demandes, err := s.byAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	out := make([]*JournalizedDemande, 0, len(demandes))
	if len(demandes) == 0 {
		return out, nil
	}

	ids := make([]id.ID, 0, len(demandes))
	for _, d := range demandes {
		ids = append(ids, d.ID)
	}
	logs, err := s.logs.ListByDemandeIDs(ctx, ids)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load demande logs")
	}

	byDemande := make(map[id.ID][]*logModels.Log, len(demandes))
	for _, l := range logs {
		if l.DemandeID != nil {
			byDemande[*l.DemandeID] = append(byDemande[*l.DemandeID], l)
		}
	}
	for _, d := range demandes {
		if attached := byDemande[d.ID]; len(attached) > 0 {
			out = append(out, &JournalizedDemande{Demande: d, Logs: attached})
		}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, demandeID id.ID) (*models.Demande, error) {
	demande, err := s.demandes.FindByID(ctx, demandeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, errDemandeNotFound()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load demande")
	}
	return demande, nil
}

// Update applies the fields present in patch. Present fields must not be
// blank.
func (s *Service) Update(ctx context.Context, demandeID id.ID, patch models.Patch) (*models.Demande, error) {
	current, err := s.demandes.FindByID(ctx, demandeID)
	if err != nil {
		return nil, mutationError(err)
	}
	apply(&current.Type, patch.Type)
	apply(&current.Content, patch.Content)
	apply(&current.Status, patch.Status)
	apply(&current.Account, patch.Account)
	if err := validate(current); err != nil {
		return nil, err
	}

	if err := s.demandes.Update(ctx, current); err != nil {
		return nil, mutationError(err)
	}
	s.logger.InfoContext(ctx, "demande updated",
		"request_id", requestcontext.RequestID(ctx),
		"demande_id", demandeID,
	)
	return current, nil
}

// Delete removes the demande only. Logs referencing it are kept.
func (s *Service) Delete(ctx context.Context, demandeID id.ID) error {
	if err := s.demandes.Delete(ctx, demandeID); err != nil {
		return mutationError(err)
	}
	s.logger.InfoContext(ctx, "demande deleted",
		"request_id", requestcontext.RequestID(ctx),
		"demande_id", demandeID,
	)
	s.metrics.IncrementDeleted(entityName)
	return nil
}

func (s *Service) byAccount(ctx context.Context, account string) ([]*models.Demande, error) {
	account = strings.TrimSpace(account)
	if account == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "account query parameter is required")
	}
	demandes, err := s.demandes.ListByAccount(ctx, account)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list demandes")
	}
	return demandes, nil
}

func apply(field *string, value *string) {
	if value != nil {
		*field = strings.TrimSpace(*value)
	}
}

func validate(d *models.Demande) error {
	switch {
	case d.Type == "":
		return dErrors.New(dErrors.CodeValidation, "type is required")
	case d.Content == "":
		return dErrors.New(dErrors.CodeValidation, "content is required")
	case d.Status == "":
		return dErrors.New(dErrors.CodeValidation, "status is required")
	case d.Account == "":
		return dErrors.New(dErrors.CodeValidation, "account is required")
	}
	return nil
}

func errDemandeNotFound() error {
	return dErrors.New(dErrors.CodeNotFound, "demande not found")
}

func mutationError(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return errDemandeNotFound()
	}
	return dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
}
