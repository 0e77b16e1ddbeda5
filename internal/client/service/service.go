// Package service implements client management and the client side of the
// uniqueness guard: a CNI identifies at most one client.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"gesclient/internal/client/models"
	numeroModels "gesclient/internal/numero/models"
	"gesclient/internal/platform/metrics"
	id "gesclient/pkg/domain"
	dErrors "gesclient/pkg/domain-errors"
	"gesclient/pkg/platform/sentinel"
	"gesclient/pkg/requestcontext"
)

const entityName = "client"

type Store interface {
	Create(ctx context.Context, client *models.Client) error
	List(ctx context.Context) ([]*models.Client, error)
	FindByID(ctx context.Context, clientID id.ID) (*models.Client, error)
	FindByCNI(ctx context.Context, cni id.CNI) (*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, clientID id.ID) error
}

// NumeroReader exposes the numeros owned by a client.
type NumeroReader interface {
	List(ctx context.Context) ([]*numeroModels.NumeroClient, error)
	ListByClientID(ctx context.Context, clientID id.ID) ([]*numeroModels.NumeroClient, error)
}

// ClientDetails is a client together with the numeros it owns.
type ClientDetails struct {
	Client  *models.Client
	Numeros []*numeroModels.NumeroClient
}

// CreateCommand carries the raw fields of a new client.
type CreateCommand struct {
	Nom    string
	Prenom string
	CNI    string
}

// Service orchestrates client reads and writes.
type Service struct {
	clients Store
	numeros NumeroReader
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

// New constructs a Service.
func New(clients Store, numeros NumeroReader, opts ...Option) *Service {
	s := &Service{clients: clients, numeros: numeros, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates the names and CNI, rejects a CNI already held by another
// client, then stores the client.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*ClientDetails, error) {
	cni, err := id.ParseCNI(strings.TrimSpace(cmd.CNI))
	if err != nil {
		return nil, err
	}
	client, err := models.NewClient(cmd.Nom, cmd.Prenom, cni, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	if err := s.ensureCNIAvailable(ctx, cni, ""); err != nil {
		return nil, err
	}

	if err := s.clients.Create(ctx, client); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, errCNITaken()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create client")
	}

	s.logger.InfoContext(ctx, "client created",
		"request_id", requestcontext.RequestID(ctx),
		"client_id", client.ID,
	)
	s.metrics.IncrementCreated(entityName)
	return &ClientDetails{Client: client, Numeros: []*numeroModels.NumeroClient{}}, nil
}

// List returns every client with its numeros.
func (s *Service) List(ctx context.Context) ([]*ClientDetails, error) {
	var (
		clients []*models.Client
		numeros []*numeroModels.NumeroClient
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		clients, err = s.clients.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		numeros, err = s.numeros.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list clients")
	}

	owned := make(map[id.ID][]*numeroModels.NumeroClient, len(clients))
	for _, n := range numeros {
		owned[n.ClientID] = append(owned[n.ClientID], n)
	}
	out := make([]*ClientDetails, 0, len(clients))
	for _, c := range clients {
		ns := owned[c.ID]
		if ns == nil {
			ns = []*numeroModels.NumeroClient{}
		}
		out = append(out, &ClientDetails{Client: c, Numeros: ns})
	}
	return out, nil
}

// Get returns a client with its numeros.
func (s *Service) Get(ctx context.Context, clientID id.ID) (*ClientDetails, error) {
	var (
		client  *models.Client
		numeros []*numeroModels.NumeroClient
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		client, err = s.clients.FindByID(gctx, clientID)
		return err
	})
	g.Go(func() error {
		var err error
		numeros, err = s.numeros.ListByClientID(gctx, clientID)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, errClientNotFound()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load client")
	}
	return &ClientDetails{Client: client, Numeros: numeros}, nil
}

// Update applies a partial update. A new CNI is re-validated, must stay
// unique, and cannot change while numeros reference the current one.
func (s *Service) Update(ctx context.Context, clientID id.ID, patch models.Patch) (*ClientDetails, error) {
	current, err := s.clients.FindByID(ctx, clientID)
	if err != nil {
		return nil, mutationError(err)
	}

	if patch.Nom != nil {
		nom := strings.TrimSpace(*patch.Nom)
		if err := models.ValidateNom(nom); err != nil {
			return nil, err
		}
		current.Nom = nom
	}
	if patch.Prenom != nil {
		prenom := strings.TrimSpace(*patch.Prenom)
		if err := models.ValidatePrenom(prenom); err != nil {
			return nil, err
		}
		current.Prenom = prenom
	}

	numeros, err := s.numeros.ListByClientID(ctx, clientID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load client numeros")
	}

	if patch.CNI != nil {
		cni, err := id.ParseCNI(strings.TrimSpace(*patch.CNI))
		if err != nil {
			return nil, err
		}
		if cni != current.CNI {
			if len(numeros) > 0 {
				return nil, dErrors.New(dErrors.CodeValidation, "cni cannot change while phone numbers are attached to the client")
			}
			if err := s.ensureCNIAvailable(ctx, cni, clientID); err != nil {
				return nil, err
			}
			current.CNI = cni
		}
	}

	if err := s.clients.Update(ctx, current); err != nil {
		return nil, mutationError(err)
	}

	s.logger.InfoContext(ctx, "client updated",
		"request_id", requestcontext.RequestID(ctx),
		"client_id", clientID,
	)
	return &ClientDetails{Client: current, Numeros: numeros}, nil
}

// Delete removes a client that owns no numeros.
func (s *Service) Delete(ctx context.Context, clientID id.ID) error {
	numeros, err := s.numeros.ListByClientID(ctx, clientID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load client numeros")
	}
	if len(numeros) > 0 {
		if _, err := s.clients.FindByID(ctx, clientID); err != nil {
			return mutationError(err)
		}
		return dErrors.New(dErrors.CodeValidation, "client still owns phone numbers; delete them first")
	}

	if err := s.clients.Delete(ctx, clientID); err != nil {
		return mutationError(err)
	}

	s.logger.InfoContext(ctx, "client deleted",
		"request_id", requestcontext.RequestID(ctx),
		"client_id", clientID,
	)
	s.metrics.IncrementDeleted(entityName)
	return nil
}

func (s *Service) ensureCNIAvailable(ctx context.Context, cni id.CNI, self id.ID) error {
	existing, err := s.clients.FindByCNI(ctx, cni)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return nil
	case err != nil:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check cni uniqueness")
	case existing.ID != self:
		return errCNITaken()
	}
	return nil
}

func errClientNotFound() error {
	return dErrors.New(dErrors.CodeNotFound, "client not found")
}

func errCNITaken() error {
	return dErrors.New(dErrors.CodeConflict, "a client with this cni already exists")
}

// mutationError maps store failures on update and delete: a missing record is
// NotFound, a duplicate cni is a conflict, and any other failure is reported
// as a validation error carrying the store's message.
func mutationError(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return errClientNotFound()
	}
	if errors.Is(err, sentinel.ErrConflict) {
		return errCNITaken()
	}
	return dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
}
