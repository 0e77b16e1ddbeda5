// Package service implements numero management and the numero side of the
// uniqueness guard, which spans the client and numero collections.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	clientModels "gesclient/internal/client/models"
	"gesclient/internal/numero/models"
	"gesclient/internal/platform/metrics"
	id "gesclient/pkg/domain"
	dErrors "gesclient/pkg/domain-errors"
	"gesclient/pkg/platform/sentinel"
	"gesclient/pkg/requestcontext"
)

const entityName = "numero"

type Store interface {
	Create(ctx context.Context, n *models.NumeroClient) error
	List(ctx context.Context) ([]*models.NumeroClient, error)
	FindByID(ctx context.Context, numeroID id.ID) (*models.NumeroClient, error)
	FindByPhoneNumber(ctx context.Context, phone id.PhoneNumber) (*models.NumeroClient, error)
	FindByCNI(ctx context.Context, cni string) (*models.NumeroClient, error)
	Update(ctx context.Context, n *models.NumeroClient) error
	Delete(ctx context.Context, numeroID id.ID) error
}

// ClientReader resolves the owner of a numero.
type ClientReader interface {
	List(ctx context.Context) ([]*clientModels.Client, error)
	FindByID(ctx context.Context, clientID id.ID) (*clientModels.Client, error)
	FindByCNI(ctx context.Context, cni id.CNI) (*clientModels.Client, error)
}

// NumeroDetails is a numero with its owning client. Client is nil only if
// the owner was removed out of band.
type NumeroDetails struct {
	Numero *models.NumeroClient
	Client *clientModels.Client
}

// CreateCommand carries the raw fields of a new numero. ClientID is optional
// and filled from the CNI's owner when empty.
type CreateCommand struct {
	PhoneNumber string
	CNI         string
	Status      string
	ClientID    string
}

type Service struct {
	numeros Store
	clients ClientReader
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

func New(numeros Store, clients ClientReader, opts ...Option) *Service {
	s := &Service{numeros: numeros, clients: clients, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create normalizes the phone number, then runs the guard in order: the CNI
// must belong to a client, the phone number must be free, and the CNI must
// not already carry a numero.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*NumeroDetails, error) {
	phone, err := id.ParsePhoneNumber(cmd.PhoneNumber)
	if err != nil {
		return nil, err
	}
	status, err := id.ParseNumeroStatus(cmd.Status)
	if err != nil {
		return nil, err
	}
	cni := strings.TrimSpace(cmd.CNI)
	if cni == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "cni is required")
	}

	owner, err := s.ownerOf(ctx, cni)
	if err != nil {
		return nil, err
	}
	if err := checkClientID(cmd.ClientID, owner); err != nil {
		return nil, err
	}
	if err := s.ensurePhoneAvailable(ctx, phone, ""); err != nil {
		return nil, err
	}
	if err := s.ensureCNIFree(ctx, cni, ""); err != nil {
		return nil, err
	}

	numero := &models.NumeroClient{
		ID:          id.NewID(),
		PhoneNumber: phone,
		CNI:         cni,
		Status:      status,
		ClientID:    owner.ID,
		CreatedAt:   requestcontext.Now(ctx),
	}
	if err := s.numeros.Create(ctx, numero); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "phone number or cni already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create numero")
	}

	s.logger.InfoContext(ctx, "numero created",
		"request_id", requestcontext.RequestID(ctx),
		"numero_id", numero.ID,
		"client_id", owner.ID,
	)
	s.metrics.IncrementCreated(entityName)
	return &NumeroDetails{Numero: numero, Client: owner}, nil
}

// SearchByPhoneNumber normalizes the query before the lookup, so every
// accepted spelling of a number finds the same record.
func (s *Service) SearchByPhoneNumber(ctx context.Context, raw string) (*NumeroDetails, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "phoneNumber query parameter is required")
	}
	phone, err := id.ParsePhoneNumber(raw)
	if err != nil {
		return nil, err
	}
	numero, err := s.numeros.FindByPhoneNumber(ctx, phone)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no client found with this phone number")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search numero")
	}
	return s.withOwner(ctx, numero)
}

// List returns every numero newest first, each with its owner.
func (s *Service) List(ctx context.Context) ([]*NumeroDetails, error) {
	var (
		numeros []*models.NumeroClient
		clients []*clientModels.Client
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		numeros, err = s.numeros.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		clients, err = s.clients.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list numeros")
	}

	owners := make(map[id.ID]*clientModels.Client, len(clients))
	for _, c := range clients {
		owners[c.ID] = c
	}
	out := make([]*NumeroDetails, 0, len(numeros))
	for _, n := range numeros {
		out = append(out, &NumeroDetails{Numero: n, Client: owners[n.ClientID]})
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, numeroID id.ID) (*NumeroDetails, error) {
	numero, err := s.numeros.FindByID(ctx, numeroID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, errNumeroNotFound()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load numero")
	}
	return s.withOwner(ctx, numero)
}

// Update applies a partial update. A new phone number is re-normalized and
// must stay unique; a new CNI must belong to a client and moves the numero
// to that client.
func (s *Service) Update(ctx context.Context, numeroID id.ID, patch models.Patch) (*NumeroDetails, error) {
	current, err := s.numeros.FindByID(ctx, numeroID)
	if err != nil {
		return nil, mutationError(err)
	}

	if patch.PhoneNumber != nil {
		phone, err := id.ParsePhoneNumber(*patch.PhoneNumber)
		if err != nil {
			return nil, err
		}
		if phone != current.PhoneNumber {
			if err := s.ensurePhoneAvailable(ctx, phone, numeroID); err != nil {
				return nil, err
			}
			current.PhoneNumber = phone
		}
	}
	if patch.Status != nil {
		status, err := id.ParseNumeroStatus(*patch.Status)
		if err != nil {
			return nil, err
		}
		current.Status = status
	}

	var owner *clientModels.Client
	if patch.CNI != nil {
		cni := strings.TrimSpace(*patch.CNI)
		if cni == "" {
			return nil, dErrors.New(dErrors.CodeValidation, "cni must not be empty")
		}
		if cni != current.CNI {
			if owner, err = s.ownerOf(ctx, cni); err != nil {
				return nil, err
			}
			if err := s.ensureCNIFree(ctx, cni, numeroID); err != nil {
				return nil, err
			}
			current.CNI = cni
			current.ClientID = owner.ID
		}
	}
	if patch.ClientID != nil {
		if owner == nil {
			if owner, err = s.ownerOf(ctx, current.CNI); err != nil {
				return nil, err
			}
		}
		if err := checkClientID(*patch.ClientID, owner); err != nil {
			return nil, err
		}
	}

	if err := s.numeros.Update(ctx, current); err != nil {
		return nil, mutationError(err)
	}

	s.logger.InfoContext(ctx, "numero updated",
		"request_id", requestcontext.RequestID(ctx),
		"numero_id", numeroID,
	)
	if owner != nil {
		return &NumeroDetails{Numero: current, Client: owner}, nil
	}
	return s.withOwner(ctx, current)
}

func (s *Service) Delete(ctx context.Context, numeroID id.ID) error {
	if err := s.numeros.Delete(ctx, numeroID); err != nil {
		return mutationError(err)
	}
	s.logger.InfoContext(ctx, "numero deleted",
		"request_id", requestcontext.RequestID(ctx),
		"numero_id", numeroID,
	)
	s.metrics.IncrementDeleted(entityName)
	return nil
}

func (s *Service) ownerOf(ctx context.Context, cni string) (*clientModels.Client, error) {
	owner, err := s.clients.FindByCNI(ctx, id.CNI(cni))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no client found with this cni")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve cni owner")
	}
	return owner, nil
}

func (s *Service) ensurePhoneAvailable(ctx context.Context, phone id.PhoneNumber, self id.ID) error {
	existing, err := s.numeros.FindByPhoneNumber(ctx, phone)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return nil
	case err != nil:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check phone number uniqueness")
	case existing.ID != self:
		return dErrors.New(dErrors.CodeConflict, "phone number already registered")
	}
	return nil
}

func (s *Service) ensureCNIFree(ctx context.Context, cni string, self id.ID) error {
	existing, err := s.numeros.FindByCNI(ctx, cni)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return nil
	case err != nil:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check cni uniqueness")
	case existing.ID != self:
		return dErrors.New(dErrors.CodeConflict, "cni already attached to another phone number")
	}
	return nil
}

func (s *Service) withOwner(ctx context.Context, numero *models.NumeroClient) (*NumeroDetails, error) {
	owner, err := s.clients.FindByID(ctx, numero.ClientID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load numero owner")
	}
	return &NumeroDetails{Numero: numero, Client: owner}, nil
}

// checkClientID accepts an empty value or the id of the CNI's owner.
func checkClientID(raw string, owner *clientModels.Client) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	clientID, err := id.ParseID(raw)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "clientId must be a 24-character hex identifier")
	}
	if clientID != owner.ID {
		return dErrors.New(dErrors.CodeValidation, "clientId does not match the owner of the cni")
	}
	return nil
}

func errNumeroNotFound() error {
	return dErrors.New(dErrors.CodeNotFound, "numero not found")
}

func mutationError(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return errNumeroNotFound()
	}
	if errors.Is(err, sentinel.ErrConflict) {
		return dErrors.New(dErrors.CodeConflict, "phone number or cni already registered")
	}
	return dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
}
