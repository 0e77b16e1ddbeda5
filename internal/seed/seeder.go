// Package seed loads the reference data set: an administrator account, two
// clients with one phone number each, two demandes and two logs. Running it
// again leaves existing records untouched.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	auditlogModels "gesclient/internal/auditlog/models"
	clientModels "gesclient/internal/client/models"
	demandeModels "gesclient/internal/demande/models"
	numeroModels "gesclient/internal/numero/models"
	"gesclient/internal/platform/config"
	id "gesclient/pkg/domain"
	"gesclient/pkg/platform/sentinel"
)

type AccountStore interface {
	UpsertRole(ctx context.Context, role *Role) (*Role, bool, error)
	UpsertUser(ctx context.Context, user *User) (*User, bool, error)
}

type ClientStore interface {
	Create(ctx context.Context, client *clientModels.Client) error
	FindByCNI(ctx context.Context, cni id.CNI) (*clientModels.Client, error)
}

type NumeroStore interface {
	Create(ctx context.Context, n *numeroModels.NumeroClient) error
	FindByPhoneNumber(ctx context.Context, phone id.PhoneNumber) (*numeroModels.NumeroClient, error)
}

type DemandeStore interface {
	Create(ctx context.Context, d *demandeModels.Demande) error
	ListByAccount(ctx context.Context, account string) ([]*demandeModels.Demande, error)
}

type LogStore interface {
	Create(ctx context.Context, l *auditlogModels.Log) error
	List(ctx context.Context) ([]*auditlogModels.Log, error)
}

// Stores groups the stores the seeder writes through.
type Stores struct {
	Accounts AccountStore
	Clients  ClientStore
	Numeros  NumeroStore
	Demandes DemandeStore
	Logs     LogStore
}

// Summary counts the records inserted by one run.
type Summary struct {
	Created  int
	Existing int
}

func (s *Summary) record(created bool) {
	if created {
		s.Created++
	} else {
		s.Existing++
	}
}

type clientFixture struct {
	nom, prenom, cni string
}

type numeroFixture struct {
	phone  string
	status id.NumeroStatus
}

type demandeFixture struct {
	typ, content, status, account string
}

var (
	clientFixtures = []clientFixture{
		{nom: "Sow", prenom: "Fatou", cni: "1000000000001"},
		{nom: "Diop", prenom: "Moussa", cni: "2000000000002"},
	}
	numeroFixtures = []numeroFixture{
		{phone: "771234567", status: id.NumeroStatusActive},
		{phone: "781234567", status: id.NumeroStatusInactive},
	}
	demandeFixtures = []demandeFixture{
		{typ: "creation", content: "Account creation request", status: "Pending", account: "COMPTE001"},
		{typ: "modification", content: "Phone number change request", status: "Processed", account: "COMPTE002"},
	}
)

type Seeder struct {
	stores Stores
	logger *slog.Logger
	now    func() time.Time
}

func New(stores Stores, logger *slog.Logger) *Seeder {
	return &Seeder{stores: stores, logger: logger, now: time.Now}
}

// Run inserts whatever part of the data set is missing.
func (s *Seeder) Run(ctx context.Context, cfg config.SeedConfig) (*Summary, error) {
	sum := &Summary{}
	now := s.now()

	if err := s.seedAdmin(ctx, cfg, now, sum); err != nil {
		return nil, err
	}

	clients := make([]*clientModels.Client, len(clientFixtures))
	created := make([]bool, len(clientFixtures))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range clientFixtures {
		g.Go(func() error {
			c, ok, err := s.ensureClient(gctx, f, now)
			clients[i], created[i] = c, ok
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, ok := range created {
		sum.record(ok)
	}

	for i, f := range numeroFixtures {
		ok, err := s.ensureNumero(ctx, f, clients[i], now)
		if err != nil {
			return nil, err
		}
		sum.record(ok)
	}

	demandes := make([]*demandeModels.Demande, 0, len(demandeFixtures))
	for _, f := range demandeFixtures {
		d, ok, err := s.ensureDemande(ctx, f, now)
		if err != nil {
			return nil, err
		}
		demandes = append(demandes, d)
		sum.record(ok)
	}

	first := demandes[0].ID
	logs := []*auditlogModels.Log{
		{Action: "SEED", Message: "Initial reference data", Success: true, DemandeID: &first},
		{Action: "TEST", Message: "Log creation test", Success: true},
	}
	for _, l := range logs {
		ok, err := s.ensureLog(ctx, l, now)
		if err != nil {
			return nil, err
		}
		sum.record(ok)
	}

	s.logger.InfoContext(ctx, "seed complete", "created", sum.Created, "existing", sum.Existing)
	return sum, nil
}

func (s *Seeder) seedAdmin(ctx context.Context, cfg config.SeedConfig, now time.Time, sum *Summary) error {
	role, created, err := s.stores.Accounts.UpsertRole(ctx, &Role{
		ID:          id.NewID(),
		Libelle:     "Admin",
		Description: "System administrator",
	})
	if err != nil {
		return err
	}
	sum.record(created)

	hash, err := HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	user, created, err := s.stores.Accounts.UpsertUser(ctx, &User{
		ID:           id.NewID(),
		Nom:          "Admin",
		Prenom:       "Principal",
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		RoleID:       role.ID,
		CreatedAt:    now,
	})
	if err != nil {
		return err
	}
	sum.record(created)
	s.logger.InfoContext(ctx, "admin account ready", "email", user.Email, "created", created)
	return nil
}

func (s *Seeder) ensureClient(ctx context.Context, f clientFixture, now time.Time) (*clientModels.Client, bool, error) {
	cni, err := id.ParseCNI(f.cni)
	if err != nil {
		return nil, false, fmt.Errorf("seed client %s: %w", f.cni, err)
	}
	existing, err := s.stores.Clients.FindByCNI(ctx, cni)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, false, fmt.Errorf("find client %s: %w", f.cni, err)
	}

	client, err := clientModels.NewClient(f.nom, f.prenom, cni, now)
	if err != nil {
		return nil, false, fmt.Errorf("seed client %s: %w", f.cni, err)
	}
	if err := s.stores.Clients.Create(ctx, client); err != nil {
		return nil, false, fmt.Errorf("create client %s: %w", f.cni, err)
	}
	return client, true, nil
}

func (s *Seeder) ensureNumero(ctx context.Context, f numeroFixture, owner *clientModels.Client, now time.Time) (bool, error) {
	phone, err := id.ParsePhoneNumber(f.phone)
	if err != nil {
		return false, fmt.Errorf("seed numero %s: %w", f.phone, err)
	}
	_, err = s.stores.Numeros.FindByPhoneNumber(ctx, phone)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return false, fmt.Errorf("find numero %s: %w", f.phone, err)
	}

	err = s.stores.Numeros.Create(ctx, &numeroModels.NumeroClient{
		ID:          id.NewID(),
		PhoneNumber: phone,
		CNI:         owner.CNI.String(),
		Status:      f.status,
		ClientID:    owner.ID,
		CreatedAt:   now,
	})
	if err != nil {
		return false, fmt.Errorf("create numero %s: %w", f.phone, err)
	}
	return true, nil
}

func (s *Seeder) ensureDemande(ctx context.Context, f demandeFixture, now time.Time) (*demandeModels.Demande, bool, error) {
	existing, err := s.stores.Demandes.ListByAccount(ctx, f.account)
	if err != nil {
		return nil, false, fmt.Errorf("list demandes for %s: %w", f.account, err)
	}
	for _, d := range existing {
		if d.Type == f.typ && d.Content == f.content {
			return d, false, nil
		}
	}

	d := &demandeModels.Demande{
		ID:      id.NewID(),
		Type:    f.typ,
		Content: f.content,
		Status:  f.status,
		Account: f.account,
		Date:    now,
	}
	if err := s.stores.Demandes.Create(ctx, d); err != nil {
		return nil, false, fmt.Errorf("create demande for %s: %w", f.account, err)
	}
	return d, true, nil
}

func (s *Seeder) ensureLog(ctx context.Context, l *auditlogModels.Log, now time.Time) (bool, error) {
	existing, err := s.stores.Logs.List(ctx)
	if err != nil {
		return false, fmt.Errorf("list logs: %w", err)
	}
	for _, e := range existing {
		if e.Action == l.Action && e.Message == l.Message {
			return false, nil
		}
	}

	l.ID = id.NewID()
	l.CreatedAt = now
	if err := s.stores.Logs.Create(ctx, l); err != nil {
		return false, fmt.Errorf("create %s log: %w", l.Action, err)
	}
	return true, nil
}
