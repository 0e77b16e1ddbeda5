// Package store persists demandes.
package store

import (
	"context"
	"sort"
	"sync"

	"gesclient/internal/demande/models"
	id "gesclient/pkg/domain"
	"gesclient/pkg/platform/sentinel"
)

type InMemory struct {
	mu       sync.RWMutex
	demandes map[id.ID]*models.Demande
}

func NewInMemory() *InMemory {
	return &InMemory{demandes: make(map[id.ID]*models.Demande)}
}

func (s *InMemory) Create(_ context.Context, d *models.Demande) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *d
	s.demandes[d.ID] = &stored
	return nil
}

// List returns every demande, most recent date first.
func (s *InMemory) List(_ context.Context) ([]*models.Demande, error) {
	return s.filter(func(*models.Demande) bool { return true }), nil
}

// ListByAccount returns the account's demandes, most recent date first.
func (s *InMemory) ListByAccount(_ context.Context, account string) ([]*models.Demande, error) {
	return s.filter(func(d *models.Demande) bool { return d.Account == account }), nil
}

func (s *InMemory) filter(keep func(*models.Demande) bool) []*models.Demande {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Demande, 0)
	for _, d := range s.demandes {
		if keep(d) {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID > out[j].ID
		}
		return out[i].Date.After(out[j].Date)
	})
	return out
}

func (s *InMemory) FindByID(_ context.Context, demandeID id.ID) (*models.Demande, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.demandes[demandeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *InMemory) Update(_ context.Context, d *models.Demande) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.demandes[d.ID]; !ok {
		return sentinel.ErrNotFound
	}
	stored := *d
	s.demandes[d.ID] = &stored
	return nil
}

func (s *InMemory) Delete(_ context.Context, demandeID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.demandes[demandeID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.demandes, demandeID)
	return nil
}
