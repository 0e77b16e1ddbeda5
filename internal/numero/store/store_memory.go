// Package store persists numeros with unique phone number and cni indexes.
package store

import (
	"context"
	"sort"
	"sync"

	"gesclient/internal/numero/models"
	id "gesclient/pkg/domain"
	"gesclient/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded numero store enforcing the unique indexes on
// phoneNumber and cni.
type InMemory struct {
	mu      sync.RWMutex
	numeros map[id.ID]*models.NumeroClient
	byPhone map[id.PhoneNumber]id.ID
	byCNI   map[string]id.ID
}

func NewInMemory() *InMemory {
	return &InMemory{
		numeros: make(map[id.ID]*models.NumeroClient),
		byPhone: make(map[id.PhoneNumber]id.ID),
		byCNI:   make(map[string]id.ID),
	}
}

func (s *InMemory) Create(_ context.Context, n *models.NumeroClient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byPhone[n.PhoneNumber]; taken {
		return sentinel.ErrConflict
	}
	if _, taken := s.byCNI[n.CNI]; taken {
		return sentinel.ErrConflict
	}
	s.put(n)
	return nil
}

func (s *InMemory) put(n *models.NumeroClient) {
	stored := *n
	s.numeros[n.ID] = &stored
	s.byPhone[n.PhoneNumber] = n.ID
	s.byCNI[n.CNI] = n.ID
}

// List returns numeros newest first.
func (s *InMemory) List(_ context.Context) ([]*models.NumeroClient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(*models.NumeroClient) bool { return true }), nil
}

// ListByClientID returns the numeros owned by a client, newest first.
func (s *InMemory) ListByClientID(_ context.Context, clientID id.ID) ([]*models.NumeroClient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(n *models.NumeroClient) bool { return n.ClientID == clientID }), nil
}

func (s *InMemory) collect(keep func(*models.NumeroClient) bool) []*models.NumeroClient {
	out := make([]*models.NumeroClient, 0)
	for _, n := range s.numeros {
		if keep(n) {
			cp := *n
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *InMemory) FindByID(_ context.Context, numeroID id.ID) (*models.NumeroClient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookup(numeroID, true)
}

func (s *InMemory) FindByPhoneNumber(_ context.Context, phone id.PhoneNumber) (*models.NumeroClient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	numeroID, ok := s.byPhone[phone]
	return s.lookup(numeroID, ok)
}

func (s *InMemory) FindByCNI(_ context.Context, cni string) (*models.NumeroClient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	numeroID, ok := s.byCNI[cni]
	return s.lookup(numeroID, ok)
}

func (s *InMemory) lookup(numeroID id.ID, ok bool) (*models.NumeroClient, error) {
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	n, ok := s.numeros[numeroID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (s *InMemory) Update(_ context.Context, n *models.NumeroClient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.numeros[n.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if owner, taken := s.byPhone[n.PhoneNumber]; taken && owner != n.ID {
		return sentinel.ErrConflict
	}
	if owner, taken := s.byCNI[n.CNI]; taken && owner != n.ID {
		return sentinel.ErrConflict
	}
	delete(s.byPhone, existing.PhoneNumber)
	delete(s.byCNI, existing.CNI)
	s.put(n)
	return nil
}

func (s *InMemory) Delete(_ context.Context, numeroID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.numeros[numeroID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byPhone, existing.PhoneNumber)
	delete(s.byCNI, existing.CNI)
	delete(s.numeros, numeroID)
	return nil
}
