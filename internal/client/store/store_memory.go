// Package store persists clients. InMemory serves tests and local runs;
// Mongo is the production implementation.
package store

import (
	"context"
	"sort"
	"sync"

	"gesclient/internal/client/models"
	id "gesclient/pkg/domain"
	"gesclient/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded client store. It enforces the same unique
// index on cni as the Mongo collection.
type InMemory struct {
	mu      sync.RWMutex
	clients map[id.ID]*models.Client
	byCNI   map[id.CNI]id.ID
}

func NewInMemory() *InMemory {
	return &InMemory{
		clients: make(map[id.ID]*models.Client),
		byCNI:   make(map[id.CNI]id.ID),
	}
}

func (s *InMemory) Create(_ context.Context, client *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byCNI[client.CNI]; taken {
		return sentinel.ErrConflict
	}
	stored := *client
	s.clients[client.ID] = &stored
	s.byCNI[client.CNI] = client.ID
	return nil
}

// List returns clients oldest first.
func (s *InMemory) List(_ context.Context) ([]*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Client, 0, len(s.clients))
	for _, c := range s.clients {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemory) FindByID(_ context.Context, clientID id.ID) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[clientID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *InMemory) FindByCNI(_ context.Context, cni id.CNI) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clientID, ok := s.byCNI[cni]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *s.clients[clientID]
	return &cp, nil
}

func (s *InMemory) Update(_ context.Context, client *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.clients[client.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if owner, taken := s.byCNI[client.CNI]; taken && owner != client.ID {
		return sentinel.ErrConflict
	}
	delete(s.byCNI, existing.CNI)
	stored := *client
	s.clients[client.ID] = &stored
	s.byCNI[client.CNI] = client.ID
	return nil
}

func (s *InMemory) Delete(_ context.Context, clientID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.clients[clientID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byCNI, existing.CNI)
	delete(s.clients, clientID)
	return nil
}
