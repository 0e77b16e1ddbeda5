// Package store persists audit logs.
package store

import (
	"context"
	"sort"
	"sync"

	"gesclient/internal/auditlog/models"
	id "gesclient/pkg/domain"
	"gesclient/pkg/platform/sentinel"
)

type InMemory struct {
	mu   sync.RWMutex
	logs map[id.ID]*models.Log
}

func NewInMemory() *InMemory {
	return &InMemory{logs: make(map[id.ID]*models.Log)}
}

func (s *InMemory) Create(_ context.Context, l *models.Log) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs[l.ID] = clone(l)
	return nil
}

// List returns every log, newest first.
func (s *InMemory) List(_ context.Context) ([]*models.Log, error) {
	return s.filter(func(*models.Log) bool { return true }), nil
}

// ListByDemandeIDs returns the logs referencing any of the given demandes,
// newest first.
func (s *InMemory) ListByDemandeIDs(_ context.Context, demandeIDs []id.ID) ([]*models.Log, error) {
	wanted := make(map[id.ID]struct{}, len(demandeIDs))
	for _, d := range demandeIDs {
		wanted[d] = struct{}{}
	}
	return s.filter(func(l *models.Log) bool {
		if l.DemandeID == nil {
			return false
		}
		_, ok := wanted[*l.DemandeID]
		return ok
	}), nil
}

func (s *InMemory) filter(keep func(*models.Log) bool) []*models.Log {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Log, 0)
	for _, l := range s.logs {
		if keep(l) {
			out = append(out, clone(l))
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

func (s *InMemory) FindByID(_ context.Context, logID id.ID) (*models.Log, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.logs[logID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(l), nil
}

func (s *InMemory) Update(_ context.Context, l *models.Log) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.logs[l.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.logs[l.ID] = clone(l)
	return nil
}

func (s *InMemory) Delete(_ context.Context, logID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.logs[logID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.logs, logID)
	return nil
}

func clone(l *models.Log) *models.Log {
	cp := *l
	if l.UserID != nil {
		u := *l.UserID
		cp.UserID = &u
	}
	if l.DemandeID != nil {
		d := *l.DemandeID
		cp.DemandeID = &d
	}
	return &cp
}
