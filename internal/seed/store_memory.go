package seed

import (
	"context"
	"sync"
)

// AccountInMemory is the process-local account store used by tests.
type AccountInMemory struct {
	mu    sync.Mutex
	roles map[string]*Role
	users map[string]*User
}

func NewAccountInMemory() *AccountInMemory {
	return &AccountInMemory{
		roles: make(map[string]*Role),
		users: make(map[string]*User),
	}
}

func (s *AccountInMemory) UpsertRole(_ context.Context, role *Role) (*Role, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.roles[role.Libelle]; ok {
		c := *existing
		return &c, false, nil
	}
	c := *role
	s.roles[role.Libelle] = &c
	return role, true, nil
}

func (s *AccountInMemory) UpsertUser(_ context.Context, user *User) (*User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.users[user.Email]; ok {
		c := *existing
		return &c, false, nil
	}
	c := *user
	s.users[user.Email] = &c
	return user, true, nil
}

func (s *AccountInMemory) User(email string) (*User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	return u, ok
}
