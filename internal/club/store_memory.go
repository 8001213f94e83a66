package club

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"aikifed/pkg/platform/sentinel"
)

// InMemory keeps clubs in a map. Concurrency-safe; used in tests and when no
// Postgres URL is configured.
type InMemory struct {
	mu    sync.RWMutex
	items map[string]*Club
}

func NewInMemory() *InMemory {
	return &InMemory{items: make(map[string]*Club)}
}

func (s *InMemory) FindAll(_ context.Context, limit int) ([]*Club, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Club, 0, len(s.items))
	for _, c := range s.items {
		if len(out) >= limit {
			break
		}
		copied := *c
		out = append(out, &copied)
	}
	return out, nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (*Club, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.items[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *InMemory) FindByFederationNumber(_ context.Context, federationNumber string) (*Club, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.items {
		if strings.EqualFold(c.FederationNumber, federationNumber) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByAssociationID(_ context.Context, associationID string, limit int) ([]*Club, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Club
	for _, c := range s.items {
		if len(out) >= limit {
			break
		}
		if c.AssociationID == associationID {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *InMemory) Create(_ context.Context, c *Club) (*Club, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if strings.EqualFold(existing.FederationNumber, c.FederationNumber) {
			return nil, sentinel.ErrAlreadyUsed
		}
	}
	copied := *c
	copied.ID = uuid.NewString()
	s.items[copied.ID] = &copied
	result := copied
	return &result, nil
}

func (s *InMemory) Update(_ context.Context, c *Club) (*Club, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[c.ID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *c
	s.items[c.ID] = &copied
	result := copied
	return &result, nil
}

func (s *InMemory) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

func (s *InMemory) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[id]
	return ok, nil
}
