package association

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"aikifed/pkg/platform/sentinel"
)

// InMemory keeps associations in a map. Concurrency-safe; used in tests and
// when no Postgres URL is configured.
type InMemory struct {
	mu    sync.RWMutex
	items map[string]*Association
}

func NewInMemory() *InMemory {
	return &InMemory{items: make(map[string]*Association)}
}

func (s *InMemory) FindAll(_ context.Context, limit int) ([]*Association, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Association, 0, len(s.items))
	for _, a := range s.items {
		if len(out) >= limit {
			break
		}
		copied := *a
		out = append(out, &copied)
	}
	return out, nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (*Association, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.items[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (s *InMemory) FindByEmail(_ context.Context, email string) (*Association, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.items {
		if strings.EqualFold(a.Email, email) {
			copied := *a
			return &copied, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) Create(_ context.Context, a *Association) (*Association, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if strings.EqualFold(existing.Email, a.Email) {
			return nil, sentinel.ErrAlreadyUsed
		}
	}
	copied := *a
	copied.ID = uuid.NewString()
	s.items[copied.ID] = &copied
	result := copied
	return &result, nil
}

func (s *InMemory) Update(_ context.Context, a *Association) (*Association, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[a.ID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *a
	s.items[a.ID] = &copied
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
