package member

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"aikifed/pkg/platform/sentinel"
)

// InMemory keeps members in a mutex-guarded map. Used in tests and when
// no database is configured.
type InMemory struct {
	mu      sync.RWMutex
	members map[string]Member
}

func NewInMemory() *InMemory {
	return &InMemory{members: make(map[string]Member)}
}

func (s *InMemory) FindAll(_ context.Context, limit int) ([]*Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(limit, func(Member) bool { return true }), nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (*Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := m
	return &copied, nil
}

func (s *InMemory) FindByDNI(_ context.Context, dni string) (*Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.members {
		if strings.EqualFold(m.DNI, dni) {
			copied := m
			return &copied, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByEmail(_ context.Context, email string) (*Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.members {
		if strings.EqualFold(m.Email, email) {
			copied := m
			return &copied, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByClubID(_ context.Context, clubID string, limit int) ([]*Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(limit, func(m Member) bool { return m.ClubID == clubID }), nil
}

func (s *InMemory) FindByStatus(_ context.Context, status Status, limit int) ([]*Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(limit, func(m Member) bool { return m.Status == status }), nil
}

func (s *InMemory) Search(_ context.Context, query string, limit int) ([]*Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := strings.ToLower(query)
	return s.collect(limit, func(m Member) bool {
		return strings.Contains(strings.ToLower(m.FirstName), q) ||
			strings.Contains(strings.ToLower(m.LastName), q) ||
			strings.Contains(strings.ToLower(m.DNI), q)
	}), nil
}

func (s *InMemory) Create(_ context.Context, m *Member) (*Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.members {
		if strings.EqualFold(existing.DNI, m.DNI) || strings.EqualFold(existing.Email, m.Email) {
			return nil, sentinel.ErrAlreadyUsed
		}
	}
	copied := *m
	copied.ID = uuid.NewString()
	s.members[copied.ID] = copied
	out := copied
	return &out, nil
}

func (s *InMemory) Update(_ context.Context, m *Member) (*Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[m.ID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	for id, existing := range s.members {
		if id == m.ID {
			continue
		}
		if strings.EqualFold(existing.DNI, m.DNI) || strings.EqualFold(existing.Email, m.Email) {
			return nil, sentinel.ErrAlreadyUsed
		}
	}
	copied := *m
	s.members[copied.ID] = copied
	out := copied
	return &out, nil
}

func (s *InMemory) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[id]; !ok {
		return false, nil
	}
	delete(s.members, id)
	return true, nil
}

func (s *InMemory) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.members[id]
	return ok, nil
}

func (s *InMemory) collect(limit int, match func(Member) bool) []*Member {
	var out []*Member
	for _, m := range s.members {
		if match(m) {
			copied := m
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
