package insurance

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"aikifed/pkg/platform/sentinel"
)

// InMemory keeps policies in a mutex-guarded map. Used in tests and
// when no database is configured.
type InMemory struct {
	mu       sync.RWMutex
	policies map[string]Insurance
}

func NewInMemory() *InMemory {
	return &InMemory{policies: make(map[string]Insurance)}
}

func (s *InMemory) FindAll(_ context.Context, limit int) ([]*Insurance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(limit, func(Insurance) bool { return true }), nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (*Insurance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.policies[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := i
	return &copied, nil
}

func (s *InMemory) FindByPolicyNumber(_ context.Context, policyNumber string) (*Insurance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, i := range s.policies {
		if strings.EqualFold(i.PolicyNumber, policyNumber) {
			copied := i
			return &copied, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByMemberID(_ context.Context, memberID string, limit int) ([]*Insurance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(limit, func(i Insurance) bool { return i.MemberID == memberID }), nil
}

func (s *InMemory) FindByStatus(_ context.Context, status Status, limit int) ([]*Insurance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(limit, func(i Insurance) bool { return i.Status == status }), nil
}

func (s *InMemory) FindExpiringSoon(_ context.Context, now, deadline time.Time, limit int) ([]*Insurance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(limit, func(i Insurance) bool {
		return i.Status == StatusActive &&
			i.EndDate.After(now) &&
			!i.EndDate.After(deadline)
	}), nil
}

func (s *InMemory) Create(_ context.Context, i *Insurance) (*Insurance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.policies {
		if strings.EqualFold(existing.PolicyNumber, i.PolicyNumber) {
			return nil, sentinel.ErrAlreadyUsed
		}
	}
	copied := *i
	copied.ID = uuid.NewString()
	s.policies[copied.ID] = copied
	out := copied
	return &out, nil
}

func (s *InMemory) Update(_ context.Context, i *Insurance) (*Insurance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.policies[i.ID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *i
	s.policies[copied.ID] = copied
	out := copied
	return &out, nil
}

func (s *InMemory) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.policies[id]; !ok {
		return false, nil
	}
	delete(s.policies, id)
	return true, nil
}

func (s *InMemory) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.policies[id]
	return ok, nil
}

func (s *InMemory) collect(limit int, match func(Insurance) bool) []*Insurance {
	var out []*Insurance
	for _, i := range s.policies {
		if match(i) {
			copied := i
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
