package license

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"aikifed/pkg/platform/sentinel"
)

// InMemory keeps licenses in a mutex-guarded map. Used in tests and
// when no database is configured.
type InMemory struct {
	mu       sync.RWMutex
	licenses map[string]License
}

func NewInMemory() *InMemory {
	return &InMemory{licenses: make(map[string]License)}
}

func (s *InMemory) FindAll(_ context.Context, limit int) ([]*License, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(limit, func(License) bool { return true }), nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (*License, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.licenses[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := l
	return &copied, nil
}

func (s *InMemory) FindByLicenseNumber(_ context.Context, licenseNumber string) (*License, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.licenses {
		if strings.EqualFold(l.LicenseNumber, licenseNumber) {
			copied := l
			return &copied, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByMemberID(_ context.Context, memberID string, limit int) ([]*License, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(limit, func(l License) bool { return l.MemberID == memberID }), nil
}

func (s *InMemory) FindByClubID(_ context.Context, clubID string, limit int) ([]*License, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(limit, func(l License) bool { return l.ClubID == clubID }), nil
}

func (s *InMemory) FindByStatus(_ context.Context, status Status, limit int) ([]*License, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(limit, func(l License) bool { return l.Status == status }), nil
}

func (s *InMemory) FindByType(_ context.Context, licenseType Type, limit int) ([]*License, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(limit, func(l License) bool { return l.Type == licenseType }), nil
}

func (s *InMemory) FindExpiringSoon(_ context.Context, now, deadline time.Time, limit int) ([]*License, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(limit, func(l License) bool {
		return l.Status == StatusActive &&
			l.ExpirationDate.After(now) &&
			!l.ExpirationDate.After(deadline)
	}), nil
}

func (s *InMemory) Create(_ context.Context, l *License) (*License, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.licenses {
		if strings.EqualFold(existing.LicenseNumber, l.LicenseNumber) {
			return nil, sentinel.ErrAlreadyUsed
		}
	}
	copied := *l
	copied.ID = uuid.NewString()
	s.licenses[copied.ID] = copied
	out := copied
	return &out, nil
}

func (s *InMemory) Update(_ context.Context, l *License) (*License, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.licenses[l.ID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *l
	s.licenses[copied.ID] = copied
	out := copied
	return &out, nil
}

func (s *InMemory) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.licenses[id]; !ok {
		return false, nil
	}
	delete(s.licenses, id)
	return true, nil
}

func (s *InMemory) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.licenses[id]
	return ok, nil
}

func (s *InMemory) collect(limit int, match func(License) bool) []*License {
	var out []*License
	for _, l := range s.licenses {
		if match(l) {
			copied := l
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
