package seminar

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"aikifed/pkg/platform/sentinel"
)

// InMemory keeps seminars in a mutex-guarded map. Used in tests and
// when no database is configured.
type InMemory struct {
	mu       sync.RWMutex
	seminars map[string]Seminar
}

func NewInMemory() *InMemory {
	return &InMemory{seminars: make(map[string]Seminar)}
}

func (s *InMemory) FindAll(_ context.Context, limit int) ([]*Seminar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(limit, func(Seminar) bool { return true }), nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (*Seminar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sem, ok := s.seminars[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := sem
	return &copied, nil
}

func (s *InMemory) FindByOrganizerClubID(_ context.Context, clubID string, limit int) ([]*Seminar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(limit, func(sem Seminar) bool { return sem.OrganizerClubID == clubID }), nil
}

func (s *InMemory) FindByStatus(_ context.Context, status Status, limit int) ([]*Seminar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(limit, func(sem Seminar) bool { return sem.Status == status }), nil
}

func (s *InMemory) FindUpcoming(_ context.Context, now time.Time, limit int) ([]*Seminar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.collect(0, func(sem Seminar) bool {
		return sem.Status == StatusUpcoming && sem.StartDate.After(now)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemory) Create(_ context.Context, sem *Seminar) (*Seminar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *sem
	copied.ID = uuid.NewString()
	s.seminars[copied.ID] = copied
	out := copied
	return &out, nil
}

func (s *InMemory) Update(_ context.Context, sem *Seminar) (*Seminar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seminars[sem.ID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *sem
	s.seminars[copied.ID] = copied
	out := copied
	return &out, nil
}

func (s *InMemory) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seminars[id]; !ok {
		return false, nil
	}
	delete(s.seminars, id)
	return true, nil
}

func (s *InMemory) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.seminars[id]
	return ok, nil
}

func (s *InMemory) collect(limit int, match func(Seminar) bool) []*Seminar {
	var out []*Seminar
	for _, sem := range s.seminars {
		if match(sem) {
			copied := sem
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
