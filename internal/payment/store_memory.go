package payment

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"aikifed/pkg/platform/sentinel"
)

// InMemory keeps payments in a mutex-guarded map. Used in tests and
// when no database is configured.
type InMemory struct {
	mu       sync.RWMutex
	payments map[string]Payment
}

func NewInMemory() *InMemory {
	return &InMemory{payments: make(map[string]Payment)}
}

func (s *InMemory) FindAll(_ context.Context, limit int) ([]*Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(limit, func(Payment) bool { return true }), nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (*Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payments[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := p
	return &copied, nil
}

func (s *InMemory) FindByTransactionID(_ context.Context, transactionID string) (*Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.payments {
		if p.TransactionID != "" && p.TransactionID == transactionID {
			copied := p
			return &copied, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByMemberID(_ context.Context, memberID string, limit int) ([]*Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(limit, func(p Payment) bool { return p.MemberID == memberID }), nil
}

func (s *InMemory) FindByStatus(_ context.Context, status Status, limit int) ([]*Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(limit, func(p Payment) bool { return p.Status == status }), nil
}

func (s *InMemory) FindByType(_ context.Context, paymentType Type, limit int) ([]*Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(limit, func(p Payment) bool { return p.Type == paymentType }), nil
}

func (s *InMemory) Create(_ context.Context, p *Payment) (*Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *p
	copied.ID = uuid.NewString()
	s.payments[copied.ID] = copied
	out := copied
	return &out, nil
}

func (s *InMemory) Update(_ context.Context, p *Payment) (*Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.payments[p.ID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *p
	s.payments[copied.ID] = copied
	out := copied
	return &out, nil
}

func (s *InMemory) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.payments[id]; !ok {
		return false, nil
	}
	delete(s.payments, id)
	return true, nil
}

func (s *InMemory) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.payments[id]
	return ok, nil
}

func (s *InMemory) collect(limit int, match func(Payment) bool) []*Payment {
	var out []*Payment
	for _, p := range s.payments {
		if match(p) {
			copied := p
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
