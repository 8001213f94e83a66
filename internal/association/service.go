package association

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"aikifed/internal/audit"
	"aikifed/internal/platform/metrics"
	"aikifed/internal/platform/middleware"
	dErrors "aikifed/pkg/domain-errors"
	"aikifed/pkg/platform/sentinel"
)

const entityName = "association"

// Service orchestrates association lifecycle: uniqueness on create, patch
// updates validated as a unit, idempotent activation toggles.
type Service struct {
	store   Store
	logger  *slog.Logger
	auditor audit.Publisher
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(p audit.Publisher) Option {
	return func(s *Service) { s.auditor = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateParams carries the fields accepted at creation time.
type CreateParams struct {
	Name       string
	Address    string
	City       string
	Province   string
	PostalCode string
	Country    string
	Phone      string
	Email      string
	CIF        string
}

func (s *Service) Create(ctx context.Context, p CreateParams) (*Association, error) {
	if _, err := s.store.FindByEmail(ctx, p.Email); err == nil {
		return nil, dErrors.New(dErrors.CodeConflict, "association with this email already exists")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check association email")
	}

	a, err := New(p.Name, p.Address, p.City, p.Province, p.PostalCode, p.Country, p.Phone, p.Email, p.CIF, time.Now())
	if err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, a)
	if err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "association with this email already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create association")
	}
	s.emit(ctx, created.ID, audit.ActionCreated, "")
	s.metrics.IncrementCreated(entityName)
	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Association, error) {
	a, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, limit int) ([]*Association, error) {
	if limit <= 0 {
		limit = 100
	}
	out, err := s.store.FindAll(ctx, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list associations")
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, id string, patch *Patch) (*Association, error) {
	a, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	if err := a.ApplyPatch(patch, time.Now()); err != nil {
		return nil, err
	}
	updated, err := s.store.Update(ctx, a)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update association")
	}
	s.emit(ctx, updated.ID, audit.ActionUpdated, "")
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	exists, err := s.store.Exists(ctx, id)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check association")
	}
	if !exists {
		return false, dErrors.New(dErrors.CodeNotFound, "association not found")
	}
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete association")
	}
	if deleted {
		s.emit(ctx, id, audit.ActionDeleted, "")
		s.metrics.IncrementDeleted(entityName)
	}
	return deleted, nil
}

// Activate sets the association active. Idempotent by design.
func (s *Service) Activate(ctx context.Context, id string) (*Association, error) {
	return s.toggle(ctx, id, true)
}

// Deactivate sets the association inactive. Idempotent by design.
func (s *Service) Deactivate(ctx context.Context, id string) (*Association, error) {
	return s.toggle(ctx, id, false)
}

func (s *Service) toggle(ctx context.Context, id string, active bool) (*Association, error) {
	a, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	action := audit.ActionDeactivated
	if active {
		a.Activate(time.Now())
		action = audit.ActionActivated
	} else {
		a.Deactivate(time.Now())
	}
	updated, err := s.store.Update(ctx, a)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update association")
	}
	s.emit(ctx, updated.ID, action, "")
	return updated, nil
}

func (s *Service) emit(ctx context.Context, id string, action audit.Action, detail string) {
	if s.auditor == nil {
		return
	}
	_ = s.auditor.Emit(ctx, audit.Event{
		Entity:    entityName,
		EntityID:  id,
		Action:    action,
		Detail:    detail,
		RequestID: middleware.GetRequestID(ctx),
	})
}

func notFoundOrInternal(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "association not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "association lookup failed")
}
