package club

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

const entityName = "club"

// AssociationDirectory is the narrow view of the association store the club
// service needs for reference checks.
type AssociationDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Service orchestrates club lifecycle: federation-number uniqueness on
// create, association reference checks, patch updates.
type Service struct {
	store        Store
	associations AssociationDirectory
	logger       *slog.Logger
	auditor      audit.Publisher
	metrics      *metrics.Metrics
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

func NewService(store Store, associations AssociationDirectory, opts ...Option) *Service {
	s := &Service{store: store, associations: associations, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateParams carries the fields accepted at creation time.
type CreateParams struct {
	Name             string
	Address          string
	City             string
	Province         string
	PostalCode       string
	Country          string
	Phone            string
	Email            string
	FederationNumber string
	AssociationID    string
}

func (s *Service) Create(ctx context.Context, p CreateParams) (*Club, error) {
	if _, err := s.store.FindByFederationNumber(ctx, p.FederationNumber); err == nil {
		return nil, dErrors.New(dErrors.CodeConflict, "club with this federation number already exists")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check federation number")
	}

	if err := s.checkAssociation(ctx, p.AssociationID); err != nil {
		return nil, err
	}

	c, err := New(p.Name, p.Address, p.City, p.Province, p.PostalCode, p.Country,
		p.Phone, p.Email, p.FederationNumber, p.AssociationID, time.Now())
	if err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, c)
	if err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "club with this federation number already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create club")
	}
	s.emit(ctx, created.ID, audit.ActionCreated, "")
	s.metrics.IncrementCreated(entityName)
	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Club, error) {
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	return c, nil
}

// List returns clubs, optionally filtered by association.
func (s *Service) List(ctx context.Context, associationID string, limit int) ([]*Club, error) {
	if limit <= 0 {
		limit = 100
	}
	var (
		out []*Club
		err error
	)
	if associationID != "" {
		out, err = s.store.FindByAssociationID(ctx, associationID, limit)
	} else {
		out, err = s.store.FindAll(ctx, limit)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list clubs")
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, id string, patch *Patch) (*Club, error) {
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	if patch.AssociationID != nil {
		if err := s.checkAssociation(ctx, *patch.AssociationID); err != nil {
			return nil, err
		}
	}
	if err := c.ApplyPatch(patch, time.Now()); err != nil {
		return nil, err
	}
	updated, err := s.store.Update(ctx, c)
	if err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "club with this federation number already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update club")
	}
	s.emit(ctx, updated.ID, audit.ActionUpdated, "")
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	exists, err := s.store.Exists(ctx, id)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check club")
	}
	if !exists {
		return false, dErrors.New(dErrors.CodeNotFound, "club not found")
	}
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete club")
	}
	if deleted {
		s.emit(ctx, id, audit.ActionDeleted, "")
		s.metrics.IncrementDeleted(entityName)
	}
	return deleted, nil
}

// Activate sets the club active. Idempotent by design.
func (s *Service) Activate(ctx context.Context, id string) (*Club, error) {
	return s.toggle(ctx, id, true)
}

// Deactivate sets the club inactive. Idempotent by design.
func (s *Service) Deactivate(ctx context.Context, id string) (*Club, error) {
	return s.toggle(ctx, id, false)
}

func (s *Service) toggle(ctx context.Context, id string, active bool) (*Club, error) {
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	action := audit.ActionDeactivated
	if active {
		c.Activate(time.Now())
		action = audit.ActionActivated
	} else {
		c.Deactivate(time.Now())
	}
	updated, err := s.store.Update(ctx, c)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update club")
	}
	s.emit(ctx, updated.ID, action, "")
	return updated, nil
}

func (s *Service) checkAssociation(ctx context.Context, associationID string) error {
	if associationID == "" || s.associations == nil {
		return nil
	}
	exists, err := s.associations.Exists(ctx, associationID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check association reference")
	}
	if !exists {
		return dErrors.New(dErrors.CodeBadRequest, "referenced association does not exist")
	}
	return nil
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
		return dErrors.New(dErrors.CodeNotFound, "club not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "club lookup failed")
}
