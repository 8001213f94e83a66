package member

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

const entityName = "member"

// ClubDirectory is the narrow view of the club store the member service
// needs for reference checks.
type ClubDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Service orchestrates member lifecycle: DNI and email uniqueness on create,
// club reference checks, status toggles and fragment search.
type Service struct {
	store   Store
	clubs   ClubDirectory
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

func NewService(store Store, clubs ClubDirectory, opts ...Option) *Service {
	s := &Service{store: store, clubs: clubs, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateParams carries the fields accepted at creation time.
type CreateParams struct {
	FirstName  string
	LastName   string
	DNI        string
	Email      string
	Phone      string
	Address    string
	City       string
	Province   string
	PostalCode string
	Country    string
	ClubID     string
	BirthDate  *time.Time
}

func (s *Service) Create(ctx context.Context, p CreateParams) (*Member, error) {
	if _, err := s.store.FindByDNI(ctx, p.DNI); err == nil {
		return nil, dErrors.New(dErrors.CodeConflict, "member with this DNI already exists")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check DNI")
	}
	if _, err := s.store.FindByEmail(ctx, p.Email); err == nil {
		return nil, dErrors.New(dErrors.CodeConflict, "member with this email already exists")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check email")
	}

	if err := s.checkClub(ctx, p.ClubID); err != nil {
		return nil, err
	}

	m, err := New(p.FirstName, p.LastName, p.DNI, p.Email, p.Phone, p.Address,
		p.City, p.Province, p.PostalCode, p.Country, p.ClubID, p.BirthDate, time.Now())
	if err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, m)
	if err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "member with this DNI or email already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create member")
	}
	s.emit(ctx, created.ID, audit.ActionCreated, "")
	s.metrics.IncrementCreated(entityName)
	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Member, error) {
	m, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	return m, nil
}

// ListParams narrows the member listing. Query searches name and DNI
// fragments and wins over the other filters when set.
type ListParams struct {
	ClubID string
	Status Status
	Query  string
	Limit  int
}

func (s *Service) List(ctx context.Context, p ListParams) ([]*Member, error) {
	if p.Limit <= 0 {
		p.Limit = 100
	}
	var (
		out []*Member
		err error
	)
	switch {
	case p.Query != "":
		out, err = s.store.Search(ctx, p.Query, p.Limit)
	case p.ClubID != "":
		out, err = s.store.FindByClubID(ctx, p.ClubID, p.Limit)
	case p.Status != "":
		out, err = s.store.FindByStatus(ctx, p.Status, p.Limit)
	default:
		out, err = s.store.FindAll(ctx, p.Limit)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list members")
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, id string, patch *Patch) (*Member, error) {
	m, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	if patch.ClubID != nil {
		if err := s.checkClub(ctx, *patch.ClubID); err != nil {
			return nil, err
		}
	}
	if err := m.ApplyPatch(patch, time.Now()); err != nil {
		return nil, err
	}
	updated, err := s.store.Update(ctx, m)
	if err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "member with this DNI or email already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update member")
	}
	s.emit(ctx, updated.ID, audit.ActionUpdated, "")
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	exists, err := s.store.Exists(ctx, id)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check member")
	}
	if !exists {
		return false, dErrors.New(dErrors.CodeNotFound, "member not found")
	}
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete member")
	}
	if deleted {
		s.emit(ctx, id, audit.ActionDeleted, "")
		s.metrics.IncrementDeleted(entityName)
	}
	return deleted, nil
}

// Activate sets the member active.
func (s *Service) Activate(ctx context.Context, id string) (*Member, error) {
	return s.setStatus(ctx, id, StatusActive, audit.ActionActivated)
}

// Deactivate sets the member inactive.
func (s *Service) Deactivate(ctx context.Context, id string) (*Member, error) {
	return s.setStatus(ctx, id, StatusInactive, audit.ActionDeactivated)
}

// Suspend sets the member suspended.
func (s *Service) Suspend(ctx context.Context, id string) (*Member, error) {
	return s.setStatus(ctx, id, StatusSuspended, audit.ActionSuspended)
}

func (s *Service) setStatus(ctx context.Context, id string, status Status, action audit.Action) (*Member, error) {
	m, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	now := time.Now()
	switch status {
	case StatusActive:
		m.Activate(now)
	case StatusInactive:
		m.Deactivate(now)
	case StatusSuspended:
		m.Suspend(now)
	}
	updated, err := s.store.Update(ctx, m)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update member")
	}
	s.emit(ctx, updated.ID, action, "")
	return updated, nil
}

func (s *Service) checkClub(ctx context.Context, clubID string) error {
	if clubID == "" || s.clubs == nil {
		return nil
	}
	exists, err := s.clubs.Exists(ctx, clubID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check club reference")
	}
	if !exists {
		return dErrors.New(dErrors.CodeBadRequest, "referenced club does not exist")
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
		return dErrors.New(dErrors.CodeNotFound, "member not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "member lookup failed")
}
