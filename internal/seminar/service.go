package seminar

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

const entityName = "seminar"

// ClubDirectory is the narrow view of the club store used for organizer
// reference checks.
type ClubDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Service orchestrates seminar lifecycle and participant registration.
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
	Title           string
	Description     string
	Instructor      string
	Location        string
	Address         string
	City            string
	Province        string
	StartDate       time.Time
	EndDate         time.Time
	Price           float64
	MaxParticipants *int
	OrganizerClubID string
	AssociationID   string
}

func (s *Service) Create(ctx context.Context, p CreateParams) (*Seminar, error) {
	if err := s.checkClub(ctx, p.OrganizerClubID); err != nil {
		return nil, err
	}

	sem, err := New(p.Title, p.Description, p.Instructor, p.Location, p.Address,
		p.City, p.Province, p.StartDate, p.EndDate, p.Price, p.MaxParticipants,
		p.OrganizerClubID, p.AssociationID, time.Now())
	if err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, sem)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create seminar")
	}
	s.emit(ctx, created.ID, audit.ActionCreated, "")
	s.metrics.IncrementCreated(entityName)
	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Seminar, error) {
	sem, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	return sem, nil
}

// ListParams narrows the seminar listing.
type ListParams struct {
	OrganizerClubID string
	Status          Status
	Limit           int
}

func (s *Service) List(ctx context.Context, p ListParams) ([]*Seminar, error) {
	if p.Limit <= 0 {
		p.Limit = 100
	}
	var (
		out []*Seminar
		err error
	)
	switch {
	case p.OrganizerClubID != "":
		out, err = s.store.FindByOrganizerClubID(ctx, p.OrganizerClubID, p.Limit)
	case p.Status != "":
		out, err = s.store.FindByStatus(ctx, p.Status, p.Limit)
	default:
		out, err = s.store.FindAll(ctx, p.Limit)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list seminars")
	}
	return out, nil
}

// ListUpcoming returns seminars that have not started yet, soonest first.
func (s *Service) ListUpcoming(ctx context.Context, limit int) ([]*Seminar, error) {
	if limit <= 0 {
		limit = 100
	}
	out, err := s.store.FindUpcoming(ctx, time.Now(), limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list upcoming seminars")
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, id string, patch *Patch) (*Seminar, error) {
	sem, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	if patch.OrganizerClubID != nil {
		if err := s.checkClub(ctx, *patch.OrganizerClubID); err != nil {
			return nil, err
		}
	}
	if err := sem.ApplyPatch(patch, time.Now()); err != nil {
		return nil, err
	}
	updated, err := s.store.Update(ctx, sem)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update seminar")
	}
	s.emit(ctx, updated.ID, audit.ActionUpdated, "")
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	exists, err := s.store.Exists(ctx, id)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check seminar")
	}
	if !exists {
		return false, dErrors.New(dErrors.CodeNotFound, "seminar not found")
	}
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete seminar")
	}
	if deleted {
		s.emit(ctx, id, audit.ActionDeleted, "")
		s.metrics.IncrementDeleted(entityName)
	}
	return deleted, nil
}

// Start marks the seminar ongoing.
func (s *Service) Start(ctx context.Context, id string) (*Seminar, error) {
	return s.transition(ctx, id, (*Seminar).MarkOngoing, audit.ActionUpdated)
}

// Complete marks the seminar completed.
func (s *Service) Complete(ctx context.Context, id string) (*Seminar, error) {
	return s.transition(ctx, id, (*Seminar).MarkCompleted, audit.ActionCompleted)
}

// Cancel aborts the seminar.
func (s *Service) Cancel(ctx context.Context, id string) (*Seminar, error) {
	sem, err := s.transition(ctx, id, (*Seminar).Cancel, audit.ActionCancelled)
	if err != nil {
		return nil, err
	}
	s.metrics.IncrementSeminarCancelled()
	return sem, nil
}

// AddParticipant registers an attendee, failing once the seminar is full.
func (s *Service) AddParticipant(ctx context.Context, id string) (*Seminar, error) {
	return s.transition(ctx, id, (*Seminar).AddParticipant, audit.ActionUpdated)
}

// RemoveParticipant unregisters an attendee.
func (s *Service) RemoveParticipant(ctx context.Context, id string) (*Seminar, error) {
	sem, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	sem.RemoveParticipant(time.Now())
	updated, err := s.store.Update(ctx, sem)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update seminar")
	}
	s.emit(ctx, updated.ID, audit.ActionUpdated, "participant removed")
	return updated, nil
}

func (s *Service) transition(ctx context.Context, id string, op func(*Seminar, time.Time) error, action audit.Action) (*Seminar, error) {
	sem, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	if err := op(sem, time.Now()); err != nil {
		return nil, err
	}
	updated, err := s.store.Update(ctx, sem)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update seminar")
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
		return dErrors.New(dErrors.CodeNotFound, "seminar not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "seminar lookup failed")
}
