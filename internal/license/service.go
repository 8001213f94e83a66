package license

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"aikifed/internal/audit"
	"aikifed/internal/platform/metrics"
	"aikifed/internal/platform/middleware"
	"aikifed/internal/platform/redis"
	dErrors "aikifed/pkg/domain-errors"
	"aikifed/pkg/platform/sentinel"
)

const entityName = "license"

// MemberDirectory is the narrow view of the member store the license service
// needs for reference checks.
type MemberDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// ClubDirectory is the narrow view of the club store used for reference
// checks.
type ClubDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Service orchestrates license lifecycle: number uniqueness, member and club
// reference checks, renewal and revocation, lazy expiry reconciliation.
type Service struct {
	store          Store
	members        MemberDirectory
	clubs          ClubDirectory
	logger         *slog.Logger
	auditor        audit.Publisher
	metrics        *metrics.Metrics
	cache          *redis.Client
	expiryCacheTTL time.Duration
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

// WithExpiryCache caches expiring-soon listings in Redis for ttl. Listings
// tolerate the staleness; there is no invalidation on writes.
func WithExpiryCache(c *redis.Client, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.expiryCacheTTL = ttl
	}
}

func NewService(store Store, members MemberDirectory, clubs ClubDirectory, opts ...Option) *Service {
	s := &Service{store: store, members: members, clubs: clubs, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateParams carries the fields accepted at creation time.
type CreateParams struct {
	LicenseNumber  string
	MemberID       string
	ClubID         string
	AssociationID  string
	Type           Type
	Grade          string
	IssueDate      time.Time
	ExpirationDate time.Time
}

func (s *Service) Create(ctx context.Context, p CreateParams) (*License, error) {
	if _, err := s.store.FindByLicenseNumber(ctx, p.LicenseNumber); err == nil {
		return nil, dErrors.New(dErrors.CodeConflict, "license with this number already exists")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check license number")
	}

	if err := s.checkMember(ctx, p.MemberID); err != nil {
		return nil, err
	}
	if err := s.checkClub(ctx, p.ClubID); err != nil {
		return nil, err
	}

	l, err := New(p.LicenseNumber, p.MemberID, p.ClubID, p.AssociationID,
		p.Type, p.Grade, p.IssueDate, p.ExpirationDate, time.Now())
	if err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, l)
	if err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "license with this number already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create license")
	}
	s.emit(ctx, created.ID, audit.ActionCreated, "")
	s.metrics.IncrementCreated(entityName)
	return created, nil
}

// Get fetches a license, reconciling expiry first.
func (s *Service) Get(ctx context.Context, id string) (*License, error) {
	l, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	return s.reconcile(ctx, l)
}

// ListParams narrows the license listing. At most one filter applies, in the
// order member, club, status, type.
type ListParams struct {
	MemberID string
	ClubID   string
	Status   Status
	Type     Type
	Limit    int
}

func (s *Service) List(ctx context.Context, p ListParams) ([]*License, error) {
	if p.Limit <= 0 {
		p.Limit = 100
	}
	var (
		out []*License
		err error
	)
	switch {
	case p.MemberID != "":
		out, err = s.store.FindByMemberID(ctx, p.MemberID, p.Limit)
	case p.ClubID != "":
		out, err = s.store.FindByClubID(ctx, p.ClubID, p.Limit)
	case p.Status != "":
		out, err = s.store.FindByStatus(ctx, p.Status, p.Limit)
	case p.Type != "":
		out, err = s.store.FindByType(ctx, p.Type, p.Limit)
	default:
		out, err = s.store.FindAll(ctx, p.Limit)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list licenses")
	}
	return out, nil
}

// ListExpiringSoon returns active licenses expiring within the given number
// of days. Results are cached when a cache is configured.
func (s *Service) ListExpiringSoon(ctx context.Context, days, limit int) ([]*License, error) {
	if days <= 0 {
		days = 30
	}
	if limit <= 0 {
		limit = 100
	}
	key := fmt.Sprintf("licenses:expiring:%d:%d", days, limit)
	var cached []*License
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}
	now := time.Now()
	out, err := s.store.FindExpiringSoon(ctx, now, now.AddDate(0, 0, days), limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list expiring licenses")
	}
	s.cache.SetJSON(ctx, key, out, s.expiryCacheTTL)
	return out, nil
}

func (s *Service) Update(ctx context.Context, id string, patch *Patch) (*License, error) {
	l, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	if patch.ClubID != nil {
		if err := s.checkClub(ctx, *patch.ClubID); err != nil {
			return nil, err
		}
	}
	if err := l.ApplyPatch(patch, time.Now()); err != nil {
		return nil, err
	}
	updated, err := s.store.Update(ctx, l)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update license")
	}
	s.emit(ctx, updated.ID, audit.ActionUpdated, "")
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	exists, err := s.store.Exists(ctx, id)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check license")
	}
	if !exists {
		return false, dErrors.New(dErrors.CodeNotFound, "license not found")
	}
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete license")
	}
	if deleted {
		s.emit(ctx, id, audit.ActionDeleted, "")
		s.metrics.IncrementDeleted(entityName)
	}
	return deleted, nil
}

// Renew extends the license to a new expiration date. Expiry is reconciled
// first so a stale active-but-overdue license renews from expired.
func (s *Service) Renew(ctx context.Context, id string, newExpiration time.Time) (*License, error) {
	l, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	now := time.Now()
	l.CheckAndUpdateStatus(now)
	if err := l.Renew(newExpiration, now); err != nil {
		return nil, err
	}
	updated, err := s.store.Update(ctx, l)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to renew license")
	}
	s.emit(ctx, updated.ID, audit.ActionRenewed, "expires "+newExpiration.Format(time.RFC3339))
	s.metrics.IncrementLicenseRenewed()
	return updated, nil
}

// Revoke moves the license to the terminal revoked state.
func (s *Service) Revoke(ctx context.Context, id string) (*License, error) {
	l, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	l.Revoke(time.Now())
	updated, err := s.store.Update(ctx, l)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke license")
	}
	s.emit(ctx, updated.ID, audit.ActionRevoked, "")
	return updated, nil
}

// UpdateGrade changes the grade on the license.
func (s *Service) UpdateGrade(ctx context.Context, id, grade string) (*License, error) {
	l, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	if err := l.UpdateGrade(grade, time.Now()); err != nil {
		return nil, err
	}
	updated, err := s.store.Update(ctx, l)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update license")
	}
	s.emit(ctx, updated.ID, audit.ActionUpdated, "grade "+grade)
	return updated, nil
}

// reconcile persists a lazy active-to-expired flip before returning the
// license.
func (s *Service) reconcile(ctx context.Context, l *License) (*License, error) {
	if !l.CheckAndUpdateStatus(time.Now()) {
		return l, nil
	}
	updated, err := s.store.Update(ctx, l)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to reconcile license status")
	}
	s.emit(ctx, updated.ID, audit.ActionExpired, "")
	return updated, nil
}

func (s *Service) checkMember(ctx context.Context, memberID string) error {
	if memberID == "" || s.members == nil {
		return nil
	}
	exists, err := s.members.Exists(ctx, memberID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check member reference")
	}
	if !exists {
		return dErrors.New(dErrors.CodeBadRequest, "referenced member does not exist")
	}
	return nil
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
		return dErrors.New(dErrors.CodeNotFound, "license not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "license lookup failed")
}
