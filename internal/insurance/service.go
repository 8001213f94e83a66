package insurance

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

const entityName = "insurance"

// MemberDirectory is the narrow view of the member store used for reference
// checks.
type MemberDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Service orchestrates policy lifecycle: policy-number uniqueness, member
// reference checks, lazy expiry reconciliation.
type Service struct {
	store          Store
	members        MemberDirectory
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

// WithExpiryCache caches expiring-soon listings in Redis for ttl.
func WithExpiryCache(c *redis.Client, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.expiryCacheTTL = ttl
	}
}

func NewService(store Store, members MemberDirectory, opts ...Option) *Service {
	s := &Service{store: store, members: members, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateParams carries the fields accepted at creation time.
type CreateParams struct {
	PolicyNumber   string
	MemberID       string
	Type           Type
	Company        string
	CoverageAmount float64
	Premium        float64
	StartDate      time.Time
	EndDate        time.Time
}

func (s *Service) Create(ctx context.Context, p CreateParams) (*Insurance, error) {
	if _, err := s.store.FindByPolicyNumber(ctx, p.PolicyNumber); err == nil {
		return nil, dErrors.New(dErrors.CodeConflict, "insurance with this policy number already exists")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check policy number")
	}

	if err := s.checkMember(ctx, p.MemberID); err != nil {
		return nil, err
	}

	i, err := New(p.PolicyNumber, p.MemberID, p.Type, p.Company,
		p.CoverageAmount, p.Premium, p.StartDate, p.EndDate, time.Now())
	if err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, i)
	if err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "insurance with this policy number already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create insurance")
	}
	s.emit(ctx, created.ID, audit.ActionCreated, "")
	s.metrics.IncrementCreated(entityName)
	return created, nil
}

// Get fetches a policy, reconciling expiry first.
func (s *Service) Get(ctx context.Context, id string) (*Insurance, error) {
	i, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	return s.reconcile(ctx, i)
}

// ListParams narrows the policy listing.
type ListParams struct {
	MemberID string
	Status   Status
	Limit    int
}

func (s *Service) List(ctx context.Context, p ListParams) ([]*Insurance, error) {
	if p.Limit <= 0 {
		p.Limit = 100
	}
	var (
		out []*Insurance
		err error
	)
	switch {
	case p.MemberID != "":
		out, err = s.store.FindByMemberID(ctx, p.MemberID, p.Limit)
	case p.Status != "":
		out, err = s.store.FindByStatus(ctx, p.Status, p.Limit)
	default:
		out, err = s.store.FindAll(ctx, p.Limit)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list insurances")
	}
	return out, nil
}

// ListExpiringSoon returns active policies expiring within the given number
// of days. Results are cached when a cache is configured.
func (s *Service) ListExpiringSoon(ctx context.Context, days, limit int) ([]*Insurance, error) {
	if days <= 0 {
		days = 30
	}
	if limit <= 0 {
		limit = 100
	}
	key := fmt.Sprintf("insurances:expiring:%d:%d", days, limit)
	var cached []*Insurance
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}
	now := time.Now()
	out, err := s.store.FindExpiringSoon(ctx, now, now.AddDate(0, 0, days), limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list expiring insurances")
	}
	s.cache.SetJSON(ctx, key, out, s.expiryCacheTTL)
	return out, nil
}

func (s *Service) Update(ctx context.Context, id string, patch *Patch) (*Insurance, error) {
	i, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	if err := i.ApplyPatch(patch, time.Now()); err != nil {
		return nil, err
	}
	updated, err := s.store.Update(ctx, i)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update insurance")
	}
	s.emit(ctx, updated.ID, audit.ActionUpdated, "")
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	exists, err := s.store.Exists(ctx, id)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check insurance")
	}
	if !exists {
		return false, dErrors.New(dErrors.CodeNotFound, "insurance not found")
	}
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete insurance")
	}
	if deleted {
		s.emit(ctx, id, audit.ActionDeleted, "")
		s.metrics.IncrementDeleted(entityName)
	}
	return deleted, nil
}

// Activate moves the policy to active.
func (s *Service) Activate(ctx context.Context, id string) (*Insurance, error) {
	i, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	if err := i.Activate(time.Now()); err != nil {
		return nil, err
	}
	updated, err := s.store.Update(ctx, i)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update insurance")
	}
	s.emit(ctx, updated.ID, audit.ActionActivated, "")
	return updated, nil
}

// Cancel aborts the policy.
func (s *Service) Cancel(ctx context.Context, id string) (*Insurance, error) {
	i, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	i.Cancel(time.Now())
	updated, err := s.store.Update(ctx, i)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update insurance")
	}
	s.emit(ctx, updated.ID, audit.ActionCancelled, "")
	return updated, nil
}

// Expire marks the policy expired explicitly.
func (s *Service) Expire(ctx context.Context, id string) (*Insurance, error) {
	i, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	i.Expire(time.Now())
	updated, err := s.store.Update(ctx, i)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update insurance")
	}
	s.emit(ctx, updated.ID, audit.ActionExpired, "")
	return updated, nil
}

// UpdateCoverage changes the coverage amount on the policy.
func (s *Service) UpdateCoverage(ctx context.Context, id string, coverageAmount float64) (*Insurance, error) {
	i, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	if err := i.UpdateCoverage(coverageAmount, time.Now()); err != nil {
		return nil, err
	}
	updated, err := s.store.Update(ctx, i)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update insurance")
	}
	s.emit(ctx, updated.ID, audit.ActionUpdated, fmt.Sprintf("coverage %.2f", coverageAmount))
	return updated, nil
}

// reconcile persists a lazy active-to-expired flip before returning the
// policy.
func (s *Service) reconcile(ctx context.Context, i *Insurance) (*Insurance, error) {
	if !i.CheckAndUpdateStatus(time.Now()) {
		return i, nil
	}
	updated, err := s.store.Update(ctx, i)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to reconcile insurance status")
	}
	s.emit(ctx, updated.ID, audit.ActionExpired, "")
	return updated, nil
}

func (s *Service) checkMember(ctx context.Context, memberID string) error {
	if s.members == nil {
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
		return dErrors.New(dErrors.CodeNotFound, "insurance not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "insurance lookup failed")
}
