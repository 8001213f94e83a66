package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"aikifed/internal/audit"
	"aikifed/internal/platform/metrics"
	"aikifed/internal/platform/middleware"
	dErrors "aikifed/pkg/domain-errors"
	"aikifed/pkg/platform/sentinel"
)

const entityName = "payment"

// MemberDirectory is the narrow view of the member store used for reference
// checks.
type MemberDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Service orchestrates payment lifecycle: gateway initiation, webhook
// settlement and refunds.
type Service struct {
	store   Store
	gateway Gateway
	members MemberDirectory
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

func NewService(store Store, gateway Gateway, members MemberDirectory, opts ...Option) *Service {
	s := &Service{store: store, gateway: gateway, members: members, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateParams carries the fields accepted at creation time.
type CreateParams struct {
	Type            Type
	Amount          float64
	Currency        string
	Description     string
	MemberID        string
	RelatedEntityID string
}

// Create records a payment in pending state without touching the gateway.
func (s *Service) Create(ctx context.Context, p CreateParams) (*Payment, error) {
	if err := s.checkMember(ctx, p.MemberID); err != nil {
		return nil, err
	}
	pay, err := New(p.Type, p.Amount, p.Currency, p.Description, p.MemberID, p.RelatedEntityID, time.Now())
	if err != nil {
		return nil, err
	}
	created, err := s.store.Create(ctx, pay)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create payment")
	}
	s.emit(ctx, created.ID, audit.ActionCreated, "")
	s.metrics.IncrementCreated(entityName)
	return created, nil
}

// InitiateResult pairs the stored payment with the gateway redirect
// parameters the client needs.
type InitiateResult struct {
	Payment  *Payment        `json:"payment"`
	Redirect *RedirectParams `json:"redirect"`
}

// Initiate creates the payment, asks the gateway for redirect parameters and
// moves it to processing. The transaction id is assigned here so the
// settlement webhook can find the payment later.
func (s *Service) Initiate(ctx context.Context, p CreateParams) (*InitiateResult, error) {
	if err := s.checkMember(ctx, p.MemberID); err != nil {
		return nil, err
	}
	pay, err := New(p.Type, p.Amount, p.Currency, p.Description, p.MemberID, p.RelatedEntityID, time.Now())
	if err != nil {
		return nil, err
	}
	redirect, err := s.gateway.InitiatePayment(ctx, pay)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "payment gateway initiation failed")
	}
	pay.TransactionID = redirect.TransactionID
	if err := pay.MarkProcessing(time.Now()); err != nil {
		return nil, err
	}
	created, err := s.store.Create(ctx, pay)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create payment")
	}
	s.emit(ctx, created.ID, audit.ActionProcessing, "txn "+redirect.TransactionID)
	s.metrics.IncrementCreated(entityName)
	return &InitiateResult{Payment: created, Redirect: redirect}, nil
}

// ProcessWebhook settles a payment from a gateway notification. Gateway
// status values success, failed and cancelled map to the matching
// transitions; anything else is rejected.
func (s *Service) ProcessWebhook(ctx context.Context, transactionID, gatewayStatus, gatewayResponse string) (*Payment, error) {
	if transactionID == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "transaction_id must not be empty")
	}
	pay, err := s.store.FindByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "payment not found for transaction")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "payment lookup failed")
	}

	now := time.Now()
	var action audit.Action
	switch gatewayStatus {
	case "success":
		err = pay.Complete(transactionID, gatewayResponse, now)
		action = audit.ActionCompleted
	case "failed":
		err = pay.Fail(gatewayResponse, now)
		action = audit.ActionFailed
	case "cancelled":
		err = pay.Cancel(now)
		action = audit.ActionCancelled
	default:
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "unknown gateway status %q", gatewayStatus)
	}
	if err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, pay)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update payment")
	}
	s.emit(ctx, updated.ID, action, "txn "+transactionID)
	return updated, nil
}

// Refund reverses a completed payment through the gateway. A nil amount
// refunds in full.
func (s *Service) Refund(ctx context.Context, id string, amount *float64) (*Payment, error) {
	pay, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	refund := pay.Amount
	if amount != nil {
		refund = *amount
	}
	if err := pay.Refund(amount, time.Now()); err != nil {
		return nil, err
	}
	if err := s.gateway.Refund(ctx, pay, refund); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "payment gateway refund failed")
	}
	updated, err := s.store.Update(ctx, pay)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update payment")
	}
	s.emit(ctx, updated.ID, audit.ActionRefunded, fmt.Sprintf("amount %.2f", refund))
	s.metrics.IncrementPaymentRefunded()
	return updated, nil
}

// Cancel aborts a payment that has not settled.
func (s *Service) Cancel(ctx context.Context, id string) (*Payment, error) {
	pay, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	if err := pay.Cancel(time.Now()); err != nil {
		return nil, err
	}
	updated, err := s.store.Update(ctx, pay)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update payment")
	}
	s.emit(ctx, updated.ID, audit.ActionCancelled, "")
	return updated, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Payment, error) {
	pay, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	return pay, nil
}

// ListParams narrows the payment listing.
type ListParams struct {
	MemberID string
	Status   Status
	Type     Type
	Limit    int
}

func (s *Service) List(ctx context.Context, p ListParams) ([]*Payment, error) {
	if p.Limit <= 0 {
		p.Limit = 100
	}
	var (
		out []*Payment
		err error
	)
	switch {
	case p.MemberID != "":
		out, err = s.store.FindByMemberID(ctx, p.MemberID, p.Limit)
	case p.Status != "":
		out, err = s.store.FindByStatus(ctx, p.Status, p.Limit)
	case p.Type != "":
		out, err = s.store.FindByType(ctx, p.Type, p.Limit)
	default:
		out, err = s.store.FindAll(ctx, p.Limit)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list payments")
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, id string, patch *Patch) (*Payment, error) {
	pay, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	if patch.MemberID != nil {
		if err := s.checkMember(ctx, *patch.MemberID); err != nil {
			return nil, err
		}
	}
	if err := pay.ApplyPatch(patch, time.Now()); err != nil {
		return nil, err
	}
	updated, err := s.store.Update(ctx, pay)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update payment")
	}
	s.emit(ctx, updated.ID, audit.ActionUpdated, "")
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	exists, err := s.store.Exists(ctx, id)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check payment")
	}
	if !exists {
		return false, dErrors.New(dErrors.CodeNotFound, "payment not found")
	}
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete payment")
	}
	if deleted {
		s.emit(ctx, id, audit.ActionDeleted, "")
		s.metrics.IncrementDeleted(entityName)
	}
	return deleted, nil
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
		return dErrors.New(dErrors.CodeNotFound, "payment not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "payment lookup failed")
}
