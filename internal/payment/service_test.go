package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "aikifed/pkg/domain-errors"
)

// stubGateway records gateway calls so tests can assert on them.
type stubGateway struct {
	inner       Gateway
	refunds     []float64
	refundErr   error
	initiateErr error
}

func (g *stubGateway) InitiatePayment(ctx context.Context, p *Payment) (*RedirectParams, error) {
	if g.initiateErr != nil {
		return nil, g.initiateErr
	}
	return g.inner.InitiatePayment(ctx, p)
}

func (g *stubGateway) Refund(_ context.Context, _ *Payment, amount float64) error {
	if g.refundErr != nil {
		return g.refundErr
	}
	g.refunds = append(g.refunds, amount)
	return nil
}

type PaymentServiceSuite struct {
	suite.Suite
	ctx     context.Context
	store   *InMemory
	gateway *stubGateway
	service *Service
}

func TestPaymentServiceSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceSuite))
}

func (s *PaymentServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemory()
	s.gateway = &stubGateway{inner: NewRedsysGateway("999008881")}
	s.service = NewService(s.store, s.gateway, nil)
}

func (s *PaymentServiceSuite) params() CreateParams {
	return CreateParams{
		Type:        TypeSeminar,
		Amount:      45,
		Description: "Summer seminar fee",
		MemberID:    "member-1",
	}
}

func (s *PaymentServiceSuite) TestCreate() {
	p, err := s.service.Create(s.ctx, s.params())
	s.Require().NoError(err)
	s.NotEmpty(p.ID)
	s.Equal(StatusPending, p.Status)
	s.Equal("EUR", p.Currency)
}

func (s *PaymentServiceSuite) TestInitiate() {
	s.Run("assigns a transaction id and moves to processing", func() {
		res, err := s.service.Initiate(s.ctx, s.params())
		s.Require().NoError(err)
		s.Equal(StatusProcessing, res.Payment.Status)
		s.NotEmpty(res.Payment.TransactionID)
		s.Require().NotNil(res.Redirect)
		s.Equal(res.Payment.TransactionID, res.Redirect.TransactionID)
		s.NotEmpty(res.Redirect.URL)
	})

	s.Run("gateway failure surfaces as internal", func() {
		s.gateway.initiateErr = errors.New("gateway down")
		defer func() { s.gateway.initiateErr = nil }()

		_, err := s.service.Initiate(s.ctx, s.params())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *PaymentServiceSuite) TestProcessWebhook() {
	s.Run("success settles the payment", func() {
		res, err := s.service.Initiate(s.ctx, s.params())
		s.Require().NoError(err)

		settled, err := s.service.ProcessWebhook(s.ctx, res.Payment.TransactionID, "success", "0000")
		s.Require().NoError(err)
		s.Equal(StatusCompleted, settled.Status)
		s.Equal("0000", settled.GatewayResponse)
	})

	s.Run("failed marks the payment failed", func() {
		res, err := s.service.Initiate(s.ctx, s.params())
		s.Require().NoError(err)

		settled, err := s.service.ProcessWebhook(s.ctx, res.Payment.TransactionID, "failed", "SIS0051")
		s.Require().NoError(err)
		s.Equal(StatusFailed, settled.Status)
	})

	s.Run("unknown gateway status is rejected", func() {
		res, err := s.service.Initiate(s.ctx, s.params())
		s.Require().NoError(err)

		_, err = s.service.ProcessWebhook(s.ctx, res.Payment.TransactionID, "maybe", "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("unknown transaction returns not found", func() {
		_, err := s.service.ProcessWebhook(s.ctx, "TXN-missing", "success", "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("empty transaction id is rejected", func() {
		_, err := s.service.ProcessWebhook(s.ctx, "", "success", "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *PaymentServiceSuite) completedPayment() *Payment {
	res, err := s.service.Initiate(s.ctx, s.params())
	s.Require().NoError(err)
	settled, err := s.service.ProcessWebhook(s.ctx, res.Payment.TransactionID, "success", "0000")
	s.Require().NoError(err)
	return settled
}

func (s *PaymentServiceSuite) TestRefund() {
	s.Run("full refund when no amount given", func() {
		p := s.completedPayment()

		refunded, err := s.service.Refund(s.ctx, p.ID, nil)
		s.Require().NoError(err)
		s.Equal(StatusRefunded, refunded.Status)
		s.Require().NotNil(refunded.RefundAmount)
		s.InDelta(p.Amount, *refunded.RefundAmount, 0.001)
		s.Require().NotEmpty(s.gateway.refunds)
		s.InDelta(p.Amount, s.gateway.refunds[len(s.gateway.refunds)-1], 0.001)
	})

	s.Run("partial refund keeps the remainder refundable", func() {
		p := s.completedPayment()

		amount := 20.0
		refunded, err := s.service.Refund(s.ctx, p.ID, &amount)
		s.Require().NoError(err)
		s.Equal(StatusRefunded, refunded.Status)
		s.InDelta(25, refunded.RefundableAmount(), 0.001)
	})

	s.Run("refund above the amount is rejected", func() {
		p := s.completedPayment()

		amount := 100.0
		_, err := s.service.Refund(s.ctx, p.ID, &amount)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("pending payment cannot refund", func() {
		p, err := s.service.Create(s.ctx, s.params())
		s.Require().NoError(err)

		_, err = s.service.Refund(s.ctx, p.ID, nil)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("gateway refund failure leaves the payment untouched", func() {
		p := s.completedPayment()

		s.gateway.refundErr = errors.New("gateway down")
		defer func() { s.gateway.refundErr = nil }()

		_, err := s.service.Refund(s.ctx, p.ID, nil)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))

		stored, err := s.store.FindByID(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal(StatusCompleted, stored.Status)
	})
}

func (s *PaymentServiceSuite) TestCancel() {
	p, err := s.service.Create(s.ctx, s.params())
	s.Require().NoError(err)

	cancelled, err := s.service.Cancel(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(StatusCancelled, cancelled.Status)

	_, err = s.service.Cancel(s.ctx, p.ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}
