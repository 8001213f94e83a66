package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	dErrors "aikifed/pkg/domain-errors"
)

type PaymentModelSuite struct {
	suite.Suite
	now time.Time
}

func TestPaymentModelSuite(t *testing.T) {
	suite.Run(t, new(PaymentModelSuite))
}

func (s *PaymentModelSuite) SetupTest() {
	s.now = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
}

func (s *PaymentModelSuite) newPayment(amount float64) *Payment {
	p, err := New(TypeLicense, amount, "EUR", "annual license", "member-1", "license-1", s.now)
	s.Require().NoError(err)
	return p
}

func (s *PaymentModelSuite) completed(amount float64) *Payment {
	p := s.newPayment(amount)
	s.Require().NoError(p.MarkProcessing(s.now))
	s.Require().NoError(p.Complete("TXN-1", "OK", s.now))
	return p
}

func (s *PaymentModelSuite) TestNew() {
	s.Run("valid payment starts pending", func() {
		p := s.newPayment(100)
		s.Equal(StatusPending, p.Status)
		s.Equal("EUR", p.Currency)
	})

	s.Run("zero amount is accepted", func() {
		p := s.newPayment(0)
		s.Equal(0.0, p.Amount)
	})

	s.Run("negative amount fails validation", func() {
		_, err := New(TypeSeminar, -1, "EUR", "", "", "", s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unknown type fails validation", func() {
		_, err := New(Type("donation"), 10, "EUR", "", "", "", s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *PaymentModelSuite) TestLifecycle() {
	s.Run("pending to processing succeeds once", func() {
		p := s.newPayment(100)
		s.Require().NoError(p.MarkProcessing(s.now))
		s.Equal(StatusProcessing, p.Status)

		err := p.MarkProcessing(s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("complete requires processing state", func() {
		p := s.newPayment(100)
		err := p.Complete("TXN-1", "OK", s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("complete requires a transaction id", func() {
		p := s.newPayment(100)
		s.Require().NoError(p.MarkProcessing(s.now))
		err := p.Complete("", "OK", s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("complete sets payment date and transaction id", func() {
		p := s.completed(100)
		s.Equal(StatusCompleted, p.Status)
		s.Equal("TXN-1", p.TransactionID)
		s.Require().NotNil(p.PaymentDate)
		s.Equal(s.now, *p.PaymentDate)
	})

	s.Run("fail allowed from pending and processing only", func() {
		p := s.newPayment(100)
		s.NoError(p.Fail("card declined", s.now))
		s.Equal(StatusFailed, p.Status)
		s.Equal("card declined", p.ErrorMessage)

		done := s.completed(100)
		s.Error(done.Fail("late", s.now))
	})

	s.Run("cancel allowed from pending and processing only", func() {
		p := s.newPayment(100)
		s.NoError(p.Cancel(s.now))
		s.Equal(StatusCancelled, p.Status)

		done := s.completed(100)
		err := done.Cancel(s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func (s *PaymentModelSuite) TestRefund() {
	s.Run("partial refund tracks the remaining amount", func() {
		p := s.completed(100)
		partial := 30.0
		s.Require().NoError(p.Refund(&partial, s.now))
		s.Equal(StatusRefunded, p.Status)
		s.Require().NotNil(p.RefundAmount)
		s.Equal(30.0, *p.RefundAmount)
		s.Equal(70.0, p.RefundableAmount())
		s.Require().NotNil(p.RefundDate)
	})

	s.Run("refund exceeding the amount fails", func() {
		p := s.completed(100)
		excessive := 150.0
		err := p.Refund(&excessive, s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Equal(StatusCompleted, p.Status)
	})

	s.Run("nil amount refunds in full", func() {
		p := s.completed(100)
		s.Require().NoError(p.Refund(nil, s.now))
		s.Require().NotNil(p.RefundAmount)
		s.Equal(100.0, *p.RefundAmount)
		s.Equal(0.0, p.RefundableAmount())
	})

	s.Run("refund requires completed state", func() {
		p := s.newPayment(100)
		err := p.Refund(nil, s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("refundable predicates", func() {
		p := s.completed(100)
		s.True(p.IsRefundable())
		s.Equal(100.0, p.RefundableAmount())

		pending := s.newPayment(50)
		s.False(pending.IsRefundable())
		s.Equal(0.0, pending.RefundableAmount())
	})
}
