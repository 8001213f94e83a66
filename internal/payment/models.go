// Package payment manages payments and their gateway-driven lifecycle.
package payment

import (
	"time"

	dErrors "aikifed/pkg/domain-errors"
	"aikifed/pkg/platform/validation"
)

// Status enumerates payment lifecycle states.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusRefunded   Status = "refunded"
	StatusCancelled  Status = "cancelled"
)

// Type classifies what the payment is for.
type Type string

const (
	TypeLicense                 Type = "license"
	TypeAccidentInsurance       Type = "accident_insurance"
	TypeCivilLiabilityInsurance Type = "civil_liability_insurance"
	TypeAnnualQuota             Type = "annual_quota"
	TypeSeminar                 Type = "seminar"
)

func validType(t Type) bool {
	switch t {
	case TypeLicense, TypeAccidentInsurance, TypeCivilLiabilityInsurance, TypeAnnualQuota, TypeSeminar:
		return true
	}
	return false
}

// Payment is the aggregate root for a single payment.
//
// Transitions:
//   - MarkProcessing: pending -> processing
//   - Complete: processing -> completed, requires a transaction id
//   - Fail: pending|processing -> failed
//   - Cancel: pending|processing -> cancelled
//   - Refund: completed -> refunded, optional partial amount <= amount
type Payment struct {
	ID              string     `json:"id"`
	Type            Type       `json:"type"`
	Amount          float64    `json:"amount"`
	Currency        string     `json:"currency"`
	Description     string     `json:"description,omitempty"`
	MemberID        string     `json:"member_id,omitempty"`
	RelatedEntityID string     `json:"related_entity_id,omitempty"`
	Status          Status     `json:"status"`
	TransactionID   string     `json:"transaction_id,omitempty"`
	GatewayResponse string     `json:"gateway_response,omitempty"`
	ErrorMessage    string     `json:"error_message,omitempty"`
	RefundAmount    *float64   `json:"refund_amount,omitempty"`
	PaymentDate     *time.Time `json:"payment_date,omitempty"`
	RefundDate      *time.Time `json:"refund_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// New constructs a validated Payment with status pending.
func New(paymentType Type, amount float64, currency, description, memberID, relatedEntityID string, now time.Time) (*Payment, error) {
	if currency == "" {
		currency = "EUR"
	}
	p := &Payment{
		Type:            paymentType,
		Amount:          amount,
		Currency:        currency,
		Description:     description,
		MemberID:        memberID,
		RelatedEntityID: relatedEntityID,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks field invariants, first violation wins.
func (p *Payment) Validate() error {
	if !validType(p.Type) {
		return dErrors.Newf(dErrors.CodeValidation, "type must be a known payment type, got %q", p.Type)
	}
	if err := validation.NonNegative("amount", p.Amount); err != nil {
		return err
	}
	if p.RefundAmount != nil {
		if err := validation.NonNegative("refund_amount", *p.RefundAmount); err != nil {
			return err
		}
		if *p.RefundAmount > p.Amount {
			return dErrors.New(dErrors.CodeValidation, "refund_amount must not exceed amount")
		}
	}
	return nil
}

// MarkProcessing moves the payment to processing. Allowed only from pending.
func (p *Payment) MarkProcessing(now time.Time) error {
	if p.Status != StatusPending {
		return transitionError(p.Status, "mark processing")
	}
	p.Status = StatusProcessing
	p.UpdatedAt = now
	return nil
}

// Complete records a successful gateway settlement. Allowed only from
// processing and requires a non-empty transaction id.
func (p *Payment) Complete(transactionID, gatewayResponse string, now time.Time) error {
	if p.Status != StatusProcessing {
		return transitionError(p.Status, "complete")
	}
	if transactionID == "" {
		return dErrors.New(dErrors.CodeValidation, "transaction_id must not be empty")
	}
	p.Status = StatusCompleted
	p.TransactionID = transactionID
	p.GatewayResponse = gatewayResponse
	paidAt := now
	p.PaymentDate = &paidAt
	p.UpdatedAt = now
	return nil
}

// Fail records a gateway failure. Allowed from pending or processing.
func (p *Payment) Fail(errorMessage string, now time.Time) error {
	if p.Status != StatusPending && p.Status != StatusProcessing {
		return transitionError(p.Status, "fail")
	}
	p.Status = StatusFailed
	p.ErrorMessage = errorMessage
	p.UpdatedAt = now
	return nil
}

// Cancel aborts the payment. Allowed from pending or processing.
func (p *Payment) Cancel(now time.Time) error {
	if p.Status != StatusPending && p.Status != StatusProcessing {
		return transitionError(p.Status, "cancel")
	}
	p.Status = StatusCancelled
	p.UpdatedAt = now
	return nil
}

// Refund reverses a completed payment. A nil amount refunds in full; a
// partial amount must not exceed the original amount.
func (p *Payment) Refund(amount *float64, now time.Time) error {
	if p.Status != StatusCompleted {
		return transitionError(p.Status, "refund")
	}
	refund := p.Amount
	if amount != nil {
		if *amount < 0 {
			return dErrors.New(dErrors.CodeValidation, "refund_amount must not be negative")
		}
		if *amount > p.Amount {
			return dErrors.New(dErrors.CodeValidation, "refund_amount must not exceed amount")
		}
		refund = *amount
	}
	p.Status = StatusRefunded
	p.RefundAmount = &refund
	refundedAt := now
	p.RefundDate = &refundedAt
	p.UpdatedAt = now
	return nil
}

// IsRefundable reports whether a refund is currently allowed.
func (p *Payment) IsRefundable() bool {
	return p.Status == StatusCompleted
}

// RefundableAmount returns how much of the payment has not been refunded.
// Zero for payments that never completed.
func (p *Payment) RefundableAmount() float64 {
	switch p.Status {
	case StatusCompleted:
		return p.Amount
	case StatusRefunded:
		if p.RefundAmount != nil {
			return p.Amount - *p.RefundAmount
		}
	}
	return 0
}

func transitionError(current Status, op string) error {
	return dErrors.Newf(dErrors.CodeConflict, "payment in status %q does not allow %s", current, op)
}

// Patch lists the updatable fields; nil pointers leave fields untouched.
// Status, amounts and gateway fields move only through the transition
// methods.
type Patch struct {
	Description     *string `json:"description,omitempty"`
	MemberID        *string `json:"member_id,omitempty"`
	RelatedEntityID *string `json:"related_entity_id,omitempty"`
}

func (p *Patch) apply(pay *Payment) {
	if p.Description != nil {
		pay.Description = *p.Description
	}
	if p.MemberID != nil {
		pay.MemberID = *p.MemberID
	}
	if p.RelatedEntityID != nil {
		pay.RelatedEntityID = *p.RelatedEntityID
	}
}

// ApplyPatch validates the patched value on a copy and only then mutates the
// receiver, so a failed update leaves the entity unchanged.
func (pay *Payment) ApplyPatch(p *Patch, now time.Time) error {
	updated := *pay
	p.apply(&updated)
	if err := updated.Validate(); err != nil {
		return err
	}
	updated.UpdatedAt = now
	*pay = updated
	return nil
}
