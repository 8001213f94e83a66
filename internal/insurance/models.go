// Package insurance manages member insurance policies.
package insurance

import (
	"time"

	dErrors "aikifed/pkg/domain-errors"
	"aikifed/pkg/platform/validation"
)

// Status enumerates policy lifecycle states.
type Status string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
)

// Type classifies the coverage.
type Type string

const (
	TypeAccident       Type = "accident"
	TypeCivilLiability Type = "civil_liability"
)

func validType(t Type) bool {
	switch t {
	case TypeAccident, TypeCivilLiability:
		return true
	}
	return false
}

// Insurance is the aggregate root for a policy.
//
// Transitions:
//   - Activate: requires both start and end dates set
//   - Cancel: allowed from any state
//   - Expire: explicit transition to expired
//   - CheckAndUpdateStatus: active -> expired once past the end date
type Insurance struct {
	ID             string    `json:"id"`
	PolicyNumber   string    `json:"policy_number"`
	MemberID       string    `json:"member_id"`
	Type           Type      `json:"type"`
	Company        string    `json:"company"`
	CoverageAmount float64   `json:"coverage_amount"`
	Premium        float64   `json:"premium"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// New constructs a validated Insurance with status pending.
func New(policyNumber, memberID string, insuranceType Type, company string, coverageAmount, premium float64, startDate, endDate time.Time, now time.Time) (*Insurance, error) {
	i := &Insurance{
		PolicyNumber:   policyNumber,
		MemberID:       memberID,
		Type:           insuranceType,
		Company:        company,
		CoverageAmount: coverageAmount,
		Premium:        premium,
		StartDate:      startDate,
		EndDate:        endDate,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := i.Validate(); err != nil {
		return nil, err
	}
	return i, nil
}

// Validate checks field invariants, first violation wins.
func (i *Insurance) Validate() error {
	if err := validation.RequiredString("policy_number", i.PolicyNumber); err != nil {
		return err
	}
	if err := validation.RequiredString("member_id", i.MemberID); err != nil {
		return err
	}
	if err := validation.RequiredString("insurance_company", i.Company); err != nil {
		return err
	}
	if !validType(i.Type) {
		return dErrors.Newf(dErrors.CodeValidation, "type must be accident or civil_liability, got %q", i.Type)
	}
	if err := validation.NonNegative("coverage_amount", i.CoverageAmount); err != nil {
		return err
	}
	if err := validation.NonNegative("premium", i.Premium); err != nil {
		return err
	}
	return validation.DateOrder(i.StartDate, i.EndDate)
}

// Activate moves the policy to active. Both coverage dates must be set.
func (i *Insurance) Activate(now time.Time) error {
	if i.StartDate.IsZero() || i.EndDate.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "start_date and end_date must be set before activation")
	}
	i.Status = StatusActive
	i.UpdatedAt = now
	return nil
}

// Cancel aborts the policy. Allowed from any state.
func (i *Insurance) Cancel(now time.Time) {
	i.Status = StatusCancelled
	i.UpdatedAt = now
}

// Expire moves the policy to expired explicitly.
func (i *Insurance) Expire(now time.Time) {
	i.Status = StatusExpired
	i.UpdatedAt = now
}

// IsExpired reports whether the end date has passed.
func (i *Insurance) IsExpired(now time.Time) bool {
	return now.After(i.EndDate)
}

// DaysUntilExpiry returns whole days until the end date, negative when
// already past.
func (i *Insurance) DaysUntilExpiry(now time.Time) int {
	return int(i.EndDate.Sub(now).Hours() / 24)
}

// IsExpiringSoon reports whether the policy expires within thresholdDays.
// Already-expired policies are not "expiring soon".
func (i *Insurance) IsExpiringSoon(thresholdDays int, now time.Time) bool {
	days := i.DaysUntilExpiry(now)
	return days > 0 && days <= thresholdDays
}

// CheckAndUpdateStatus flips active to expired once past the end date.
// Lazy reconciliation, invoked by callers before acting on the policy.
// Reports whether the status changed.
func (i *Insurance) CheckAndUpdateStatus(now time.Time) bool {
	if i.Status == StatusActive && i.IsExpired(now) {
		i.Status = StatusExpired
		i.UpdatedAt = now
		return true
	}
	return false
}

// UpdateCoverage changes the coverage amount, keeping the non-negative
// invariant.
func (i *Insurance) UpdateCoverage(coverageAmount float64, now time.Time) error {
	if err := validation.NonNegative("coverage_amount", coverageAmount); err != nil {
		return err
	}
	i.CoverageAmount = coverageAmount
	i.UpdatedAt = now
	return nil
}

// UpdateDates moves the coverage window, keeping start before end. A failed
// update leaves the prior dates unchanged.
func (i *Insurance) UpdateDates(startDate, endDate time.Time, now time.Time) error {
	if err := validation.DateOrder(startDate, endDate); err != nil {
		return err
	}
	i.StartDate = startDate
	i.EndDate = endDate
	i.UpdatedAt = now
	return nil
}

// Patch lists the updatable fields; nil pointers leave fields untouched.
// Status moves only through the transition methods.
type Patch struct {
	Company        *string    `json:"company,omitempty"`
	CoverageAmount *float64   `json:"coverage_amount,omitempty"`
	Premium        *float64   `json:"premium,omitempty"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
}

func (p *Patch) apply(i *Insurance) {
	if p.Company != nil {
		i.Company = *p.Company
	}
	if p.CoverageAmount != nil {
		i.CoverageAmount = *p.CoverageAmount
	}
	if p.Premium != nil {
		i.Premium = *p.Premium
	}
	if p.StartDate != nil {
		i.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		i.EndDate = *p.EndDate
	}
}

// ApplyPatch validates the patched value on a copy and only then mutates the
// receiver, so a failed update leaves the entity unchanged.
func (i *Insurance) ApplyPatch(p *Patch, now time.Time) error {
	updated := *i
	p.apply(&updated)
	if err := updated.Validate(); err != nil {
		return err
	}
	updated.UpdatedAt = now
	*i = updated
	return nil
}
