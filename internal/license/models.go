// Package license manages federation practice licenses and their lifecycle.
package license

import (
	"time"

	dErrors "aikifed/pkg/domain-errors"
	"aikifed/pkg/platform/validation"
)

// Status enumerates license lifecycle states.
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
	StatusPending Status = "pending"
	StatusRevoked Status = "revoked"
)

// Type classifies the license.
type Type string

const (
	TypeDan        Type = "dan"
	TypeKyu        Type = "kyu"
	TypeInstructor Type = "instructor"
)

func validType(t Type) bool {
	switch t {
	case TypeDan, TypeKyu, TypeInstructor:
		return true
	}
	return false
}

// License is the aggregate root for a practice license.
//
// Transitions:
//   - Renew: active|expired -> active, new expiration strictly in the future
//   - Revoke: any -> revoked (terminal)
//   - CheckAndUpdateStatus: active -> expired once past expiration
type License struct {
	ID             string     `json:"id"`
	LicenseNumber  string     `json:"license_number"`
	MemberID       string     `json:"member_id"`
	ClubID         string     `json:"club_id,omitempty"`
	AssociationID  string     `json:"association_id,omitempty"`
	Type           Type       `json:"type"`
	Grade          string     `json:"grade"`
	Status         Status     `json:"status"`
	IssueDate      time.Time  `json:"issue_date"`
	ExpirationDate time.Time  `json:"expiration_date"`
	IsRenewed      bool       `json:"is_renewed"`
	RenewalDate    *time.Time `json:"renewal_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// New constructs a validated License with status active.
func New(licenseNumber, memberID, clubID, associationID string, licenseType Type, grade string, issueDate, expirationDate time.Time, now time.Time) (*License, error) {
	l := &License{
		LicenseNumber:  licenseNumber,
		MemberID:       memberID,
		ClubID:         clubID,
		AssociationID:  associationID,
		Type:           licenseType,
		Grade:          grade,
		Status:         StatusActive,
		IssueDate:      issueDate,
		ExpirationDate: expirationDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Validate checks field invariants, first violation wins.
func (l *License) Validate() error {
	if err := validation.RequiredString("license_number", l.LicenseNumber); err != nil {
		return err
	}
	if err := validation.RequiredString("member_id", l.MemberID); err != nil {
		return err
	}
	if !validType(l.Type) {
		return dErrors.Newf(dErrors.CodeValidation, "type must be one of dan, kyu, instructor, got %q", l.Type)
	}
	if err := validation.RequiredString("grade", l.Grade); err != nil {
		return err
	}
	return validation.DateOrder(l.IssueDate, l.ExpirationDate)
}

// IsExpired reports whether the expiration date has passed.
func (l *License) IsExpired(now time.Time) bool {
	return now.After(l.ExpirationDate)
}

// CheckAndUpdateStatus flips active to expired once past the expiration
// date. Reconciliation is lazy: callers invoke this before acting on the
// license, nothing runs on a timer. Reports whether the status changed.
func (l *License) CheckAndUpdateStatus(now time.Time) bool {
	if l.Status == StatusActive && l.IsExpired(now) {
		l.Status = StatusExpired
		l.UpdatedAt = now
		return true
	}
	return false
}

// Renew extends the license. Allowed from active or expired; the new
// expiration must be strictly in the future.
func (l *License) Renew(newExpiration, now time.Time) error {
	if l.Status != StatusActive && l.Status != StatusExpired {
		return transitionError(l.Status, "renew")
	}
	if !newExpiration.After(now) {
		return dErrors.New(dErrors.CodeValidation, "renewal expiration date must be in the future")
	}
	l.Status = StatusActive
	l.ExpirationDate = newExpiration
	l.IsRenewed = true
	renewedAt := now
	l.RenewalDate = &renewedAt
	l.UpdatedAt = now
	return nil
}

// Revoke moves the license to the terminal revoked state. Allowed from any
// state.
func (l *License) Revoke(now time.Time) {
	l.Status = StatusRevoked
	l.UpdatedAt = now
}

// UpdateGrade changes the grade, keeping the non-empty invariant.
func (l *License) UpdateGrade(grade string, now time.Time) error {
	if err := validation.RequiredString("grade", grade); err != nil {
		return err
	}
	l.Grade = grade
	l.UpdatedAt = now
	return nil
}

func transitionError(current Status, op string) error {
	return dErrors.Newf(dErrors.CodeConflict, "license in status %q does not allow %s", current, op)
}

// Patch lists the updatable fields; nil pointers leave fields untouched.
// Status and renewal fields move only through the transition methods.
type Patch struct {
	Grade          *string    `json:"grade,omitempty"`
	Type           *Type      `json:"type,omitempty"`
	ClubID         *string    `json:"club_id,omitempty"`
	AssociationID  *string    `json:"association_id,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

func (p *Patch) apply(l *License) {
	if p.Grade != nil {
		l.Grade = *p.Grade
	}
	if p.Type != nil {
		l.Type = *p.Type
	}
	if p.ClubID != nil {
		l.ClubID = *p.ClubID
	}
	if p.AssociationID != nil {
		l.AssociationID = *p.AssociationID
	}
	if p.ExpirationDate != nil {
		l.ExpirationDate = *p.ExpirationDate
	}
}

// ApplyPatch validates the patched value on a copy and only then mutates the
// receiver, so a failed update leaves the entity unchanged.
func (l *License) ApplyPatch(p *Patch, now time.Time) error {
	updated := *l
	p.apply(&updated)
	if err := updated.Validate(); err != nil {
		return err
	}
	updated.UpdatedAt = now
	*l = updated
	return nil
}
