// Package member manages registered Aikido practitioners.
package member

import (
	"time"

	"aikifed/pkg/platform/validation"
)

// Status enumerates member lifecycle states. The toggle operations are
// idempotent; there is no transition table beyond the named setters.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusPending   Status = "pending"
	StatusSuspended Status = "suspended"
)

// Member is the aggregate root for a practitioner.
//
/// Invariants:
//   - FirstName, LastName, DNI and Email are non-empty; Email contains "@"
//   - DNI and Email are natural keys, unique across members
//   - ClubID is an optional soft reference checked by the service
type Member struct {
	ID               string     `json:"id"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	DNI              string     `json:"dni"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone,omitempty"`
	Address          string     `json:"address,omitempty"`
	City             string     `json:"city,omitempty"`
	Province         string     `json:"province,omitempty"`
	PostalCode       string     `json:"postal_code,omitempty"`
	Country          string     `json:"country,omitempty"`
	BirthDate        *time.Time `json:"birth_date,omitempty"`
	FederationNumber string     `json:"federation_number,omitempty"`
	ClubID           string     `json:"club_id,omitempty"`
	Status           Status     `json:"status"`
	RegistrationDate time.Time  `json:"registration_date"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// New constructs a validated Member with status active.
func New(firstName, lastName, dni, email, phone, address, city, province, postalCode, country, clubID string, birthDate *time.Time, now time.Time) (*Member, error) {
	if country == "" {
		country = "Spain"
	}
	m := &Member{
		FirstName:        firstName,
		LastName:         lastName,
		DNI:              dni,
		Email:            email,
		Phone:            phone,
		Address:          address,
		City:             city,
		Province:         province,
		PostalCode:       postalCode,
		Country:          country,
		BirthDate:        birthDate,
		ClubID:           clubID,
		Status:           StatusActive,
		RegistrationDate: now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks field invariants, first violation wins.
func (m *Member) Validate() error {
	if err := validation.RequiredString("first_name", m.FirstName); err != nil {
		return err
	}
	if err := validation.RequiredString("last_name", m.LastName); err != nil {
		return err
	}
	if err := validation.RequiredString("dni", m.DNI); err != nil {
		return err
	}
	return validation.Email("email", m.Email)
}

// FullName joins the name parts for display.
func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

// Activate sets status active. Idempotent.
func (m *Member) Activate(now time.Time) {
	m.Status = StatusActive
	m.UpdatedAt = now
}

// Deactivate sets status inactive. Idempotent.
func (m *Member) Deactivate(now time.Time) {
	m.Status = StatusInactive
	m.UpdatedAt = now
}

// Suspend sets status suspended.
func (m *Member) Suspend(now time.Time) {
	m.Status = StatusSuspended
	m.UpdatedAt = now
}

// IsActive reports whether the member is currently active.
func (m *Member) IsActive() bool {
	return m.Status == StatusActive
}

// Patch lists the updatable fields; nil pointers leave fields untouched.
type Patch struct {
	FirstName        *string    `json:"first_name,omitempty"`
	LastName         *string    `json:"last_name,omitempty"`
	Email            *string    `json:"email,omitempty"`
	Phone            *string    `json:"phone,omitempty"`
	Address          *string    `json:"address,omitempty"`
	City             *string    `json:"city,omitempty"`
	Province         *string    `json:"province,omitempty"`
	PostalCode       *string    `json:"postal_code,omitempty"`
	Country          *string    `json:"country,omitempty"`
	BirthDate        *time.Time `json:"birth_date,omitempty"`
	FederationNumber *string    `json:"federation_number,omitempty"`
	ClubID           *string    `json:"club_id,omitempty"`
}

func (p *Patch) apply(m *Member) {
	if p.FirstName != nil {
		m.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		m.LastName = *p.LastName
	}
	if p.Email != nil {
		m.Email = *p.Email
	}
	if p.Phone != nil {
		m.Phone = *p.Phone
	}
	if p.Address != nil {
		m.Address = *p.Address
	}
	if p.City != nil {
		m.City = *p.City
	}
	if p.Province != nil {
		m.Province = *p.Province
	}
	if p.PostalCode != nil {
		m.PostalCode = *p.PostalCode
	}
	if p.Country != nil {
		m.Country = *p.Country
	}
	if p.BirthDate != nil {
		m.BirthDate = p.BirthDate
	}
	if p.FederationNumber != nil {
		m.FederationNumber = *p.FederationNumber
	}
	if p.ClubID != nil {
		m.ClubID = *p.ClubID
	}
}

// ApplyPatch validates the patched value on a copy and only then mutates the
// receiver, so a failed update leaves the entity unchanged.
func (m *Member) ApplyPatch(p *Patch, now time.Time) error {
	updated := *m
	p.apply(&updated)
	if err := updated.Validate(); err != nil {
		return err
	}
	updated.UpdatedAt = now
	*m = updated
	return nil
}
