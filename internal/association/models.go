// Package association manages the federation-level organizations that clubs
// affiliate with.
package association

import (
	"time"

	"aikifed/pkg/platform/validation"
)

// Association is the aggregate root for a federation association.
//
// Invariants:
//   - Name, Email and CIF are non-empty; Email contains "@"
//   - IsActive toggles through Activate/Deactivate only (idempotent both ways)
type Association struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address,omitempty"`
	City       string    `json:"city,omitempty"`
	Province   string    `json:"province,omitempty"`
	PostalCode string    `json:"postal_code,omitempty"`
	Country    string    `json:"country,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Email      string    `json:"email"`
	CIF        string    `json:"cif"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// New constructs a validated Association. The id is assigned by the store on
// creation.
func New(name, address, city, province, postalCode, country, phone, email, cif string, now time.Time) (*Association, error) {
	a := &Association{
		Name:       name,
		Address:    address,
		City:       city,
		Province:   province,
		PostalCode: postalCode,
		Country:    country,
		Phone:      phone,
		Email:      email,
		CIF:        cif,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks field invariants, first violation wins.
func (a *Association) Validate() error {
	if err := validation.RequiredString("name", a.Name); err != nil {
		return err
	}
	if err := validation.Email("email", a.Email); err != nil {
		return err
	}
	return validation.RequiredString("cif", a.CIF)
}

// Activate marks the association active. Idempotent.
func (a *Association) Activate(now time.Time) {
	a.IsActive = true
	a.UpdatedAt = now
}

// Deactivate marks the association inactive. Idempotent.
func (a *Association) Deactivate(now time.Time) {
	a.IsActive = false
	a.UpdatedAt = now
}

// Patch lists the updatable fields; nil pointers leave fields untouched.
// Applied as a unit: validation runs on a copy before anything is written.
type Patch struct {
	Name       *string `json:"name,omitempty"`
	Address    *string `json:"address,omitempty"`
	City       *string `json:"city,omitempty"`
	Province   *string `json:"province,omitempty"`
	PostalCode *string `json:"postal_code,omitempty"`
	Country    *string `json:"country,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Email      *string `json:"email,omitempty"`
	CIF        *string `json:"cif,omitempty"`
}

func (p *Patch) apply(a *Association) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Address != nil {
		a.Address = *p.Address
	}
	if p.City != nil {
		a.City = *p.City
	}
	if p.Province != nil {
		a.Province = *p.Province
	}
	if p.PostalCode != nil {
		a.PostalCode = *p.PostalCode
	}
	if p.Country != nil {
		a.Country = *p.Country
	}
	if p.Phone != nil {
		a.Phone = *p.Phone
	}
	if p.Email != nil {
		a.Email = *p.Email
	}
	if p.CIF != nil {
		a.CIF = *p.CIF
	}
}

// ApplyPatch validates the patched value on a copy and only then mutates the
// receiver, so a failed update leaves the entity unchanged.
func (a *Association) ApplyPatch(p *Patch, now time.Time) error {
	updated := *a
	p.apply(&updated)
	if err := updated.Validate(); err != nil {
		return err
	}
	updated.UpdatedAt = now
	*a = updated
	return nil
}
