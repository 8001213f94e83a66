// Package club manages the dojos affiliated with an association.
package club

import (
	"time"

	"aikifed/pkg/platform/validation"
)

// Club is the aggregate root for a dojo.
//
// Invariants:
//   - Name, Email and FederationNumber are non-empty; Email contains "@"
//   - FederationNumber is the natural key, unique across clubs
//   - AssociationID is an optional soft reference checked by the service
type Club struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Address          string    `json:"address,omitempty"`
	City             string    `json:"city,omitempty"`
	Province         string    `json:"province,omitempty"`
	PostalCode       string    `json:"postal_code,omitempty"`
	Country          string    `json:"country,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	Email            string    `json:"email"`
	FederationNumber string    `json:"federation_number"`
	AssociationID    string    `json:"association_id,omitempty"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// New constructs a validated Club.
func New(name, address, city, province, postalCode, country, phone, email, federationNumber, associationID string, now time.Time) (*Club, error) {
	c := &Club{
		Name:             name,
		Address:          address,
		City:             city,
		Province:         province,
		PostalCode:       postalCode,
		Country:          country,
		Phone:            phone,
		Email:            email,
		FederationNumber: federationNumber,
		AssociationID:    associationID,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks field invariants, first violation wins.
func (c *Club) Validate() error {
	if err := validation.RequiredString("name", c.Name); err != nil {
		return err
	}
	if err := validation.Email("email", c.Email); err != nil {
		return err
	}
	return validation.RequiredString("federation_number", c.FederationNumber)
}

// Activate marks the club active. Idempotent.
func (c *Club) Activate(now time.Time) {
	c.IsActive = true
	c.UpdatedAt = now
}

// Deactivate marks the club inactive. Idempotent.
func (c *Club) Deactivate(now time.Time) {
	c.IsActive = false
	c.UpdatedAt = now
}

// Patch lists the updatable fields; nil pointers leave fields untouched.
type Patch struct {
	Name             *string `json:"name,omitempty"`
	Address          *string `json:"address,omitempty"`
	City             *string `json:"city,omitempty"`
	Province         *string `json:"province,omitempty"`
	PostalCode       *string `json:"postal_code,omitempty"`
	Country          *string `json:"country,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	Email            *string `json:"email,omitempty"`
	FederationNumber *string `json:"federation_number,omitempty"`
	AssociationID    *string `json:"association_id,omitempty"`
}

func (p *Patch) apply(c *Club) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.City != nil {
		c.City = *p.City
	}
	if p.Province != nil {
		c.Province = *p.Province
	}
	if p.PostalCode != nil {
		c.PostalCode = *p.PostalCode
	}
	if p.Country != nil {
		c.Country = *p.Country
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.FederationNumber != nil {
		c.FederationNumber = *p.FederationNumber
	}
	if p.AssociationID != nil {
		c.AssociationID = *p.AssociationID
	}
}

// ApplyPatch validates the patched value on a copy and only then mutates the
// receiver, so a failed update leaves the entity unchanged.
func (c *Club) ApplyPatch(p *Patch, now time.Time) error {
	updated := *c
	p.apply(&updated)
	if err := updated.Validate(); err != nil {
		return err
	}
	updated.UpdatedAt = now
	*c = updated
	return nil
}
