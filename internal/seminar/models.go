// Package seminar manages training seminars and their participant capacity.
package seminar

import (
	"time"

	dErrors "aikifed/pkg/domain-errors"
	"aikifed/pkg/platform/validation"
)

// Status enumerates seminar lifecycle states.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Seminar is the aggregate root for a training event.
//
// Transitions:
//   - MarkOngoing: upcoming -> ongoing
//   - MarkCompleted: ongoing -> completed
//   - Cancel: upcoming|ongoing -> cancelled; completed is illegal
//
// Capacity: AddParticipant fails once full; RemoveParticipant floors at zero.
type Seminar struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description,omitempty"`
	Instructor          string    `json:"instructor"`
	Location            string    `json:"location"`
	Address             string    `json:"address,omitempty"`
	City                string    `json:"city,omitempty"`
	Province            string    `json:"province,omitempty"`
	StartDate           time.Time `json:"start_date"`
	EndDate             time.Time `json:"end_date"`
	Price               float64   `json:"price"`
	MaxParticipants     *int      `json:"max_participants,omitempty"`
	CurrentParticipants int       `json:"current_participants"`
	OrganizerClubID     string    `json:"organizer_club_id,omitempty"`
	AssociationID       string    `json:"association_id,omitempty"`
	Status              Status    `json:"status"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// New constructs a validated Seminar with status upcoming.
func New(title, description, instructor, location, address, city, province string, startDate, endDate time.Time, price float64, maxParticipants *int, organizerClubID, associationID string, now time.Time) (*Seminar, error) {
	s := &Seminar{
		Title:           title,
		Description:     description,
		Instructor:      instructor,
		Location:        location,
		Address:         address,
		City:            city,
		Province:        province,
		StartDate:       startDate,
		EndDate:         endDate,
		Price:           price,
		MaxParticipants: maxParticipants,
		OrganizerClubID: organizerClubID,
		AssociationID:   associationID,
		Status:          StatusUpcoming,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks field invariants, first violation wins.
func (s *Seminar) Validate() error {
	if err := validation.RequiredString("title", s.Title); err != nil {
		return err
	}
	if err := validation.RequiredString("instructor", s.Instructor); err != nil {
		return err
	}
	if err := validation.RequiredString("location", s.Location); err != nil {
		return err
	}
	if err := validation.DateOrder(s.StartDate, s.EndDate); err != nil {
		return err
	}
	if err := validation.NonNegative("price", s.Price); err != nil {
		return err
	}
	if s.MaxParticipants != nil {
		if err := validation.NonNegativeInt("max_participants", *s.MaxParticipants); err != nil {
			return err
		}
	}
	return nil
}

// IsFull reports whether the participant limit is reached. Seminars with no
// limit are never full.
func (s *Seminar) IsFull() bool {
	return s.MaxParticipants != nil && s.CurrentParticipants >= *s.MaxParticipants
}

// MarkOngoing starts the seminar. Allowed only from upcoming.
func (s *Seminar) MarkOngoing(now time.Time) error {
	if s.Status != StatusUpcoming {
		return transitionError(s.Status, "mark ongoing")
	}
	s.Status = StatusOngoing
	s.UpdatedAt = now
	return nil
}

// MarkCompleted finishes the seminar. Allowed only from ongoing.
func (s *Seminar) MarkCompleted(now time.Time) error {
	if s.Status != StatusOngoing {
		return transitionError(s.Status, "mark completed")
	}
	s.Status = StatusCompleted
	s.UpdatedAt = now
	return nil
}

// Cancel aborts the seminar. Allowed from upcoming or ongoing; cancelling a
// completed seminar is illegal.
func (s *Seminar) Cancel(now time.Time) error {
	if s.Status != StatusUpcoming && s.Status != StatusOngoing {
		return transitionError(s.Status, "cancel")
	}
	s.Status = StatusCancelled
	s.UpdatedAt = now
	return nil
}

// AddParticipant registers one more attendee, failing once full.
func (s *Seminar) AddParticipant(now time.Time) error {
	if s.IsFull() {
		return dErrors.New(dErrors.CodeConflict, "seminar is full")
	}
	s.CurrentParticipants++
	s.UpdatedAt = now
	return nil
}

// RemoveParticipant unregisters one attendee, never going below zero.
func (s *Seminar) RemoveParticipant(now time.Time) {
	if s.CurrentParticipants == 0 {
		return
	}
	s.CurrentParticipants--
	s.UpdatedAt = now
}

// UpdatePrice changes the price, keeping the non-negative invariant.
func (s *Seminar) UpdatePrice(price float64, now time.Time) error {
	if err := validation.NonNegative("price", price); err != nil {
		return err
	}
	s.Price = price
	s.UpdatedAt = now
	return nil
}

// UpdateDates moves the seminar, keeping start before end. A failed update
// leaves the prior dates unchanged.
func (s *Seminar) UpdateDates(startDate, endDate time.Time, now time.Time) error {
	if err := validation.DateOrder(startDate, endDate); err != nil {
		return err
	}
	s.StartDate = startDate
	s.EndDate = endDate
	s.UpdatedAt = now
	return nil
}

func transitionError(current Status, op string) error {
	return dErrors.Newf(dErrors.CodeConflict, "seminar in status %q does not allow %s", current, op)
}

// Patch lists the updatable fields; nil pointers leave fields untouched.
// Status and participant counts move only through the transition methods.
type Patch struct {
	Title           *string    `json:"title,omitempty"`
	Description     *string    `json:"description,omitempty"`
	Instructor      *string    `json:"instructor,omitempty"`
	Location        *string    `json:"location,omitempty"`
	Address         *string    `json:"address,omitempty"`
	City            *string    `json:"city,omitempty"`
	Province        *string    `json:"province,omitempty"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	Price           *float64   `json:"price,omitempty"`
	MaxParticipants *int       `json:"max_participants,omitempty"`
	OrganizerClubID *string    `json:"organizer_club_id,omitempty"`
	AssociationID   *string    `json:"association_id,omitempty"`
}

func (p *Patch) apply(s *Seminar) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.Instructor != nil {
		s.Instructor = *p.Instructor
	}
	if p.Location != nil {
		s.Location = *p.Location
	}
	if p.Address != nil {
		s.Address = *p.Address
	}
	if p.City != nil {
		s.City = *p.City
	}
	if p.Province != nil {
		s.Province = *p.Province
	}
	if p.StartDate != nil {
		s.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		s.EndDate = *p.EndDate
	}
	if p.Price != nil {
		s.Price = *p.Price
	}
	if p.MaxParticipants != nil {
		s.MaxParticipants = p.MaxParticipants
	}
	if p.OrganizerClubID != nil {
		s.OrganizerClubID = *p.OrganizerClubID
	}
	if p.AssociationID != nil {
		s.AssociationID = *p.AssociationID
	}
}

// ApplyPatch validates the patched value on a copy and only then mutates the
// receiver, so a failed update leaves the entity unchanged.
func (s *Seminar) ApplyPatch(p *Patch, now time.Time) error {
	updated := *s
	p.apply(&updated)
	if err := updated.Validate(); err != nil {
		return err
	}
	updated.UpdatedAt = now
	*s = updated
	return nil
}
