package license

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"aikifed/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *InMemory
	now   time.Time
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemory()
	s.now = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
}

func (s *InMemoryStoreSuite) newLicense(number, memberID string, expiresIn time.Duration) *License {
	l, err := New(number, memberID, "", "", TypeKyu, "5th kyu",
		s.now, s.now.Add(expiresIn), s.now)
	s.Require().NoError(err)
	return l
}

func (s *InMemoryStoreSuite) TestCreateAndFind() {
	created, err := s.store.Create(s.ctx, s.newLicense("LIC-001", "member-1", 365*24*time.Hour))
	s.Require().NoError(err)
	s.NotEmpty(created.ID)

	s.Run("by id", func() {
		got, err := s.store.FindByID(s.ctx, created.ID)
		s.Require().NoError(err)
		s.Equal("LIC-001", got.LicenseNumber)
	})

	s.Run("by license number, case insensitive", func() {
		got, err := s.store.FindByLicenseNumber(s.ctx, "lic-001")
		s.Require().NoError(err)
		s.Equal(created.ID, got.ID)
	})

	s.Run("by member id", func() {
		out, err := s.store.FindByMemberID(s.ctx, "member-1", 0)
		s.Require().NoError(err)
		s.Len(out, 1)
	})

	s.Run("missing id", func() {
		_, err := s.store.FindByID(s.ctx, "missing")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestCreateDuplicateNumber() {
	_, err := s.store.Create(s.ctx, s.newLicense("LIC-001", "member-1", 24*time.Hour))
	s.Require().NoError(err)

	_, err = s.store.Create(s.ctx, s.newLicense("LIC-001", "member-2", 24*time.Hour))
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)
}

func (s *InMemoryStoreSuite) TestReturnsCopies() {
	created, err := s.store.Create(s.ctx, s.newLicense("LIC-001", "member-1", 24*time.Hour))
	s.Require().NoError(err)

	created.Grade = "mutated"

	got, err := s.store.FindByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("5th kyu", got.Grade)
}

func (s *InMemoryStoreSuite) TestFindExpiringSoon() {
	_, err := s.store.Create(s.ctx, s.newLicense("LIC-SOON", "member-1", 10*24*time.Hour))
	s.Require().NoError(err)
	_, err = s.store.Create(s.ctx, s.newLicense("LIC-FAR", "member-1", 90*24*time.Hour))
	s.Require().NoError(err)

	overdue := s.newLicense("LIC-OVERDUE", "member-1", 24*time.Hour)
	created, err := s.store.Create(s.ctx, overdue)
	s.Require().NoError(err)
	created.ExpirationDate = s.now.Add(-24 * time.Hour)
	_, err = s.store.Update(s.ctx, created)
	s.Require().NoError(err)

	out, err := s.store.FindExpiringSoon(s.ctx, s.now, s.now.Add(30*24*time.Hour), 0)
	s.Require().NoError(err)
	s.Require().Len(out, 1)
	s.Equal("LIC-SOON", out[0].LicenseNumber)
}

func (s *InMemoryStoreSuite) TestDelete() {
	created, err := s.store.Create(s.ctx, s.newLicense("LIC-001", "member-1", 24*time.Hour))
	s.Require().NoError(err)

	deleted, err := s.store.Delete(s.ctx, created.ID)
	s.Require().NoError(err)
	s.True(deleted)

	deleted, err = s.store.Delete(s.ctx, created.ID)
	s.Require().NoError(err)
	s.False(deleted)

	exists, err := s.store.Exists(s.ctx, created.ID)
	s.Require().NoError(err)
	s.False(exists)
}
