package member

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	dErrors "aikifed/pkg/domain-errors"
)

type MemberModelSuite struct {
	suite.Suite
	now time.Time
}

func TestMemberModelSuite(t *testing.T) {
	suite.Run(t, new(MemberModelSuite))
}

func (s *MemberModelSuite) SetupTest() {
	s.now = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
}

func (s *MemberModelSuite) newMember() *Member {
	m, err := New("Ana", "García", "12345678Z", "ana@example.com",
		"", "", "Madrid", "", "", "", "club-1", nil, s.now)
	s.Require().NoError(err)
	return m
}

func (s *MemberModelSuite) TestNew() {
	s.Run("valid member starts active with defaults", func() {
		m := s.newMember()
		s.Equal(StatusActive, m.Status)
		s.Equal("Spain", m.Country)
		s.Equal(s.now, m.RegistrationDate)
		s.Equal("Ana García", m.FullName())
	})

	s.Run("missing required fields fail validation", func() {
		cases := []struct {
			name      string
			first, last, dni, email string
		}{
			{"empty first name", "", "García", "12345678Z", "ana@example.com"},
			{"empty last name", "Ana", "", "12345678Z", "ana@example.com"},
			{"empty dni", "Ana", "García", "", "ana@example.com"},
			{"email without at sign", "Ana", "García", "12345678Z", "ana.example.com"},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				_, err := New(tc.first, tc.last, tc.dni, tc.email, "", "", "", "", "", "", "", nil, s.now)
				s.Require().Error(err)
				s.True(dErrors.HasCode(err, dErrors.CodeValidation))
			})
		}
	})
}

func (s *MemberModelSuite) TestStatusToggles() {
	m := s.newMember()

	s.Run("deactivate and reactivate are idempotent", func() {
		m.Deactivate(s.now)
		s.Equal(StatusInactive, m.Status)
		m.Deactivate(s.now)
		s.Equal(StatusInactive, m.Status)

		m.Activate(s.now)
		s.True(m.IsActive())
	})

	s.Run("suspend", func() {
		m.Suspend(s.now)
		s.Equal(StatusSuspended, m.Status)
		s.False(m.IsActive())
	})
}

func (s *MemberModelSuite) TestApplyPatch() {
	s.Run("failed patch leaves the member unchanged", func() {
		m := s.newMember()
		bad := "not-an-email"
		err := m.ApplyPatch(&Patch{Email: &bad}, s.now)
		s.Require().Error(err)
		s.Equal("ana@example.com", m.Email)
	})

	s.Run("patch applies provided fields only", func() {
		m := s.newMember()
		city := "Barcelona"
		s.Require().NoError(m.ApplyPatch(&Patch{City: &city}, s.now))
		s.Equal("Barcelona", m.City)
		s.Equal("Ana", m.FirstName)
	})
}
