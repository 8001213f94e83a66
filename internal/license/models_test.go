package license

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	dErrors "aikifed/pkg/domain-errors"
)

type LicenseModelSuite struct {
	suite.Suite
	now time.Time
}

func TestLicenseModelSuite(t *testing.T) {
	suite.Run(t, new(LicenseModelSuite))
}

func (s *LicenseModelSuite) SetupTest() {
	s.now = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
}

func (s *LicenseModelSuite) newLicense(expiration time.Time) *License {
	l, err := New("LIC-001", "member-1", "club-1", "", TypeDan, "1st dan",
		s.now.AddDate(-1, 0, 0), expiration, s.now)
	s.Require().NoError(err)
	return l
}

func (s *LicenseModelSuite) TestNew() {
	s.Run("valid license starts active", func() {
		l := s.newLicense(s.now.AddDate(1, 0, 0))
		s.Equal(StatusActive, l.Status)
		s.False(l.IsRenewed)
		s.Nil(l.RenewalDate)
	})

	s.Run("empty license number fails validation", func() {
		_, err := New("", "member-1", "", "", TypeKyu, "5th kyu", s.now, s.now.AddDate(1, 0, 0), s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("empty grade fails validation", func() {
		_, err := New("LIC-002", "member-1", "", "", TypeKyu, "", s.now, s.now.AddDate(1, 0, 0), s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unknown type fails validation", func() {
		_, err := New("LIC-003", "member-1", "", "", Type("honorary"), "1st dan", s.now, s.now.AddDate(1, 0, 0), s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("issue date after expiration fails validation", func() {
		_, err := New("LIC-004", "member-1", "", "", TypeDan, "1st dan", s.now.AddDate(1, 0, 0), s.now, s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *LicenseModelSuite) TestExpiry() {
	s.Run("past expiration date reads as expired", func() {
		l := s.newLicense(s.now.AddDate(0, -1, 0))
		s.True(l.IsExpired(s.now))
	})

	s.Run("future expiration date is not expired", func() {
		l := s.newLicense(s.now.AddDate(0, 1, 0))
		s.False(l.IsExpired(s.now))
	})

	s.Run("CheckAndUpdateStatus flips stale active to expired", func() {
		l := s.newLicense(s.now.AddDate(0, -1, 0))
		s.True(l.CheckAndUpdateStatus(s.now))
		s.Equal(StatusExpired, l.Status)
	})

	s.Run("CheckAndUpdateStatus leaves a current license alone", func() {
		l := s.newLicense(s.now.AddDate(0, 1, 0))
		s.False(l.CheckAndUpdateStatus(s.now))
		s.Equal(StatusActive, l.Status)
	})

	s.Run("CheckAndUpdateStatus does not touch revoked licenses", func() {
		l := s.newLicense(s.now.AddDate(0, -1, 0))
		l.Revoke(s.now)
		s.False(l.CheckAndUpdateStatus(s.now))
		s.Equal(StatusRevoked, l.Status)
	})
}

func (s *LicenseModelSuite) TestRenew() {
	s.Run("renews an expired license with a future date", func() {
		l := s.newLicense(s.now.AddDate(0, -1, 0))
		l.CheckAndUpdateStatus(s.now)

		future := s.now.AddDate(1, 0, 0)
		s.Require().NoError(l.Renew(future, s.now))
		s.Equal(StatusActive, l.Status)
		s.True(l.IsRenewed)
		s.Equal(future, l.ExpirationDate)
		s.Require().NotNil(l.RenewalDate)
		s.Equal(s.now, *l.RenewalDate)
	})

	s.Run("renews an active license", func() {
		l := s.newLicense(s.now.AddDate(0, 1, 0))
		s.NoError(l.Renew(s.now.AddDate(1, 0, 0), s.now))
	})

	s.Run("rejects a past expiration date", func() {
		l := s.newLicense(s.now.AddDate(0, 1, 0))
		err := l.Renew(s.now.AddDate(0, 0, -1), s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.False(l.IsRenewed)
	})

	s.Run("rejects renewal of a revoked license", func() {
		l := s.newLicense(s.now.AddDate(0, 1, 0))
		l.Revoke(s.now)
		err := l.Renew(s.now.AddDate(1, 0, 0), s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func (s *LicenseModelSuite) TestRevoke() {
	s.Run("revoke is allowed from any state", func() {
		l := s.newLicense(s.now.AddDate(0, 1, 0))
		l.Revoke(s.now)
		s.Equal(StatusRevoked, l.Status)
	})
}

func (s *LicenseModelSuite) TestUpdateGrade() {
	s.Run("changes the grade", func() {
		l := s.newLicense(s.now.AddDate(0, 1, 0))
		s.Require().NoError(l.UpdateGrade("2nd dan", s.now))
		s.Equal("2nd dan", l.Grade)
	})

	s.Run("rejects an empty grade", func() {
		l := s.newLicense(s.now.AddDate(0, 1, 0))
		s.Error(l.UpdateGrade("", s.now))
		s.Equal("1st dan", l.Grade)
	})
}

func (s *LicenseModelSuite) TestApplyPatch() {
	s.Run("failed patch leaves the license unchanged", func() {
		l := s.newLicense(s.now.AddDate(0, 1, 0))
		empty := ""
		err := l.ApplyPatch(&Patch{Grade: &empty}, s.now)
		s.Require().Error(err)
		s.Equal("1st dan", l.Grade)
	})

	s.Run("patch applies all provided fields", func() {
		l := s.newLicense(s.now.AddDate(0, 1, 0))
		grade := "3rd kyu"
		t := TypeKyu
		s.Require().NoError(l.ApplyPatch(&Patch{Grade: &grade, Type: &t}, s.now))
		s.Equal("3rd kyu", l.Grade)
		s.Equal(TypeKyu, l.Type)
	})
}
