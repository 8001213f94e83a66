package insurance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	dErrors "aikifed/pkg/domain-errors"
)

type InsuranceModelSuite struct {
	suite.Suite
	now time.Time
}

func TestInsuranceModelSuite(t *testing.T) {
	suite.Run(t, new(InsuranceModelSuite))
}

func (s *InsuranceModelSuite) SetupTest() {
	s.now = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
}

func (s *InsuranceModelSuite) newPolicy(endDate time.Time) *Insurance {
	i, err := New("POL-001", "member-1", TypeAccident, "Mapfre", 60000, 45,
		s.now.AddDate(-1, 0, 0), endDate, s.now)
	s.Require().NoError(err)
	return i
}

func (s *InsuranceModelSuite) TestNew() {
	s.Run("valid policy starts pending", func() {
		i := s.newPolicy(s.now.AddDate(1, 0, 0))
		s.Equal(StatusPending, i.Status)
	})

	s.Run("empty policy number fails validation", func() {
		_, err := New("", "member-1", TypeAccident, "", 0, 0, s.now, s.now.AddDate(1, 0, 0), s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("empty company fails validation", func() {
		_, err := New("POL-002", "member-1", TypeAccident, "", 0, 0, s.now, s.now.AddDate(1, 0, 0), s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("negative coverage fails validation", func() {
		_, err := New("POL-002", "member-1", TypeAccident, "Mapfre", -1, 0, s.now, s.now.AddDate(1, 0, 0), s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unknown type fails validation", func() {
		_, err := New("POL-003", "member-1", Type("travel"), "Mapfre", 0, 0, s.now, s.now.AddDate(1, 0, 0), s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *InsuranceModelSuite) TestTransitions() {
	s.Run("activate requires both dates set", func() {
		i := s.newPolicy(s.now.AddDate(1, 0, 0))
		s.Require().NoError(i.Activate(s.now))
		s.Equal(StatusActive, i.Status)

		bare := &Insurance{PolicyNumber: "POL-004", MemberID: "member-1", Type: TypeAccident}
		err := bare.Activate(s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("cancel is allowed from any state", func() {
		i := s.newPolicy(s.now.AddDate(1, 0, 0))
		i.Cancel(s.now)
		s.Equal(StatusCancelled, i.Status)
	})

	s.Run("expire moves to expired explicitly", func() {
		i := s.newPolicy(s.now.AddDate(1, 0, 0))
		i.Expire(s.now)
		s.Equal(StatusExpired, i.Status)
	})

	s.Run("CheckAndUpdateStatus flips stale active to expired", func() {
		i := s.newPolicy(s.now.AddDate(0, -1, 0))
		i.Status = StatusActive
		s.True(i.CheckAndUpdateStatus(s.now))
		s.Equal(StatusExpired, i.Status)
	})

	s.Run("CheckAndUpdateStatus ignores pending policies", func() {
		i := s.newPolicy(s.now.AddDate(0, -1, 0))
		s.False(i.CheckAndUpdateStatus(s.now))
		s.Equal(StatusPending, i.Status)
	})
}

func (s *InsuranceModelSuite) TestExpiryPredicates() {
	s.Run("policy ending in five days is expiring within ten but not one", func() {
		i := s.newPolicy(s.now.AddDate(0, 0, 5))
		s.True(i.IsExpiringSoon(10, s.now))
		s.False(i.IsExpiringSoon(1, s.now))
		s.Equal(5, i.DaysUntilExpiry(s.now))
	})

	s.Run("expired policy is never expiring soon", func() {
		i := s.newPolicy(s.now.AddDate(0, 0, -3))
		s.True(i.IsExpired(s.now))
		s.False(i.IsExpiringSoon(10, s.now))
		s.False(i.IsExpiringSoon(1000, s.now))
	})
}

func (s *InsuranceModelSuite) TestUpdates() {
	s.Run("update coverage keeps the non-negative invariant", func() {
		i := s.newPolicy(s.now.AddDate(1, 0, 0))
		s.Require().NoError(i.UpdateCoverage(90000, s.now))
		s.Equal(90000.0, i.CoverageAmount)

		s.Error(i.UpdateCoverage(-1, s.now))
		s.Equal(90000.0, i.CoverageAmount)
	})

	s.Run("update dates round-trips valid values and rejects reversed", func() {
		i := s.newPolicy(s.now.AddDate(1, 0, 0))
		a := s.now
		b := s.now.AddDate(1, 0, 0)
		s.Require().NoError(i.UpdateDates(a, b, s.now))
		s.Equal(a, i.StartDate)
		s.Equal(b, i.EndDate)

		s.Error(i.UpdateDates(b, a, s.now))
		s.Equal(a, i.StartDate)
	})

	s.Run("failed patch leaves the policy unchanged", func() {
		i := s.newPolicy(s.now.AddDate(1, 0, 0))
		bad := -5.0
		err := i.ApplyPatch(&Patch{Premium: &bad}, s.now)
		s.Require().Error(err)
		s.Equal(45.0, i.Premium)
	})
}
