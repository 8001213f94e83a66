package license

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"aikifed/internal/member"
	dErrors "aikifed/pkg/domain-errors"
)

type LicenseServiceSuite struct {
	suite.Suite
	ctx      context.Context
	store    *InMemory
	members  *member.InMemory
	memberID string
	service  *Service
}

func TestLicenseServiceSuite(t *testing.T) {
	suite.Run(t, new(LicenseServiceSuite))
}

func (s *LicenseServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemory()
	s.members = member.NewInMemory()

	m, err := member.New("Ana", "García", "12345678Z", "ana@aikido.es",
		"", "", "Madrid", "Madrid", "28001", "", "", nil, time.Now())
	s.Require().NoError(err)
	created, err := s.members.Create(s.ctx, m)
	s.Require().NoError(err)
	s.memberID = created.ID

	s.service = NewService(s.store, s.members, nil)
}

func (s *LicenseServiceSuite) params(number string) CreateParams {
	now := time.Now()
	return CreateParams{
		LicenseNumber:  number,
		MemberID:       s.memberID,
		Type:           TypeDan,
		Grade:          "1st dan",
		IssueDate:      now,
		ExpirationDate: now.AddDate(1, 0, 0),
	}
}

func (s *LicenseServiceSuite) TestCreate() {
	s.Run("creates an active license", func() {
		l, err := s.service.Create(s.ctx, s.params("LIC-001"))
		s.Require().NoError(err)
		s.NotEmpty(l.ID)
		s.Equal(StatusActive, l.Status)
	})

	s.Run("duplicate license number is rejected", func() {
		_, err := s.service.Create(s.ctx, s.params("LIC-002"))
		s.Require().NoError(err)

		_, err = s.service.Create(s.ctx, s.params("LIC-002"))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("empty member id is a validation error", func() {
		p := s.params("LIC-004")
		p.MemberID = ""
		_, err := s.service.Create(s.ctx, p)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unknown member reference is rejected", func() {
		p := s.params("LIC-003")
		p.MemberID = "missing"
		_, err := s.service.Create(s.ctx, p)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *LicenseServiceSuite) TestRenew() {
	s.Run("renews to a future date", func() {
		l, err := s.service.Create(s.ctx, s.params("LIC-010"))
		s.Require().NoError(err)

		newExpiration := time.Now().AddDate(2, 0, 0)
		renewed, err := s.service.Renew(s.ctx, l.ID, newExpiration)
		s.Require().NoError(err)
		s.Equal(StatusActive, renewed.Status)
		s.True(renewed.ExpirationDate.Equal(newExpiration))
	})

	s.Run("renews a stale overdue license", func() {
		l, err := s.service.Create(s.ctx, s.params("LIC-011"))
		s.Require().NoError(err)

		l.ExpirationDate = time.Now().AddDate(0, 0, -10)
		_, err = s.store.Update(s.ctx, l)
		s.Require().NoError(err)

		renewed, err := s.service.Renew(s.ctx, l.ID, time.Now().AddDate(1, 0, 0))
		s.Require().NoError(err)
		s.Equal(StatusActive, renewed.Status)
	})

	s.Run("renewal into the past is rejected", func() {
		l, err := s.service.Create(s.ctx, s.params("LIC-012"))
		s.Require().NoError(err)

		_, err = s.service.Renew(s.ctx, l.ID, time.Now().AddDate(0, 0, -1))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("revoked license cannot renew", func() {
		l, err := s.service.Create(s.ctx, s.params("LIC-013"))
		s.Require().NoError(err)

		_, err = s.service.Revoke(s.ctx, l.ID)
		s.Require().NoError(err)

		_, err = s.service.Renew(s.ctx, l.ID, time.Now().AddDate(1, 0, 0))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("unknown license returns not found", func() {
		_, err := s.service.Renew(s.ctx, "missing", time.Now().AddDate(1, 0, 0))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *LicenseServiceSuite) TestGetReconcilesExpiry() {
	l, err := s.service.Create(s.ctx, s.params("LIC-020"))
	s.Require().NoError(err)

	l.ExpirationDate = time.Now().AddDate(0, 0, -1)
	_, err = s.store.Update(s.ctx, l)
	s.Require().NoError(err)

	got, err := s.service.Get(s.ctx, l.ID)
	s.Require().NoError(err)
	s.Equal(StatusExpired, got.Status)

	stored, err := s.store.FindByID(s.ctx, l.ID)
	s.Require().NoError(err)
	s.Equal(StatusExpired, stored.Status)
}

func (s *LicenseServiceSuite) TestListExpiringSoon() {
	soon := s.params("LIC-030")
	soon.ExpirationDate = time.Now().AddDate(0, 0, 10)
	_, err := s.service.Create(s.ctx, soon)
	s.Require().NoError(err)

	far := s.params("LIC-031")
	far.ExpirationDate = time.Now().AddDate(1, 0, 0)
	_, err = s.service.Create(s.ctx, far)
	s.Require().NoError(err)

	out, err := s.service.ListExpiringSoon(s.ctx, 30, 0)
	s.Require().NoError(err)
	s.Require().Len(out, 1)
	s.Equal("LIC-030", out[0].LicenseNumber)

	out, err = s.service.ListExpiringSoon(s.ctx, 5, 0)
	s.Require().NoError(err)
	s.Empty(out)
}

func (s *LicenseServiceSuite) TestUpdateGrade() {
	l, err := s.service.Create(s.ctx, s.params("LIC-040"))
	s.Require().NoError(err)

	updated, err := s.service.UpdateGrade(s.ctx, l.ID, "2nd dan")
	s.Require().NoError(err)
	s.Equal("2nd dan", updated.Grade)

	_, err = s.service.UpdateGrade(s.ctx, l.ID, "  ")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}
