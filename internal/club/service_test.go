package club

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"aikifed/internal/association"
	dErrors "aikifed/pkg/domain-errors"
)

type ClubServiceSuite struct {
	suite.Suite
	ctx          context.Context
	store        *InMemory
	associations *association.InMemory
	service      *Service
}

func TestClubServiceSuite(t *testing.T) {
	suite.Run(t, new(ClubServiceSuite))
}

func (s *ClubServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemory()
	s.associations = association.NewInMemory()
	s.service = NewService(s.store, s.associations)
}

func (s *ClubServiceSuite) params() CreateParams {
	return CreateParams{
		Name:             "Dojo Central",
		Email:            "info@dojo.com",
		City:             "Madrid",
		FederationNumber: "FC-001",
	}
}

func (s *ClubServiceSuite) TestCreate() {
	s.Run("creates an active club", func() {
		c, err := s.service.Create(s.ctx, s.params())
		s.Require().NoError(err)
		s.NotEmpty(c.ID)
		s.True(c.IsActive)
	})

	s.Run("duplicate federation number is rejected before persistence", func() {
		_, err := s.service.Create(s.ctx, s.params())
		s.Require().NoError(err)

		second := s.params()
		second.Name = "Dojo Norte"
		second.Email = "norte@dojo.com"
		_, err = s.service.Create(s.ctx, second)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("unknown association reference is rejected", func() {
		p := s.params()
		p.FederationNumber = "FC-002"
		p.AssociationID = "missing"
		_, err := s.service.Create(s.ctx, p)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("existing association reference is accepted", func() {
		a, err := association.New("Asociación Centro", "Calle Mayor 1", "Madrid", "Madrid",
			"28001", "Spain", "", "centro@aikido.es", "G12345678", time.Now())
		s.Require().NoError(err)
		created, err := s.associations.Create(s.ctx, a)
		s.Require().NoError(err)

		p := s.params()
		p.FederationNumber = "FC-003"
		p.Email = "sur@dojo.com"
		p.AssociationID = created.ID
		c, err := s.service.Create(s.ctx, p)
		s.Require().NoError(err)
		s.Equal(created.ID, c.AssociationID)
	})
}

func (s *ClubServiceSuite) TestLifecycle() {
	c, err := s.service.Create(s.ctx, s.params())
	s.Require().NoError(err)

	s.Run("get returns the stored club", func() {
		got, err := s.service.Get(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Equal(c.Name, got.Name)
	})

	s.Run("get unknown id returns not found", func() {
		_, err := s.service.Get(s.ctx, "missing")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("deactivate and activate toggle the flag", func() {
		got, err := s.service.Deactivate(s.ctx, c.ID)
		s.Require().NoError(err)
		s.False(got.IsActive)

		got, err = s.service.Activate(s.ctx, c.ID)
		s.Require().NoError(err)
		s.True(got.IsActive)
	})

	s.Run("update patches provided fields", func() {
		city := "Sevilla"
		got, err := s.service.Update(s.ctx, c.ID, &Patch{City: &city})
		s.Require().NoError(err)
		s.Equal("Sevilla", got.City)
	})

	s.Run("delete removes the club", func() {
		deleted, err := s.service.Delete(s.ctx, c.ID)
		s.Require().NoError(err)
		s.True(deleted)

		_, err = s.service.Delete(s.ctx, c.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ClubServiceSuite) TestList() {
	s.Run("filters by association id", func() {
		first := s.params()
		first.AssociationID = ""
		_, err := s.service.Create(s.ctx, first)
		s.Require().NoError(err)

		out, err := s.service.List(s.ctx, "", 0)
		s.Require().NoError(err)
		s.Len(out, 1)

		out, err = s.service.List(s.ctx, "other-association", 0)
		s.Require().NoError(err)
		s.Empty(out)
	})
}
