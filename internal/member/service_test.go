package member

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "aikifed/pkg/domain-errors"
)

type MemberServiceSuite struct {
	suite.Suite
	ctx     context.Context
	store   *InMemory
	service *Service
}

func TestMemberServiceSuite(t *testing.T) {
	suite.Run(t, new(MemberServiceSuite))
}

func (s *MemberServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemory()
	s.service = NewService(s.store, nil)
}

func (s *MemberServiceSuite) create(first, last, dni, email string) *Member {
	m, err := s.service.Create(s.ctx, CreateParams{
		FirstName: first,
		LastName:  last,
		DNI:       dni,
		Email:     email,
		City:      "Madrid",
	})
	s.Require().NoError(err)
	return m
}

func (s *MemberServiceSuite) TestCreateUniqueness() {
	s.create("Ana", "García", "12345678Z", "ana@aikido.es")

	_, err := s.service.Create(s.ctx, CreateParams{
		FirstName: "Otra",
		LastName:  "Persona",
		DNI:       "12345678Z",
		Email:     "otra@aikido.es",
		City:      "Madrid",
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *MemberServiceSuite) TestListSearch() {
	s.create("Ana", "García", "12345678Z", "ana@aikido.es")
	s.create("Kenji", "Yamada", "87654321X", "kenji@aikido.es")

	s.Run("matches last name fragment case-insensitively", func() {
		out, err := s.service.List(s.ctx, ListParams{Query: "garc"})
		s.Require().NoError(err)
		s.Require().Len(out, 1)
		s.Equal("Ana", out[0].FirstName)
	})

	s.Run("matches dni fragment", func() {
		out, err := s.service.List(s.ctx, ListParams{Query: "87654"})
		s.Require().NoError(err)
		s.Require().Len(out, 1)
		s.Equal("Kenji", out[0].FirstName)
	})

	s.Run("no match returns empty", func() {
		out, err := s.service.List(s.ctx, ListParams{Query: "nakamura"})
		s.Require().NoError(err)
		s.Empty(out)
	})

	s.Run("limit caps the result", func() {
		out, err := s.service.List(s.ctx, ListParams{Query: "a", Limit: 1})
		s.Require().NoError(err)
		s.Len(out, 1)
	})

	s.Run("query wins over status filter", func() {
		out, err := s.service.List(s.ctx, ListParams{Query: "garc", Status: StatusSuspended})
		s.Require().NoError(err)
		s.Len(out, 1)
	})
}
