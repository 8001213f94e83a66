package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	dErrors "aikifed/pkg/domain-errors"
)

type ValidationSuite struct {
	suite.Suite
}

func TestValidationSuite(t *testing.T) {
	suite.Run(t, new(ValidationSuite))
}

func (s *ValidationSuite) TestRequiredString() {
	s.Run("accepts non-empty value", func() {
		s.NoError(RequiredString("name", "Aikikai Madrid"))
	})

	s.Run("rejects empty and whitespace-only values", func() {
		for _, v := range []string{"", "   ", "\t"} {
			err := RequiredString("name", v)
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeValidation))
			s.Contains(err.Error(), "name")
		}
	})
}

func (s *ValidationSuite) TestEmail() {
	s.Run("accepts anything with an at sign", func() {
		s.NoError(Email("email", "info@dojo.com"))
	})

	s.Run("rejects missing at sign", func() {
		err := Email("email", "infodojo.com")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("rejects empty value", func() {
		s.Error(Email("email", ""))
	})
}

func (s *ValidationSuite) TestNonNegative() {
	s.Run("zero is accepted", func() {
		s.NoError(NonNegative("amount", 0))
	})

	s.Run("negative fails", func() {
		err := NonNegative("amount", -0.01)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ValidationSuite) TestDateOrder() {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)

	s.Run("start before end passes", func() {
		s.NoError(DateOrder(start, end))
	})

	s.Run("equal dates pass", func() {
		s.NoError(DateOrder(start, start))
	})

	s.Run("start after end fails", func() {
		err := DateOrder(end, start)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("zero dates are ignored", func() {
		s.NoError(DateOrder(time.Time{}, time.Time{}))
	})
}
