package derrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorsSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsSuite))
}

func (s *ErrorsSuite) TestCodeDetection() {
	s.Run("HasCode matches the code on a plain error", func() {
		err := New(CodeNotFound, "club not found")
		s.True(HasCode(err, CodeNotFound))
		s.False(HasCode(err, CodeConflict))
	})

	s.Run("HasCode sees through fmt wrapping", func() {
		err := fmt.Errorf("handler: %w", New(CodeValidation, "name must not be empty"))
		s.True(HasCode(err, CodeValidation))
	})

	s.Run("HasCode is false for non-domain errors", func() {
		s.False(HasCode(errors.New("boom"), CodeInternal))
	})
}

func (s *ErrorsSuite) TestWrap() {
	s.Run("preserves the underlying error for errors.Is", func() {
		underlying := errors.New("connection refused")
		err := Wrap(underlying, CodeInternal, "failed to list clubs")
		s.ErrorIs(err, underlying)
		s.Equal(CodeInternal, CodeOf(err))
	})

	s.Run("message includes both layers", func() {
		err := Wrap(errors.New("timeout"), CodeInternal, "lookup failed")
		s.Contains(err.Error(), "lookup failed")
		s.Contains(err.Error(), "timeout")
	})
}

func (s *ErrorsSuite) TestCodeOf() {
	s.Run("defaults to internal for unknown errors", func() {
		s.Equal(CodeInternal, CodeOf(errors.New("boom")))
	})
}

func (s *ErrorsSuite) TestToHTTPStatus() {
	cases := map[Code]int{
		CodeValidation: http.StatusUnprocessableEntity,
		CodeNotFound:   http.StatusNotFound,
		CodeConflict:   http.StatusConflict,
		CodeBadRequest: http.StatusBadRequest,
		CodeForbidden:  http.StatusForbidden,
		CodeInternal:   http.StatusInternalServerError,
	}
	for code, want := range cases {
		s.Equal(want, ToHTTPStatus(code), "code %s", code)
	}
}
