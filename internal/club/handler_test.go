package club

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
)

type ClubHandlerSuite struct {
	suite.Suite
	store  *InMemory
	router chi.Router
}

func TestClubHandlerSuite(t *testing.T) {
	suite.Run(t, new(ClubHandlerSuite))
}

func (s *ClubHandlerSuite) SetupTest() {
	s.store = NewInMemory()
	s.router = chi.NewRouter()
	NewHandler(NewService(s.store, nil)).Register(s.router)
}

func (s *ClubHandlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *ClubHandlerSuite) createBody() map[string]any {
	return map[string]any{
		"name":              "Dojo Central",
		"email":             "info@dojo.com",
		"city":              "Madrid",
		"federation_number": "FC-001",
	}
}

func (s *ClubHandlerSuite) TestCreate() {
	s.Run("valid body returns 201", func() {
		rec := s.do(http.MethodPost, "/clubs", s.createBody())
		s.Require().Equal(http.StatusCreated, rec.Code)

		var c Club
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &c))
		s.NotEmpty(c.ID)
		s.True(c.IsActive)
	})

	s.Run("malformed body returns 400", func() {
		req := httptest.NewRequest(http.MethodPost, "/clubs", bytes.NewBufferString("{not json"))
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("missing name returns 422", func() {
		body := s.createBody()
		body["name"] = ""
		rec := s.do(http.MethodPost, "/clubs", body)
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("duplicate federation number returns 409", func() {
		rec := s.do(http.MethodPost, "/clubs", s.createBody())
		s.Require().Equal(http.StatusCreated, rec.Code)

		body := s.createBody()
		body["email"] = "other@dojo.com"
		rec = s.do(http.MethodPost, "/clubs", body)
		s.Equal(http.StatusConflict, rec.Code)
	})
}

func (s *ClubHandlerSuite) TestGet() {
	rec := s.do(http.MethodPost, "/clubs", s.createBody())
	s.Require().Equal(http.StatusCreated, rec.Code)
	var created Club
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &created))

	s.Run("existing club returns 200", func() {
		rec := s.do(http.MethodGet, "/clubs/"+created.ID, nil)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("unknown id returns 404", func() {
		rec := s.do(http.MethodGet, "/clubs/missing", nil)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *ClubHandlerSuite) TestLifecycleRoutes() {
	rec := s.do(http.MethodPost, "/clubs", s.createBody())
	s.Require().Equal(http.StatusCreated, rec.Code)
	var created Club
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &created))

	rec = s.do(http.MethodPost, "/clubs/"+created.ID+"/deactivate", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var c Club
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &c))
	s.False(c.IsActive)

	rec = s.do(http.MethodPost, "/clubs/"+created.ID+"/activate", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodDelete, "/clubs/"+created.ID, nil)
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/clubs/"+created.ID, nil)
	s.Equal(http.StatusNotFound, rec.Code)
}
