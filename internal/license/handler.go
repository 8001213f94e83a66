package license

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"aikifed/internal/transport/http/shared"
)

// Handler exposes the license REST surface.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the license routes. The expiring listing comes before the
// id routes so "expiring" is not captured as an id.
func (h *Handler) Register(r chi.Router) {
	r.Route("/licenses", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/expiring", h.handleExpiring)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
		r.Post("/{id}/renew", h.handleRenew)
		r.Post("/{id}/revoke", h.handleRevoke)
		r.Put("/{id}/grade", h.handleUpdateGrade)
	})
}

type createRequest struct {
	LicenseNumber  string    `json:"license_number"`
	MemberID       string    `json:"member_id"`
	ClubID         string    `json:"club_id"`
	AssociationID  string    `json:"association_id"`
	Type           Type      `json:"type"`
	Grade          string    `json:"grade"`
	IssueDate      time.Time `json:"issue_date"`
	ExpirationDate time.Time `json:"expiration_date"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	l, err := h.service.Create(r.Context(), CreateParams{
		LicenseNumber:  req.LicenseNumber,
		MemberID:       req.MemberID,
		ClubID:         req.ClubID,
		AssociationID:  req.AssociationID,
		Type:           req.Type,
		Grade:          req.Grade,
		IssueDate:      req.IssueDate,
		ExpirationDate: req.ExpirationDate,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, l)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	out, err := h.service.List(r.Context(), ListParams{
		MemberID: q.Get("member_id"),
		ClubID:   q.Get("club_id"),
		Status:   Status(q.Get("status")),
		Type:     Type(q.Get("type")),
		Limit:    limit,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleExpiring(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	days, _ := strconv.Atoi(q.Get("days"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	out, err := h.service.ListExpiringSoon(r.Context(), days, limit)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	l, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, l)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch Patch
	if err := shared.DecodeJSON(r, &patch); err != nil {
		shared.WriteError(w, err)
		return
	}
	l, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), &patch)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, l)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type renewRequest struct {
	ExpirationDate time.Time `json:"expiration_date"`
}

func (h *Handler) handleRenew(w http.ResponseWriter, r *http.Request) {
	var req renewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	l, err := h.service.Renew(r.Context(), chi.URLParam(r, "id"), req.ExpirationDate)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, l)
}

func (h *Handler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	l, err := h.service.Revoke(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, l)
}

type gradeRequest struct {
	Grade string `json:"grade"`
}

func (h *Handler) handleUpdateGrade(w http.ResponseWriter, r *http.Request) {
	var req gradeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	l, err := h.service.UpdateGrade(r.Context(), chi.URLParam(r, "id"), req.Grade)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, l)
}
