package insurance

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"aikifed/internal/transport/http/shared"
)

// Handler exposes the insurance REST surface.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the insurance routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/insurances", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/expiring", h.handleExpiring)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
		r.Post("/{id}/activate", h.handleActivate)
		r.Post("/{id}/cancel", h.handleCancel)
		r.Post("/{id}/expire", h.handleExpire)
		r.Put("/{id}/coverage", h.handleUpdateCoverage)
	})
}

type createRequest struct {
	PolicyNumber   string    `json:"policy_number"`
	MemberID       string    `json:"member_id"`
	Type           Type      `json:"type"`
	Company        string    `json:"company"`
	CoverageAmount float64   `json:"coverage_amount"`
	Premium        float64   `json:"premium"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	i, err := h.service.Create(r.Context(), CreateParams{
		PolicyNumber:   req.PolicyNumber,
		MemberID:       req.MemberID,
		Type:           req.Type,
		Company:        req.Company,
		CoverageAmount: req.CoverageAmount,
		Premium:        req.Premium,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, i)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	out, err := h.service.List(r.Context(), ListParams{
		MemberID: q.Get("member_id"),
		Status:   Status(q.Get("status")),
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
	i, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, i)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch Patch
	if err := shared.DecodeJSON(r, &patch); err != nil {
		shared.WriteError(w, err)
		return
	}
	i, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), &patch)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, i)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleActivate(w http.ResponseWriter, r *http.Request) {
	i, err := h.service.Activate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, i)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	i, err := h.service.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, i)
}

func (h *Handler) handleExpire(w http.ResponseWriter, r *http.Request) {
	i, err := h.service.Expire(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, i)
}

type coverageRequest struct {
	CoverageAmount float64 `json:"coverage_amount"`
}

func (h *Handler) handleUpdateCoverage(w http.ResponseWriter, r *http.Request) {
	var req coverageRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	i, err := h.service.UpdateCoverage(r.Context(), chi.URLParam(r, "id"), req.CoverageAmount)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, i)
}
