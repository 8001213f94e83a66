package club

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"aikifed/internal/transport/http/shared"
)

// Handler exposes the club REST surface.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the club routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/clubs", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
		r.Post("/{id}/activate", h.handleActivate)
		r.Post("/{id}/deactivate", h.handleDeactivate)
	})
}

type createRequest struct {
	Name             string `json:"name"`
	Address          string `json:"address"`
	City             string `json:"city"`
	Province         string `json:"province"`
	PostalCode       string `json:"postal_code"`
	Country          string `json:"country"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	FederationNumber string `json:"federation_number"`
	AssociationID    string `json:"association_id"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	c, err := h.service.Create(r.Context(), CreateParams{
		Name:             req.Name,
		Address:          req.Address,
		City:             req.City,
		Province:         req.Province,
		PostalCode:       req.PostalCode,
		Country:          req.Country,
		Phone:            req.Phone,
		Email:            req.Email,
		FederationNumber: req.FederationNumber,
		AssociationID:    req.AssociationID,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	out, err := h.service.List(r.Context(), r.URL.Query().Get("association_id"), limit)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch Patch
	if err := shared.DecodeJSON(r, &patch); err != nil {
		shared.WriteError(w, err)
		return
	}
	c, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), &patch)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleActivate(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Activate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Deactivate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, c)
}
