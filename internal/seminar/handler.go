package seminar

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"aikifed/internal/transport/http/shared"
)

// Handler exposes the seminar REST surface.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the seminar routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/seminars", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/upcoming", h.handleUpcoming)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
		r.Post("/{id}/start", h.handleStart)
		r.Post("/{id}/complete", h.handleComplete)
		r.Post("/{id}/cancel", h.handleCancel)
		r.Post("/{id}/participants", h.handleAddParticipant)
		r.Delete("/{id}/participants", h.handleRemoveParticipant)
	})
}

type createRequest struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Instructor      string    `json:"instructor"`
	Location        string    `json:"location"`
	Address         string    `json:"address"`
	City            string    `json:"city"`
	Province        string    `json:"province"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	Price           float64   `json:"price"`
	MaxParticipants *int      `json:"max_participants"`
	OrganizerClubID string    `json:"organizer_club_id"`
	AssociationID   string    `json:"association_id"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	sem, err := h.service.Create(r.Context(), CreateParams{
		Title:           req.Title,
		Description:     req.Description,
		Instructor:      req.Instructor,
		Location:        req.Location,
		Address:         req.Address,
		City:            req.City,
		Province:        req.Province,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Price:           req.Price,
		MaxParticipants: req.MaxParticipants,
		OrganizerClubID: req.OrganizerClubID,
		AssociationID:   req.AssociationID,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, sem)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	out, err := h.service.List(r.Context(), ListParams{
		OrganizerClubID: q.Get("organizer_club_id"),
		Status:          Status(q.Get("status")),
		Limit:           limit,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	out, err := h.service.ListUpcoming(r.Context(), limit)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	sem, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, sem)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch Patch
	if err := shared.DecodeJSON(r, &patch); err != nil {
		shared.WriteError(w, err)
		return
	}
	sem, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), &patch)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, sem)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	sem, err := h.service.Start(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, sem)
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	sem, err := h.service.Complete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, sem)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	sem, err := h.service.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, sem)
}

func (h *Handler) handleAddParticipant(w http.ResponseWriter, r *http.Request) {
	sem, err := h.service.AddParticipant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, sem)
}

func (h *Handler) handleRemoveParticipant(w http.ResponseWriter, r *http.Request) {
	sem, err := h.service.RemoveParticipant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, sem)
}
