package handler

import (
	"net/http"

	"superheroes/internal/domain"
)

type createHeroRequest struct {
	Name      string `json:"name"`
	SuperName string `json:"super_name"`
}

// ListHeroes returns every hero's columns
func (h *RosterHandler) ListHeroes(w http.ResponseWriter, r *http.Request) {
	heroes, err := h.svc.ListHeroes(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	out := make([]domain.Dict, 0, len(heroes))
	for _, hero := range heroes {
		out = append(out, hero.ToDict())
	}
	h.writeJSON(w, out, http.StatusOK)
}

// GetHero returns a hero with its hero powers and their powers
func (h *RosterHandler) GetHero(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	hero, err := h.svc.GetHero(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, hero.ToDict(), http.StatusOK)
}

// CreateHero creates a hero from {name, super_name}
func (h *RosterHandler) CreateHero(w http.ResponseWriter, r *http.Request) {
	var req createHeroRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	hero := domain.NewHero(req.Name, req.SuperName)
	if err := h.svc.CreateHero(r.Context(), hero); err != nil {
		h.handleError(w, r, err)
		return
	}
	hero.HeroPowers = []*domain.HeroPower{}
	h.writeJSON(w, hero.ToDict(), http.StatusCreated)
}

// UpdateHero applies a partial update
func (h *RosterHandler) UpdateHero(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var updates map[string]any
	if !h.decodeBody(w, r, &updates) {
		return
	}

	hero, err := h.svc.UpdateHero(r.Context(), id, updates)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, hero.ToDict(), http.StatusOK)
}

// DeleteHero removes a hero and its hero powers
func (h *RosterHandler) DeleteHero(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteHero(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
