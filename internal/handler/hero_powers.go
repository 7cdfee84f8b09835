package handler

import (
	"net/http"

	"superheroes/internal/domain"
)

type createHeroPowerRequest struct {
	Strength string `json:"strength"`
	HeroID   int64  `json:"hero_id"`
	PowerID  int64  `json:"power_id"`
}

// ListHeroPowers returns every hero power with its hero and power
func (h *RosterHandler) ListHeroPowers(w http.ResponseWriter, r *http.Request) {
	edges, err := h.svc.ListHeroPowers(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	out := make([]domain.Dict, 0, len(edges))
	for _, hp := range edges {
		out = append(out, hp.ToDict())
	}
	h.writeJSON(w, out, http.StatusOK)
}

// GetHeroPower returns a single hero power
func (h *RosterHandler) GetHeroPower(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	hp, err := h.svc.GetHeroPower(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, hp.ToDict(), http.StatusOK)
}

// CreateHeroPower links a hero to a power
func (h *RosterHandler) CreateHeroPower(w http.ResponseWriter, r *http.Request) {
	var req createHeroPowerRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	hp, err := domain.NewHeroPower(req.Strength, req.HeroID, req.PowerID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	created, err := h.svc.CreateHeroPower(r.Context(), hp)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, created.ToDict(), http.StatusCreated)
}

// UpdateHeroPower applies a partial update
func (h *RosterHandler) UpdateHeroPower(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var updates map[string]any
	if !h.decodeBody(w, r, &updates) {
		return
	}

	hp, err := h.svc.UpdateHeroPower(r.Context(), id, updates)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, hp.ToDict(), http.StatusOK)
}

// DeleteHeroPower removes a single hero power
func (h *RosterHandler) DeleteHeroPower(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteHeroPower(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
