package handler

import (
	"net/http"

	"superheroes/internal/domain"
)

type createPowerRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListPowers returns every power's columns
func (h *RosterHandler) ListPowers(w http.ResponseWriter, r *http.Request) {
	powers, err := h.svc.ListPowers(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	out := make([]domain.Dict, 0, len(powers))
	for _, p := range powers {
		out = append(out, p.ToDict(false))
	}
	h.writeJSON(w, out, http.StatusOK)
}

// GetPower returns a power. With ?include=hero_powers its hero powers are
// embedded, each with its hero.
func (h *RosterHandler) GetPower(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	power, err := h.svc.GetPower(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	include := r.URL.Query().Get("include") == "hero_powers"
	h.writeJSON(w, power.ToDict(include), http.StatusOK)
}

// CreatePower creates a power from {name, description}
func (h *RosterHandler) CreatePower(w http.ResponseWriter, r *http.Request) {
	var req createPowerRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	power, err := domain.NewPower(req.Name, req.Description)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if err := h.svc.CreatePower(r.Context(), power); err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, power.ToDict(false), http.StatusCreated)
}

// UpdatePower applies a partial update; a new description is re-validated
func (h *RosterHandler) UpdatePower(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var updates map[string]any
	if !h.decodeBody(w, r, &updates) {
		return
	}

	power, err := h.svc.UpdatePower(r.Context(), id, updates)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, power.ToDict(false), http.StatusOK)
}

// DeletePower removes a power and its hero powers
func (h *RosterHandler) DeletePower(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeletePower(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
