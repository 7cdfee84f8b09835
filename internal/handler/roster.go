package handler

import (
	"bytes"
	"errors"
	"net/http"

	"superheroes/internal/codec"
)

var contentTypes = map[string]string{
	"json": "application/json",
	"yaml": "application/yaml",
}

// ExportRoster writes the whole roster. ?format=json|yaml, default json.
func (h *RosterHandler) ExportRoster(w http.ResponseWriter, r *http.Request) {
	c, err := codec.ForFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.writeErrors(w, http.StatusBadRequest, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := h.svc.Export(r.Context(), c, &buf); err != nil {
		h.handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[c.Format()])
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// ImportRoster replaces every stored record with the posted roster document
func (h *RosterHandler) ImportRoster(w http.ResponseWriter, r *http.Request) {
	c, err := codec.ForFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.writeErrors(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.Import(r.Context(), c, r.Body)
	if err != nil {
		var pe *codec.ParseError
		if errors.As(err, &pe) {
			h.writeErrors(w, http.StatusBadRequest, pe.Error())
			return
		}
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, result, http.StatusOK)
}
