package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"superheroes/internal/domain"
	"superheroes/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RosterHandler handles roster API requests
type RosterHandler struct {
	svc    *service.RosterService
	logger *zap.Logger
}

// NewRosterHandler creates a new roster handler
func NewRosterHandler(svc *service.RosterService, logger *zap.Logger) *RosterHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterHandler{svc: svc, logger: logger.Named("http")}
}

// Routes registers the roster endpoints on r
func (h *RosterHandler) Routes(r chi.Router) {
	r.Route("/heroes", func(r chi.Router) {
		r.Get("/", h.ListHeroes)
		r.Post("/", h.CreateHero)
		r.Get("/{id}", h.GetHero)
		r.Patch("/{id}", h.UpdateHero)
		r.Delete("/{id}", h.DeleteHero)
	})

	r.Route("/powers", func(r chi.Router) {
		r.Get("/", h.ListPowers)
		r.Post("/", h.CreatePower)
		r.Get("/{id}", h.GetPower)
		r.Patch("/{id}", h.UpdatePower)
		r.Delete("/{id}", h.DeletePower)
	})

	r.Route("/hero_powers", func(r chi.Router) {
		r.Get("/", h.ListHeroPowers)
		r.Post("/", h.CreateHeroPower)
		r.Get("/{id}", h.GetHeroPower)
		r.Patch("/{id}", h.UpdateHeroPower)
		r.Delete("/{id}", h.DeleteHeroPower)
	})

	r.Route("/roster", func(r chi.Router) {
		r.Get("/export", h.ExportRoster)
		r.Post("/import", h.ImportRoster)
	})
}

// ErrorResponse is returned for missing records and server failures
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorsResponse is returned for rejected input
type ErrorsResponse struct {
	Errors []string `json:"errors"`
}

var kindNames = map[string]string{
	"hero":       "Hero",
	"power":      "Power",
	"hero_power": "HeroPower",
}

// handleError writes the response for err using the domain error taxonomy
func (h *RosterHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var notFound *domain.NotFoundError
	switch {
	case errors.As(err, &notFound):
		name, ok := kindNames[notFound.Kind]
		if !ok {
			name = notFound.Kind
		}
		h.writeJSON(w, ErrorResponse{Error: name + " not found"}, http.StatusNotFound)
	case domain.IsValidation(err), domain.IsReferentialIntegrity(err):
		h.writeErrors(w, http.StatusBadRequest, rootMessage(err))
	default:
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", GetRequestID(r.Context())),
			zap.Error(err))
		h.writeJSON(w, ErrorResponse{Error: "internal server error"}, http.StatusInternalServerError)
	}
}

// rootMessage returns the message of the innermost domain error, dropping
// any wrapping context added on the way up
func rootMessage(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	var re *domain.ReferentialIntegrityError
	if errors.As(err, &re) {
		return re.Error()
	}
	return err.Error()
}

func (h *RosterHandler) writeJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn("failed to encode JSON", zap.Error(err))
	}
}

func (h *RosterHandler) writeErrors(w http.ResponseWriter, statusCode int, messages ...string) {
	h.writeJSON(w, ErrorsResponse{Errors: messages}, statusCode)
}

// pathID parses the {id} URL parameter. It writes the error response and
// returns false when the parameter is not a positive integer.
func (h *RosterHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.writeErrors(w, http.StatusBadRequest, fmt.Sprintf("Invalid id '%s'.", raw))
		return 0, false
	}
	return id, true
}

// decodeBody decodes a JSON request body into v, rejecting unknown fields.
// It writes the error response and returns false on failure.
func (h *RosterHandler) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		h.writeErrors(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}
