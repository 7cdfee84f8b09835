package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RouterConfig holds the collaborators mounted by NewRouter
type RouterConfig struct {
	Roster     *RosterHandler
	Events     http.Handler
	Logger     *zap.Logger
	CORSOrigin string
}

// NewRouter builds the complete HTTP handler tree
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	origin := cfg.CORSOrigin
	if origin == "" {
		origin = "*"
	}

	r := chi.NewRouter()
	r.Use(
		RequestID(),
		Logger(logger.Named("access"), "/healthz"),
		Recover(logger),
		CORS(origin),
	)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}` + "\n"))
	})

	if cfg.Events != nil {
		r.Method(http.MethodGet, "/events", cfg.Events)
	}

	cfg.Roster.Routes(r)
	return r
}
