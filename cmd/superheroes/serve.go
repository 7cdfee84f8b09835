package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"superheroes/internal/codec"
	"superheroes/internal/handler"
	"superheroes/internal/hub"
	"superheroes/internal/service"
	"superheroes/internal/watcher"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCommand(a *app) *cobra.Command {
	var (
		addr   string
		roster string
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			if watch && roster == "" {
				return errors.New("--watch requires --roster")
			}
			return a.serve(cmd.Context(), roster, watch)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides server.addr)")
	cmd.Flags().StringVar(&roster, "roster", "", "roster document to load on startup, replacing the store contents")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the --roster document whenever it changes")
	return cmd
}

func (a *app) serve(parent context.Context, rosterPath string, watch bool) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	eventBus := service.NewEventBus()

	sseHub := hub.New(a.logger)
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go sseHub.Run(hubCtx)

	// Connect event bus to SSE hub
	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	go func() {
		for {
			select {
			case event := <-eventChan:
				sseHub.Broadcast(event)
			case <-hubCtx.Done():
				return
			}
		}
	}()

	svc := service.NewRosterService(repo, eventBus, a.logger)

	if rosterPath != "" {
		if err := loadRoster(ctx, svc, rosterPath); err != nil {
			return err
		}
		if watch {
			w := watcher.New(rosterPath, func() {
				if err := loadRoster(ctx, svc, rosterPath); err != nil {
					a.logger.Warn("roster reload failed", zap.String("path", rosterPath), zap.Error(err))
				}
			}, a.logger)
			go func() {
				if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
					a.logger.Error("roster watcher stopped", zap.Error(err))
				}
			}()
		}
	}

	router := handler.NewRouter(handler.RouterConfig{
		Roster:     handler.NewRosterHandler(svc, a.logger),
		Events:     sseHub,
		Logger:     a.logger,
		CORSOrigin: a.cfg.Server.CORSOrigin,
	})

	server := &http.Server{
		Addr:         a.cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server")

	// SSE streams never finish on their own; close them before draining
	stopHub()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("server shutdown error", zap.Error(err))
	}

	a.logger.Info("server stopped")
	return nil
}

// loadRoster replaces the store contents with the document at path
func loadRoster(ctx context.Context, svc *service.RosterService, path string) error {
	c, err := codec.ForFormat(formatFor(path, ""))
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = svc.Import(ctx, c, f)
	return err
}
