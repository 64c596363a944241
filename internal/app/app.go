package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	stdhttp "net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/geomic-server/internal/config"
	"github.com/vovakirdan/geomic-server/internal/core"
	transporthttp "github.com/vovakirdan/geomic-server/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	clk := clock.New()
	hub := core.NewHub(core.Options{
		AdminGrace:        cfg.AdminGrace,
		ParticipantGrace:  cfg.ParticipantGrace,
		BroadcastInterval: cfg.BroadcastInterval,
		RequireApproval:   cfg.RequireApproval,
		Clock:             clk,
		Logger:            logger,
	})
	server := transporthttp.NewServer(hub, cfg, clk, logger)

	logger.Info().
		Dur("admin_grace", cfg.AdminGrace).
		Dur("participant_grace", cfg.ParticipantGrace).
		Dur("broadcast_interval", cfg.BroadcastInterval).
		Bool("require_approval", cfg.RequireApproval).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Msg("session policy")

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		log:             logger,
	}, nil
}

// Handler exposes the HTTP handler, mainly for tests.
func (a *App) Handler() stdhttp.Handler {
	return a.server.Handler
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go a.hub.Run(hubCtx)

	// Hijacked websocket connections ignore Shutdown; tie them to ctx instead.
	a.server.BaseContext = func(net.Listener) context.Context { return hubCtx }

	go func() {
		a.log.Info().Str("addr", a.server.Addr).Msg("http server listening")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}
