package http

import (
	"context"
	stdhttp "net/http"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/geomic-server/internal/config"
	"github.com/vovakirdan/geomic-server/internal/core"
)

// SessionHub is the part of core.Hub the transport depends on.
type SessionHub interface {
	RegisterClient(c *core.Client)
	UnregisterClient(c *core.Client)
	Snapshot(ctx context.Context) (core.Snapshot, error)
}

// NewServer builds the HTTP server: health probe, session discovery and the
// websocket endpoint. clk drives per-connection rate-limit windows; nil means
// the wall clock.
func NewServer(hub SessionHub, cfg *config.Config, clk clock.Clock, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.AllowedOrigins))

	router.GET("/health", healthHandler)

	sessions := NewSessionHandlers(hub, logger)
	api := router.Group("/api")
	api.GET("/session", sessions.GetSession)

	router.GET("/ws", gin.WrapH(NewWSHandler(hub, cfg, clk, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
