// Package httpserver is the bot's HTTP control surface: the Telegram
// webhook endpoint, a health check, and the Prometheus scrape endpoint,
// grounded on server/router/frontend/service.go's "Serve(ctx, *echo.Echo)"
// registration style.
package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/narvesen/supportbot/internal/botapi"
	"github.com/narvesen/supportbot/internal/ingress"
	"github.com/narvesen/supportbot/internal/metrics"
	"github.com/narvesen/supportbot/internal/profile"
)

// Server wires the webhook, health, and metrics routes onto one echo.Echo.
type Server struct {
	Profile *profile.Profile
	Metrics *metrics.Exporter
	Router  *ingress.Router
	echo    *echo.Echo
}

func New(prof *profile.Profile, exporter *metrics.Exporter, router *ingress.Router) *Server {
	return &Server{Profile: prof, Metrics: exporter, Router: router, echo: echo.New()}
}

// Serve registers every route. Kept as a method rather than constructor
// logic so it can be unit-tested against a bare echo.Echo.
func (s *Server) Serve(_ context.Context, e *echo.Echo) {
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	e.GET("/healthz", s.healthz)
	e.GET("/metrics", echo.WrapHandler(s.Metrics.Handler()))
	e.POST("/webhook/:token", s.webhook)
}

func (s *Server) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// webhook validates the path token against the configured bot token before
// handing the body to the ingress middleware's decode-and-dispatch handler
// (spec.md §6a: the webhook path itself is the shared secret).
func (s *Server) webhook(c echo.Context) error {
	if c.Param("token") != s.Profile.BotToken {
		return c.NoContent(http.StatusNotFound)
	}
	return botapi.EchoHandler(s.Router.Handle)(c)
}

// Start builds the echo instance, registers routes, and serves until ctx
// is cancelled, per the teacher's listen-then-shutdown-on-context idiom.
func (s *Server) Start(ctx context.Context) error {
	s.Serve(ctx, s.echo)

	addr := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			slog.Error("httpserver: graceful shutdown failed", "error", err)
			return err
		}
		return nil
	}
}
