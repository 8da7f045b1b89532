// Package server serves the emissions chart page and the generated JSON document.
package server

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/ZazaRy/co2report/frontend"
	"github.com/ZazaRy/co2report/internal/config"
)

const (
	dataRoute = "/api/data"
	pageTitle = "CO2排出量の推移（部門別）"
)

// Server is the HTTP front of the emissions document. It holds no state
// besides its configuration; the data file is read on every request.
type Server struct {
	echo *echo.Echo
	cfg  config.ServerConfig
}

// New builds the echo instance and registers the routes.
func New(cfg config.ServerConfig, logger zerolog.Logger) (*Server, error) {
	renderer, err := newTemplates(frontend.FS)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer

	e.Use(requestLogger(logger))
	e.Use(middleware.Recover())

	s := &Server{echo: e, cfg: cfg}

	e.GET("/", s.handleIndex)
	e.GET(dataRoute, s.handleData)
	e.StaticFS("/static", echo.MustSubFS(frontend.FS, "static"))

	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		errc <- s.echo.Start(s.cfg.Addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", indexPage{Title: pageTitle, DataURL: dataRoute})
}

func (s *Server) handleData(c echo.Context) error {
	b, err := os.ReadFile(s.cfg.DataPath)
	if errors.Is(err, fs.ErrNotExist) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Data file not found"})
	}
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, b)
}

func requestLogger(logger zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := logger.Info()
			if v.Error != nil {
				ev = logger.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
