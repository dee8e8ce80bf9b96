package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/deionjtulcidas/ServerlessContactForm/internal/config"
	"github.com/deionjtulcidas/ServerlessContactForm/internal/request"
	"github.com/deionjtulcidas/ServerlessContactForm/internal/response"
	"github.com/deionjtulcidas/ServerlessContactForm/internal/storage"
)

// maxBody caps request bodies on the local server.
const maxBody = "1M"

// RequestHandler is the contact endpoint the server fronts.
type RequestHandler interface {
	Handle(ctx context.Context, req request.Request) response.Response
}

// Server runs the contact handler behind echo for local development.
type Server struct {
	Echo   *echo.Echo
	Config *config.Config
	logger zerolog.Logger
}

// New builds the Echo server and registers routes. In local and development
// environments archived submissions can be read back under /archive/:key.
func New(cfg *config.Config, h RequestHandler, archive *storage.ArchiveClient, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover(), requestLogger(logger), middleware.BodyLimit(maxBody))

	if cfg.Observability.IsLocal() {
		e.GET("/archive/:key", archiveHandler(archive))
	}

	// Every other path and method goes to the contact handler, as behind API Gateway.
	e.Any("/*", func(c echo.Context) error {
		req, err := request.FromHTTP(c.Request())
		if err != nil {
			return response.BadRequest("Invalid or missing JSON body").Write(c)
		}
		return h.Handle(c.Request().Context(), req).Write(c)
	})

	return &Server{Echo: e, Config: cfg, logger: logger}
}

// archiveHandler serves archived submissions, which hold personal data.
func archiveHandler(archive *storage.ArchiveClient) echo.HandlerFunc {
	return func(c echo.Context) error {
		if archive == nil {
			return response.Error(http.StatusNotFound, "archive not configured", "").Write(c)
		}
		data, err := archive.GetObject(c.Request().Context(), c.Param("key"))
		if err != nil {
			return response.InternalError("get archived submission failed", err.Error()).Write(c)
		}
		return c.Blob(http.StatusOK, storage.ContentTypeJSON, data)
	}
}

func requestLogger(logger zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}

// Start starts the HTTP server. Blocks until the context is cancelled or the server fails.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = s.Shutdown(context.Background())
	}()
	addr := ":" + s.Config.Port
	s.logger.Info().Str("addr", addr).Msg("listening")
	if err := s.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}
