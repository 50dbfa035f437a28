// Package server exposes the submission handler over HTTP. It adapts each
// gin request into the platform-style Event the handler consumes and writes
// the handler's Result back out.
package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/example/baggage-report-service/internal/config"
	"github.com/example/baggage-report-service/internal/handler"
	"github.com/example/baggage-report-service/internal/models"
)

// Server wraps a gin engine around the submission handler.
type Server struct {
	engine  *gin.Engine
	handler *handler.Handler
	logger  zerolog.Logger
	port    int
}

// New builds the HTTP surface: the submission route (with a root alias for
// platforms that post to /) and a health probe.
func New(cfg *config.Config, h *handler.Handler, logger zerolog.Logger) *Server {
	if !strings.EqualFold(cfg.App.Env, "development") && !strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	// Slightly above the per-attachment cap so oversize files reach the
	// handler and are dropped there rather than failing the whole parse.
	engine.MaxMultipartMemory = 12 << 20

	s := &Server{
		engine:  engine,
		handler: h,
		logger:  logger,
		port:    cfg.App.Port,
	}

	engine.POST("/", s.submit)
	engine.POST("/submit", s.submit)
	engine.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return s
}

// Engine exposes the underlying gin engine for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run blocks serving HTTP on the configured port.
func (s *Server) Run() error {
	s.logger.Info().Int("port", s.port).Msg("listening")
	return s.engine.Run(fmt.Sprintf(":%d", s.port))
}

func (s *Server) submit(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to read request body")
		body = nil
	}

	ev := models.Event{
		Method:          c.Request.Method,
		Headers:         flattenHeaders(c.Request.Header),
		Body:            string(body),
		IsBase64Encoded: false,
		RawURL:          c.Request.URL.String(),
		Path:            c.Request.URL.Path,
	}

	res := s.handler.Handle(c.Request.Context(), ev)

	contentType := "text/plain; charset=utf-8"
	for key, value := range res.Headers {
		if strings.EqualFold(key, "content-type") {
			contentType = value
			continue
		}
		c.Header(key, value)
	}
	c.Data(res.StatusCode, contentType, []byte(res.Body))
}

func flattenHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for key, values := range headers {
		if len(values) > 0 {
			out[key] = values[0]
		}
	}
	return out
}
