// Package api provides the HTTP facade over the engine facade: webhook-style
// event ingestion, direct scenario execution, and tenant reload, plus a
// health endpoint.
package api

import (
	"context"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chatflow-dev/scenariorunner/pkg/config"
	"github.com/chatflow-dev/scenariorunner/pkg/database"
	"github.com/chatflow-dev/scenariorunner/pkg/engine"
)

// Server is the HTTP API server.
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	cfg        *config.Config
	dbClient   *database.Client
	engine     *engine.Engine
}

// NewServer creates a new API server wired to eng.
func NewServer(cfg *config.Config, dbClient *database.Client, eng *engine.Engine) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(), securityHeaders())

	s := &Server{
		router:   router,
		cfg:      cfg,
		dbClient: dbClient,
		engine:   eng,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.healthHandler)

	v1 := s.router.Group("/v1/tenants/:id")
	v1.POST("/events", s.submitEventHandler)
	v1.POST("/scenarios/:name/execute", s.executeScenarioHandler)
	v1.POST("/reload", s.reloadTenantHandler)
}

// Start starts the HTTP server on addr (blocking).
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.HTTP.ReadTimeout,
		WriteTimeout: s.cfg.HTTP.WriteTimeout,
	}
	return s.httpServer.ListenAndServe()
}

// StartWithListener starts the HTTP server on a pre-created listener.
// The listener may be bound to an OS-assigned port.
func (s *Server) StartWithListener(ln net.Listener) error {
	s.httpServer = &http.Server{Handler: s.router}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the underlying gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
