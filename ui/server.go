// Package ui exposes the analysis pipeline over HTTP.
package ui

import (
	"github.com/gin-gonic/gin"

	"edanalyzer/app"
	"edanalyzer/internal/config"
	"edanalyzer/internal/logging"
)

// Server is the web server fronting the analysis pipeline
type Server struct {
	router   *gin.Engine
	pipeline *app.Pipeline
	cfg      config.ServerConfig
	log      *logging.Logger
}

// NewServer creates a server around a pipeline
func NewServer(cfg config.ServerConfig, pipeline *app.Pipeline) *Server {
	gin.SetMode(cfg.GinMode)
	s := &Server{
		router:   gin.New(),
		pipeline: pipeline,
		cfg:      cfg,
		log:      logging.New("Server"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(RequestID())
	s.router.Use(CORS())
	s.router.MaxMultipartMemory = s.cfg.MaxUploadBytes
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleHealth)
	s.router.POST("/api/analyze", s.handleAnalyze)
}

// Router exposes the gin engine, mainly for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the server on the configured port
func (s *Server) Run() error {
	addr := ":" + s.cfg.Port
	s.log.Infof("listening on %s", addr)
	return s.router.Run(addr)
}
