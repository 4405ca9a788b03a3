// Package server exposes the state core to UI layers over HTTP plus a
// WebSocket state feed. It holds no state of its own; every handler is a
// thin translation onto a store action or query.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sattva/internal/logging"
	"sattva/internal/store"
)

// Config controls the HTTP server.
type Config struct {
	Addr       string
	Debug      bool
	EnableCORS bool
}

// Server hosts the REST API and the WebSocket state feed.
type Server struct {
	store      *store.Store
	engine     *gin.Engine
	httpServer *http.Server
	feed       *stateFeed
	logger     logging.Logger
}

// New wires routes onto a fresh gin engine.
func New(cfg Config, st *store.Store, logger logging.Logger) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())

	if cfg.EnableCORS {
		engine.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	s := &Server{
		store:  st,
		engine: engine,
		feed:   newStateFeed(st, logger),
		logger: logging.OrNop(logger),
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      engine,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.engine.GET("/ws/state", s.feed.handle)

	api := s.engine.Group("/api")
	{
		api.GET("/state", s.handleState)
		api.GET("/score", s.handleScore)
		api.GET("/recommendation", s.handleRecommendation)
		api.GET("/log", s.handleLog)
		api.GET("/mentors", s.handleMentors)

		api.POST("/activity", s.handleLogActivity)
		api.POST("/vector/analysis", s.handleVectorAnalysis)
		api.POST("/tool/:id/state", s.handleSetToolState)
		api.POST("/tool/:id/history", s.handleAppendToolHistory)
		api.POST("/session/start", s.handleStartSession)
		api.POST("/session/end", s.handleEndSession)
		api.POST("/session/switch", s.handleSwitchMentor)
		api.POST("/chat/message", s.handleChatMessage)

		api.POST("/navigator/open", s.handleNavigatorOpen)
		api.POST("/navigator/close", s.handleNavigatorClose)

		api.POST("/schedules", s.handleAddSchedule)
		api.DELETE("/schedules/:id", s.handleRemoveSchedule)
		api.POST("/schedules/:id/complete", s.handleCompleteSchedule)

		api.POST("/quest/refresh", s.handleRefreshQuest)
		api.POST("/quest/dismiss", s.handleDismissQuest)

		api.POST("/tour/start", s.handleTourStart)
		api.POST("/tour/next", s.handleTourNext)
		api.POST("/tour/previous", s.handleTourPrevious)
		api.POST("/tour/end", s.handleTourEnd)

		api.POST("/settings/listening", s.handleListeningMode)
		api.POST("/settings/font", s.handleFontSize)
		api.POST("/reset", s.handleReset)
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.feed.start()
	s.logger.Info("http server listening on %s", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains connections and stops the state feed.
func (s *Server) Shutdown(ctx context.Context) error {
	s.feed.stop()
	return s.httpServer.Shutdown(ctx)
}
