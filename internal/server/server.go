// Package server wires the HTTP surface: metadata lookups, downloads, QR
// codes, batch lookups, and the auth-gated saved-video history.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vidgrab/vidgrab/internal/downloader"
	"github.com/vidgrab/vidgrab/internal/extractor"
	"github.com/vidgrab/vidgrab/internal/log"
	"github.com/vidgrab/vidgrab/internal/version"
)

// Server hosts the REST API.
type Server struct {
	engine     *gin.Engine
	extractor  *extractor.Service
	downloader *downloader.Orchestrator
	history    *HistoryDB
	auth       Authenticator
	log        *log.Logger
}

func New(ext *extractor.Service, dl *downloader.Orchestrator, history *HistoryDB, auth Authenticator) *Server {
	s := &Server{
		engine:     gin.New(),
		extractor:  ext,
		downloader: dl,
		history:    history,
		auth:       auth,
		log:        log.New("server"),
	}
	s.engine.Use(gin.Recovery(), s.requestLog)
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/", s.handleRoot)
	s.engine.GET("/health", s.handleHealth)

	api := s.engine.Group("/api")

	dl := api.Group("/download")
	dl.POST("/info", s.handleInfo)
	dl.POST("/video", s.handleVideo)
	dl.POST("/qr", s.handleQR)
	dl.POST("/batch", s.handleBatch)

	videos := api.Group("/videos", s.requireAccount)
	videos.GET("/history", s.handleHistory)
	videos.POST("/save", s.handleSave)
	videos.DELETE("/:videoId", s.handleDelete)

	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":  "Route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run blocks serving HTTP on addr.
func (s *Server) Run(addr string) error {
	s.log.Infof("listening on %s", addr)
	return s.engine.Run(addr)
}

func (s *Server) requestLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.log.Infof("%s %s -> %d (%s)",
		c.Request.Method,
		c.Request.URL.Path,
		c.Writer.Status(),
		time.Since(start).Round(time.Millisecond),
	)
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "vidgrab API is running",
		"status":    "ok",
		"version":   version.Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"endpoints": gin.H{
			"download": "/api/download (POST /info, POST /video, POST /qr, POST /batch)",
			"videos":   "/api/videos (GET /history, POST /save, DELETE /:videoId)",
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	historyState := "disconnected"
	if s.history != nil && s.history.Ping() == nil {
		historyState = "connected"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"history": historyState,
	})
}
