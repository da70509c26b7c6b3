// Package server exposes the fact-checking pipeline over HTTP. The
// transport layer is deliberately thin: request decoding, one pipeline
// call, response encoding.
package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/factguard/internal/analyze"
	"github.com/ppiankov/factguard/internal/model"
	"github.com/ppiankov/factguard/internal/search"
)

// Server wires the analysis service and search service behind a gin router.
type Server struct {
	analysis *analyze.AnalysisService
	searcher *search.Service
	engine   *gin.Engine
	addr     string
}

// New creates the HTTP server
func New(addr string, analysis *analyze.AnalysisService, searcher *search.Service) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		analysis: analysis,
		searcher: searcher,
		engine:   engine,
		addr:     addr,
	}

	engine.GET("/api/health", s.handleHealth)
	engine.POST("/api/check", s.handleCheck)

	return s
}

// Run starts serving and blocks until the listener fails or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleCheck runs the full pipeline: retrieve candidate sources for the
// text, then analyze the text against them. Input validation is the only
// path that can produce a non-200 response; every pipeline failure after it
// is a well-formed low-confidence result.
func (s *Server) handleCheck(c *gin.Context) {
	var req model.FactCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	sources := s.searcher.SearchAll(c.Request.Context(), req.Text)
	result := s.analysis.AnalyzeText(c.Request.Context(), req.Text, sources)

	c.JSON(http.StatusOK, result)
}
