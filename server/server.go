// Package server exposes the monitoring pipeline over HTTP.
package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FrenchMajesty/pr-monitor/monitor"
)

// Server wires the pipeline and store into a gin router.
type Server struct {
	pipeline *monitor.Pipeline
	store    *monitor.Store
	log      *zap.Logger
}

// New creates the HTTP server wrapper.
func New(pipeline *monitor.Pipeline, store *monitor.Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{pipeline: pipeline, store: store, log: logger}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.health)
	r.POST("/check_article", s.checkArticle)
	r.POST("/check_url", s.checkURL)
	r.POST("/monitors", s.addMonitor)

	return r
}

type checkArticleRequest struct {
	Article string `json:"article" binding:"required"`
}

type checkURLRequest struct {
	URL string `json:"url" binding:"required"`
}

type addMonitorRequest struct {
	Label string `json:"label" binding:"required"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) checkArticle(c *gin.Context) {
	var req checkArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "no article provided"})
		return
	}

	verdicts, err := s.pipeline.Evaluate(c.Request.Context(), req.Article)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, verdicts)
}

func (s *Server) checkURL(c *gin.Context) {
	var req checkURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "no url provided"})
		return
	}

	verdicts, err := s.pipeline.EvaluateURL(c.Request.Context(), req.URL)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, verdicts)
}

func (s *Server) addMonitor(c *gin.Context) {
	var req addMonitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "no label provided"})
		return
	}

	m, err := s.store.Add(c.Request.Context(), req.Label)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": m.ID, "label": m.Label})
}

// renderError maps the error taxonomy to HTTP statuses. Callers always get a
// well-formed {error} object, never a raw trace.
func (s *Server) renderError(c *gin.Context, err error) {
	var (
		inputErr    *monitor.InputError
		fetchErr    *monitor.FetchError
		upstreamErr *monitor.UpstreamError
		formatErr   *monitor.FormatError
		writeErr    *monitor.StoreWriteError
	)

	switch {
	case errors.As(err, &inputErr):
		c.JSON(http.StatusBadRequest, errorResponse{Error: inputErr.Error()})
	case errors.As(err, &fetchErr):
		c.JSON(http.StatusBadGateway, errorResponse{Error: fetchErr.Error()})
	case errors.As(err, &upstreamErr):
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: upstreamErr.Error()})
	case errors.As(err, &formatErr):
		s.log.Error("classification output never validated", zap.Error(err))
		c.JSON(http.StatusBadGateway, errorResponse{Error: formatErr.Error()})
	case errors.As(err, &writeErr):
		s.log.Error("monitor index write failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: writeErr.Error()})
	default:
		s.log.Error("evaluation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
