// internal/server/server.go
package server

import (
	goerrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	pipelineerrors "loan-evaluation/internal/common/errors"
	"loan-evaluation/internal/common/logger"
	"loan-evaluation/internal/common/observability"
	"loan-evaluation/internal/models"
	"loan-evaluation/internal/orchestrator"
)

// Server exposes the composite evaluation API. Both operations always answer
// HTTP 200 with a well-formed JSON body; failures travel in-band as
// structured status payloads.
type Server struct {
	orch   *orchestrator.Orchestrator
	obs    *observability.Observability
	logger logger.Logger
}

func New(orch *orchestrator.Orchestrator, obs *observability.Observability, log logger.Logger) *Server {
	return &Server{orch: orch, obs: obs, logger: log}
}

// Router builds the gin engine with all routes mounted.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.observe())

	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.POST("/loan-requests", s.handleSubmit)
	api.GET("/loan-requests/:id", s.handleGet)

	return router
}

type submitBody struct {
	Text string `json:"text"`
}

func (s *Server) handleSubmit(c *gin.Context) {
	var body submitBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusOK, models.ErrorResponse{Status: "error", Message: "invalid request body"})
		return
	}

	summary, err := s.orch.SubmitRequest(c.Request.Context(), body.Text)
	if err != nil {
		s.logger.WithError(err).Warn("submission failed")
		c.JSON(http.StatusOK, models.ErrorResponse{Status: "error", Message: reasonFor(err)})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleGet(c *gin.Context) {
	requestID := c.Param("id")

	record, err := s.orch.GetResult(c.Request.Context(), requestID)
	if err != nil {
		c.JSON(http.StatusOK, models.NotFoundResponse{Status: "error", Reason: reasonFor(err)})
		return
	}

	c.JSON(http.StatusOK, record)
}

// reasonFor extracts the human-readable message from a structured pipeline
// error, falling back to the raw error text.
func reasonFor(err error) string {
	var perr *pipelineerrors.PipelineError
	if goerrors.As(err, &perr) {
		return perr.Message
	}
	return err.Error()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// observe records per-request duration and status through OpenTelemetry.
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := "ok"
		if c.Writer.Status() >= http.StatusInternalServerError {
			status = "error"
		}
		if s.obs != nil {
			s.obs.RecordRequestProcessed(c.Request.Context(), status)
			s.obs.RecordRequestDuration(c.Request.Context(), time.Since(start), status)
		}
	}
}
