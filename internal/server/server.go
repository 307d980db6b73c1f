package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agenthands/catena/internal/core"
)

// Server exposes the engine's two operations over REST, plus health and
// stats endpoints. Engine and collector lifecycle belong to the caller.
type Server struct {
	engine    *core.Engine
	metrics   *core.Collector
	log       *zap.SugaredLogger
	authToken string
}

func New(engine *core.Engine, metrics *core.Collector, authToken string, logger *zap.SugaredLogger) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Server{
		engine:    engine,
		metrics:   metrics,
		log:       logger,
		authToken: authToken,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestID(), cors())

	r.GET("/healthz", s.Health)

	authed := r.Group("/", s.auth())
	authed.POST("/events", s.AddEvent)
	authed.POST("/query", s.Query)
	authed.GET("/stats", s.Stats)

	return r
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.New().String()
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.authToken == "" {
			c.Next()
			return
		}
		if c.GetHeader("Authorization") != "Bearer "+s.authToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

type AddEventRequest struct {
	Text string `json:"text"`
}

func (s *Server) AddEvent(c *gin.Context) {
	var req AddEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	id, err := s.engine.AddEvent(c.Request.Context(), req.Text)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.log.Errorw("failed to add event", "request_id", c.GetString("request_id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "id": id})
}

type QueryRequest struct {
	Query string `json:"query"`
}

func (s *Server) Query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	narrative, err := s.engine.Query(c.Request.Context(), req.Query)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.log.Errorw("failed to query", "request_id", c.GetString("request_id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query memory"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"narrative": narrative})
}

func (s *Server) Stats(c *gin.Context) {
	if s.metrics == nil {
		c.JSON(http.StatusOK, gin.H{"stats": gin.H{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": s.metrics.Snapshot()})
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
