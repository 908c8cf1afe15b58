// Package httpapi is the advisory surface: a small HTTP server exposing
// read-only tick summaries and accepting strategy updates between ticks.
// It never participates in tick decisions.
package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aedjoel/discordia-go/internal/application/tick"
	"github.com/aedjoel/discordia-go/internal/domain/economy"
)

// StrategyStore is the mutable strategy handle the advisor reads and writes
type StrategyStore interface {
	Current() economy.Strategy
	Set(economy.Strategy) error
}

// HistorySource serves persisted summaries for the history endpoint
type HistorySource interface {
	Recent(ctx context.Context, limit int) ([]RecordedSummary, error)
}

// RecordedSummary is the wire shape of one persisted tick summary
type RecordedSummary struct {
	BatchID    string    `json:"batch_id"`
	Tick       int       `json:"tick"`
	Workers    int       `json:"workers"`
	Soldiers   int       `json:"soldiers"`
	Actions    int       `json:"actions"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Server hosts the advisory endpoints and doubles as a tick.SummarySink,
// caching the latest summary in memory
type Server struct {
	strategy StrategyStore
	history  HistorySource
	log      *zap.Logger

	mu     sync.RWMutex
	latest *tick.Summary

	httpServer *http.Server
}

// NewServer builds the advisor. history may be nil when persistence is
// disabled; the history endpoint then reports 404.
func NewServer(addr string, strategy StrategyStore, history HistorySource, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{strategy: strategy, history: history, log: log}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	{
		api.GET("/summary", s.getSummary)
		api.GET("/history", s.getHistory)
		api.GET("/strategy", s.getStrategy)
		api.PUT("/strategy", s.putStrategy)
	}

	s.httpServer = &http.Server{Addr: addr, Handler: router}
	return s
}

// Record implements tick.SummarySink
func (s *Server) Record(_ context.Context, summary *tick.Summary) error {
	s.mu.Lock()
	s.latest = summary
	s.mu.Unlock()
	return nil
}

// Start serves until the listener fails or Shutdown is called
func (s *Server) Start() error {
	s.log.Info("advisor listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) getSummary(c *gin.Context) {
	s.mu.RLock()
	latest := s.latest
	s.mu.RUnlock()

	if latest == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no tick completed yet"})
		return
	}
	c.JSON(http.StatusOK, latest)
}

func (s *Server) getHistory(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "history persistence disabled"})
		return
	}
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	rows, err := s.history.Recent(c.Request.Context(), limit)
	if err != nil {
		s.log.Warn("history query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summaries": rows})
}

func (s *Server) getStrategy(c *gin.Context) {
	c.JSON(http.StatusOK, s.strategy.Current())
}

// putStrategy applies a partial strategy update. Unset fields keep their
// current values; the merged result is validated before it replaces the
// live strategy.
func (s *Server) putStrategy(c *gin.Context) {
	var patch economy.StrategyPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	merged := patch.Apply(s.strategy.Current())
	if err := s.strategy.Set(merged); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	s.log.Info("strategy updated via advisor", zap.Any("strategy", merged))
	c.JSON(http.StatusOK, merged)
}
