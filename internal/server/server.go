// Package server exposes the streak service over a small JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/josephgoksu/streakwing/internal/clock"
	"github.com/josephgoksu/streakwing/internal/streak"
	"github.com/josephgoksu/streakwing/models"
)

// StreakService is the part of streak.Service the API uses.
type StreakService interface {
	Today() clock.CivilDate
	ListStreaks(ctx context.Context) ([]models.Streak, error)
	GetStreak(ctx context.Context, id string) (models.Streak, error)
	StartStreak(ctx context.Context, in streak.StartInput) (models.Streak, error)
	EditStreak(ctx context.Context, id string, in streak.EditInput) (models.Streak, error)
	DeleteStreak(ctx context.Context, id string) error
	RegisterToday(ctx context.Context) streak.RunResult
	ResetTodayFlags(ctx context.Context) (streak.ResetResult, error)
}

type Server struct {
	svc     StreakService
	router  *gin.Engine
	origins map[string]struct{}
	server  *http.Server
}

// New builds the router. allowedOrigins lists browser origins allowed by CORS.
func New(addr string, svc StreakService, allowedOrigins ...string) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	s := &Server{
		svc:     svc,
		router:  router,
		origins: make(map[string]struct{}, len(allowedOrigins)),
	}
	for _, o := range allowedOrigins {
		s.origins[o] = struct{}{}
	}
	router.Use(s.corsMiddleware())

	router.GET("/health", s.handleHealth)
	api := router.Group("/api")
	{
		api.GET("/streaks", s.handleListStreaks)
		api.POST("/streaks", s.handleStartStreak)
		api.GET("/streaks/:id", s.handleGetStreak)
		api.PATCH("/streaks/:id", s.handleEditStreak)
		api.DELETE("/streaks/:id", s.handleDeleteStreak)
		api.POST("/register", s.handleRegister)
		api.POST("/reset-today", s.handleResetToday)
	}

	s.server = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves in a goroutine. Errors other than a clean shutdown go to errChan.
func (s *Server) Start(wg *sync.WaitGroup, errChan chan<- error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.Info("http server listening", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
