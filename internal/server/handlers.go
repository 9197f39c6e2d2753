package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/josephgoksu/streakwing/internal/streak"
	"github.com/josephgoksu/streakwing/internal/todoist"
	"github.com/josephgoksu/streakwing/internal/ui"
	"github.com/josephgoksu/streakwing/models"
	"github.com/josephgoksu/streakwing/types"
)

type startRequest struct {
	Content   string `json:"content" binding:"required"`
	ProjectID string `json:"projectId"`
	Priority  int    `json:"priority"`
}

type editRequest struct {
	Content    *string `json:"content"`
	ProjectID  *string `json:"projectId"`
	Priority   *int    `json:"priority"`
	CurrentDay *int    `json:"currentDay"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrInvalidStreak), errors.Is(err, types.ErrInvalidPriority):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrDuplicateID):
		return http.StatusConflict
	}
	if _, ok := todoist.KindOf(err); ok {
		return http.StatusBadGateway
	}
	if errors.Is(err, types.ErrNoCredential) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "today": s.svc.Today()})
}

func (s *Server) handleListStreaks(c *gin.Context) {
	streaks, err := s.svc.ListStreaks(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"today": s.svc.Today(), "streaks": streaks})
}

func (s *Server) handleGetStreak(c *gin.Context) {
	st, err := s.svc.GetStreak(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) handleStartStreak(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	st, err := s.svc.StartStreak(c.Request.Context(), streak.StartInput{
		Content:   req.Content,
		ProjectID: req.ProjectID,
		Priority:  models.Priority(req.Priority),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (s *Server) handleEditStreak(c *gin.Context) {
	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	in := streak.EditInput{Content: req.Content, ProjectID: req.ProjectID, CurrentDay: req.CurrentDay}
	if req.Priority != nil {
		p := models.Priority(*req.Priority)
		in.Priority = &p
	}
	st, err := s.svc.EditStreak(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) handleDeleteStreak(c *gin.Context) {
	if err := s.svc.DeleteStreak(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleRegister runs to completion even if the client goes away.
func (s *Server) handleRegister(c *gin.Context) {
	res := s.svc.RegisterToday(context.WithoutCancel(c.Request.Context()))
	status := http.StatusOK
	switch {
	case res.Busy:
		status = http.StatusAccepted
	case res.Err != nil:
		status = http.StatusInternalServerError
	}
	c.JSON(status, ui.NewRunReport(res))
}

func (s *Server) handleResetToday(c *gin.Context) {
	res, err := s.svc.ResetTodayFlags(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ui.NewResetReport(res))
}
