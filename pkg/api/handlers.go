package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/khryptorgraphics/cpuschedsim/pkg/cache"
	"github.com/khryptorgraphics/cpuschedsim/pkg/runner"
	"github.com/khryptorgraphics/cpuschedsim/pkg/types"
)

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

type tokenRequest struct {
	ClientID string `json:"client_id" binding:"required"`
}

func (s *Server) issueTokenHandler(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := s.jwtSvc.GenerateToken(req.ClientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

type runResponse struct {
	RunID          string      `json:"run_id"`
	Trace          types.Trace `json:"trace"`
	Info           types.Info  `json:"info"`
	CacheHit       bool        `json:"cache_hit"`
}

// createRunHandler accepts a TaskInfo, runs it on the worker pool
// (memoized by input digest), and persists the outcome to run history.
func (s *Server) createRunHandler(c *gin.Context) {
	var input types.TaskInfo
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	runID := uuid.New().String()

	var digest string
	if s.cache != nil {
		var err error
		digest, err = cache.Digest(input)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to digest input"})
			return
		}
		if cached, hit, err := s.cache.Get(ctx, digest); err == nil && hit {
			c.JSON(http.StatusOK, runResponse{RunID: runID, Trace: cached.Trace, Info: cached.Info, CacheHit: true})
			return
		}
	}

	resultCh, err := s.pool.Submit(ctx, runID, input)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	res, err := runner.Await(ctx, resultCh)
	if err != nil {
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
		return
	}
	if res.Err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": res.Err.Error()})
		return
	}

	if s.cache != nil && digest != "" {
		if err := s.cache.Put(ctx, digest, res.Trace, res.Info); err != nil {
			s.logger.Warn("failed to cache run result", "error", err)
		}
	}

	if s.store != nil {
		if _, err := s.store.Record(ctx, string(input.SchedulingAlgo), digest, res.Trace, res.Info); err != nil {
			s.logger.Warn("failed to record run history", "error", err)
		}
	}

	c.JSON(http.StatusOK, runResponse{RunID: runID, Trace: res.Trace, Info: res.Info})
}

func (s *Server) getRunHandler(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run history is not configured"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}
	run, err := s.store.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, run)
}

func (s *Server) listRunsHandler(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run history is not configured"})
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	runs, err := s.store.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, runs)
}
