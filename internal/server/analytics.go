package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	"github.com/careertrail/careertrail/internal/period"
)

func (s *Server) LatestSnapshot(c *gin.Context) {
	memberID, ok := memberIDParam(c)
	if !ok {
		return
	}

	periodType, err := period.ParseType(c.DefaultQuery("period", string(period.TypeWeekly)))
	if err != nil {
		AbortWithError(c, newValidationError("period", "invalid_period_type", "unknown period type"))
		return
	}

	snapshot, err := s.analyticsSvc.LatestSnapshot(c.Request.Context(), memberID, periodType)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (s *Server) RunSnapshotBatch(c *gin.Context) {
	var req struct {
		TeamID     string `json:"team_id"`
		PeriodType string `json:"period_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	teamID, err := snowflake.ParseString(strings.TrimSpace(req.TeamID))
	if err != nil || teamID == 0 {
		AbortWithError(c, newValidationError("team_id", "invalid_team_id", "invalid team id"))
		return
	}
	periodType, err := period.ParseType(req.PeriodType)
	if err != nil {
		AbortWithError(c, newValidationError("period_type", "invalid_period_type", "unknown period type"))
		return
	}

	succeeded, err := s.worker.RunBatch(c.Request.Context(), teamID, periodType)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "succeeded": succeeded})
}

func memberIDParam(c *gin.Context) (snowflake.ID, bool) {
	memberID, err := snowflake.ParseString(strings.TrimSpace(c.Param("member_id")))
	if err != nil || memberID == 0 {
		AbortWithError(c, newValidationError("member_id", "invalid_member_id", "invalid member id"))
		return 0, false
	}
	return memberID, true
}
