package server

import (
	"strings"

	"github.com/gin-gonic/gin"

	obscontext "github.com/careertrail/careertrail/internal/observability/context"
)

const teamIDHeader = "X-Team-Id"

// scopeMiddleware carries the caller's team and the target member through the
// request context so log entries correlate across layers.
func scopeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if teamID := strings.TrimSpace(c.GetHeader(teamIDHeader)); teamID != "" {
			c.Set("team_id", teamID)
			ctx = obscontext.WithTeamID(ctx, teamID)
		}
		if memberID := strings.TrimSpace(c.Param("member_id")); memberID != "" {
			ctx = obscontext.WithMemberID(ctx, memberID)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
