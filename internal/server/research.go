package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) CompanyResearch(c *gin.Context) {
	memberID, ok := memberIDParam(c)
	if !ok {
		return
	}
	company := strings.TrimSpace(c.Query("company"))
	if company == "" {
		AbortWithError(c, newValidationError("company", "invalid_company", "company is required"))
		return
	}

	result, err := s.researchSvc.CompanyResearch(c.Request.Context(), memberID, company)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) Positioning(c *gin.Context) {
	memberID, ok := memberIDParam(c)
	if !ok {
		return
	}

	result, err := s.researchSvc.Positioning(c.Request.Context(), memberID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) RefreshPositioning(c *gin.Context) {
	memberID, ok := memberIDParam(c)
	if !ok {
		return
	}

	if err := s.researchSvc.RefreshPositioning(c.Request.Context(), memberID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "refresh_scheduled"})
}
