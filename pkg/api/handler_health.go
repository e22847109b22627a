package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chatflow-dev/scenariorunner/pkg/version"
)

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Version: version.Full()})
}
