package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chatflow-dev/scenariorunner/pkg/value"
)

// executeScenarioHandler implements
// POST /v1/tenants/:id/scenarios/:name/execute: runs a named scenario
// directly, bypassing trigger matching.
func (s *Server) executeScenarioHandler(c *gin.Context) {
	tenantID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid tenant id", Code: "VALIDATION_ERROR"})
		return
	}
	name := c.Param("name")

	var req ExecuteRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "PARSE_ERROR"})
			return
		}
	}
	if req.Data == nil {
		req.Data = value.Map{}
	}

	result, responseData, err := s.engine.ExecuteByName(c.Request.Context(), tenantID, name, req.Data)
	if err != nil {
		status, body := mapEngineError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, ExecuteResponse{Result: result, ResponseData: responseData})
}
