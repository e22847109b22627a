package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chatflow-dev/scenariorunner/pkg/value"
)

// submitEventHandler implements POST /v1/tenants/:id/events: the path's
// tenant id is injected into the event body under system.tenant_id before
// dispatch, since finder.ExtractTenantID reads only the event payload.
func (s *Server) submitEventHandler(c *gin.Context) {
	tenantID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid tenant id", Code: "VALIDATION_ERROR"})
		return
	}

	var event value.Map
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "PARSE_ERROR"})
		return
	}
	if event == nil {
		event = value.Map{}
	}

	system, _ := event["system"].(value.Map)
	if system == nil {
		system = value.Map{}
	}
	system["tenant_id"] = tenantID
	event["system"] = system

	handled, err := s.engine.ProcessEvent(c.Request.Context(), event)
	if err != nil {
		status, body := mapEngineError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, EventResponse{Handled: handled})
}
