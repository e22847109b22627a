package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// reloadTenantHandler implements POST /v1/tenants/:id/reload: rebuilds the
// tenant's snapshot from the repository and swaps it into the cache.
// System tenants (id <= Defaults.MaxSystemTenantID) reject this write
// path the same way config-sync does (SPEC supplemented feature 1).
func (s *Server) reloadTenantHandler(c *gin.Context) {
	tenantID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid tenant id", Code: "VALIDATION_ERROR"})
		return
	}

	if s.cfg != nil && tenantID <= s.cfg.Defaults.MaxSystemTenantID {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error: "reload is not permitted for a system tenant",
			Code:  "PERMISSION_DENIED",
		})
		return
	}

	if err := s.engine.ReloadTenant(c.Request.Context(), tenantID); err != nil {
		status, body := mapEngineError(err)
		c.JSON(status, body)
		return
	}

	c.Status(http.StatusNoContent)
}
