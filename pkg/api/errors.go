package api

import (
	"errors"
	"net/http"

	"github.com/chatflow-dev/scenariorunner/pkg/executor"
	"github.com/chatflow-dev/scenariorunner/pkg/finder"
)

// mapEngineError translates an error returned by the engine facade into an
// HTTP status code and response body.
func mapEngineError(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, finder.ErrMissingTenantID):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "VALIDATION_ERROR"}
	case errors.Is(err, executor.ErrScenarioNotFound):
		return http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "NOT_FOUND"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: "INTERNAL_ERROR"}
	}
}
