package api

import "github.com/chatflow-dev/scenariorunner/pkg/value"

// ExecuteRequest is the body of POST /v1/tenants/:id/scenarios/:name/execute.
type ExecuteRequest struct {
	Data value.Map `json:"data"`
}
