package api

import "github.com/chatflow-dev/scenariorunner/pkg/value"

// EventResponse is returned by POST /v1/tenants/:id/events.
type EventResponse struct {
	Handled bool `json:"handled"`
}

// ExecuteResponse is returned by POST /v1/tenants/:id/scenarios/:name/execute.
type ExecuteResponse struct {
	Result       string    `json:"result"`
	ResponseData value.Map `json:"response_data,omitempty"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is the body of any non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
