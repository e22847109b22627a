// Package actionbus implements the Action bus external collaborator of
// spec §6: a name-addressable dispatcher for step actions, supporting both
// synchronous dispatch and fire-and-forget dispatch with a single-shot
// awaitable handle.
package actionbus

import (
	"context"
	"sync"

	"github.com/chatflow-dev/scenariorunner/pkg/value"
)

// ErrorCode is the error taxonomy of spec §7.
type ErrorCode string

const (
	ErrValidation       ErrorCode = "VALIDATION_ERROR"
	ErrNotFound         ErrorCode = "NOT_FOUND"
	ErrAPI              ErrorCode = "API_ERROR"
	ErrTimeout          ErrorCode = "TIMEOUT"
	ErrParse            ErrorCode = "PARSE_ERROR"
	ErrInvalidState     ErrorCode = "INVALID_STATE"
	ErrPermissionDenied ErrorCode = "PERMISSION_DENIED"
	ErrInternal         ErrorCode = "INTERNAL_ERROR"
)

// EnvelopeError is the {code, message} pair an action returns on failure.
type EnvelopeError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// Envelope is the uniform result shape every action returns, per spec §6.
type Envelope struct {
	Result       string        `json:"result"` // "success" | "error" | "not_found" | "timeout" | <custom>
	ResponseData value.Map     `json:"response_data,omitempty"`
	Error        *EnvelopeError `json:"error,omitempty"`
}

// ActionConfig describes an action's declared output schema, used by the
// cache merger (§4.J) to honour `_response_key` renames. OutputFields maps
// each response_data key the action may produce to whether `_response_key`
// is allowed to rename it.
type ActionConfig struct {
	OutputFields map[string]bool // field name -> replaceable
}

// Action is the function signature a registered action implements.
type Action func(ctx context.Context, data value.Map) Envelope

// Bus is the action-bus port the step executor dispatches through.
type Bus interface {
	Execute(ctx context.Context, name string, data value.Map) Envelope
	ExecuteAsync(ctx context.Context, name string, data value.Map) (Handle, error)
	GetActionConfig(name string) (ActionConfig, bool)
}

// Handle is a single-shot awaitable action result (spec I4): once Ready(),
// it is never replaced. It satisfies pkg/placeholder's Awaitable interface
// so the `ready`/`not_ready` modifiers can inspect it directly when it
// ends up stored in an event's `_async_action` map.
type Handle interface {
	Ready() bool
	Wait(ctx context.Context) (Envelope, error)
}

// Registry is an in-process Bus implementation: actions run in a
// goroutine-per-dispatch model, with async dispatch producing a
// channel-backed Handle — the systems-language rendering of the
// cooperative-coroutine awaitable described in spec §9.
type Registry struct {
	mu      sync.RWMutex
	actions map[string]Action
	configs map[string]ActionConfig
}

// NewRegistry returns an empty action registry.
func NewRegistry() *Registry {
	return &Registry{
		actions: make(map[string]Action),
		configs: make(map[string]ActionConfig),
	}
}

// Register adds or replaces the action registered under name.
func (r *Registry) Register(name string, fn Action, cfg ActionConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[name] = fn
	r.configs[name] = cfg
}

// Execute dispatches name synchronously. An unregistered name yields a
// NOT_FOUND envelope rather than a Go error — the caller is executing a
// scenario, not probing the registry, and a missing action is exactly the
// kind of condition the error taxonomy's envelope shape is meant to carry.
func (r *Registry) Execute(ctx context.Context, name string, data value.Map) Envelope {
	r.mu.RLock()
	fn, ok := r.actions[name]
	r.mu.RUnlock()
	if !ok {
		return Envelope{Result: "not_found", Error: &EnvelopeError{
			Code: ErrNotFound, Message: "action not registered: " + name,
		}}
	}
	return fn(ctx, data)
}

// ExecuteAsync dispatches name in a new goroutine and returns immediately
// with a Handle that becomes ready once the action completes.
func (r *Registry) ExecuteAsync(ctx context.Context, name string, data value.Map) (Handle, error) {
	r.mu.RLock()
	fn, ok := r.actions[name]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrActionNotFound(name)
	}

	h := &handle{done: make(chan struct{})}
	go func() {
		defer close(h.done)
		h.result = fn(ctx, data)
	}()
	return h, nil
}

// GetActionConfig returns the declared output schema for name, if any.
func (r *Registry) GetActionConfig(name string) (ActionConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.configs[name]
	return cfg, ok
}

type handle struct {
	done   chan struct{}
	result Envelope
}

func (h *handle) Ready() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

func (h *handle) Wait(ctx context.Context) (Envelope, error) {
	select {
	case <-h.done:
		return h.result, nil
	case <-ctx.Done():
		return Envelope{Result: "timeout", Error: &EnvelopeError{
			Code: ErrTimeout, Message: "wait_for_action: deadline exceeded",
		}}, ctx.Err()
	}
}
