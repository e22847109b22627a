// Package executor implements components H, I, J, and K: the step
// executor, transition handler, cache merger, and scenario executor that
// together interpret one scenario's steps.
package executor

import (
	"context"

	"github.com/google/uuid"

	"github.com/chatflow-dev/scenariorunner/pkg/actionbus"
	"github.com/chatflow-dev/scenariorunner/pkg/placeholder"
	"github.com/chatflow-dev/scenariorunner/pkg/scenario"
	"github.com/chatflow-dev/scenariorunner/pkg/value"
)

// Executor runs scenarios against a Bus, resolving step parameters through
// a placeholder Processor.
type Executor struct {
	Bus       actionbus.Bus
	Templates *placeholder.Processor
}

// New returns an Executor wired to bus, using a default placeholder
// processor unless one is supplied by the caller.
func New(bus actionbus.Bus, templates *placeholder.Processor) *Executor {
	if templates == nil {
		templates = placeholder.New()
	}
	return &Executor{Bus: bus, Templates: templates}
}

// executeStep implements component H. It substitutes placeholders in the
// step's params against the current accumulated data, merges the result
// into the action's invocation data while restoring `system` verbatim
// (the injection guard — step params can never rewrite system fields),
// and dispatches the action synchronously or asynchronously.
func (e *Executor) executeStep(ctx context.Context, step scenario.Step, data value.Map) actionbus.Envelope {
	if step.ActionName == "" {
		return actionbus.Envelope{Result: "error", Error: &actionbus.EnvelopeError{
			Code: actionbus.ErrValidation, Message: "step has no action_name",
		}}
	}

	processedParams, _ := e.Templates.Process(step.Params, data).(value.Map)

	actionData, _ := value.DeepMerge(data, processedParams).(value.Map)
	if system, ok := data["system"]; ok {
		actionData["system"] = system
	}

	if step.IsAsync {
		return e.dispatchAsync(ctx, step, actionData)
	}
	return e.Bus.Execute(ctx, step.ActionName, actionData)
}

// dispatchAsync implements component H's async path. A step that omits
// action_id still gets one: generated with uuid.New() rather than left
// blank, so _async_action handles always have a stable addressable key.
func (e *Executor) dispatchAsync(ctx context.Context, step scenario.Step, actionData value.Map) actionbus.Envelope {
	actionID := step.ActionID
	if actionID == "" {
		actionID = uuid.NewString()
	}
	handle, err := e.Bus.ExecuteAsync(ctx, step.ActionName, actionData)
	if err != nil {
		return actionbus.Envelope{Result: "error", Error: &actionbus.EnvelopeError{
			Code: actionbus.ErrNotFound, Message: err.Error(),
		}}
	}
	return actionbus.Envelope{
		Result: "success",
		ResponseData: value.Map{
			"_async_action": value.Map{actionID: handle},
		},
	}
}
