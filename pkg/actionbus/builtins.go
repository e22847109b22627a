package actionbus

import (
	"context"
	"time"

	"github.com/chatflow-dev/scenariorunner/pkg/value"
)

// ScenarioRunner is the narrow callback the execute_scenario built-in
// action needs from the engine facade. Declared here instead of importing
// pkg/engine to avoid a package cycle (engine -> executor -> actionbus).
type ScenarioRunner func(ctx context.Context, tenantID int64, scenarioName string, data value.Map) (result string, cache value.Map)

// RegisterBuiltins wires the small set of built-in actions used for local
// development and testing: reply (returns its text param as response
// data under "text"), execute_scenario (recurses into the engine via runner, the
// vehicle for response_data.scenario_result propagation per spec §4.I),
// wait_for_action (blocks on an _async_action handle), and delay (an
// async action that exercises the awaitable-handle path end to end).
func RegisterBuiltins(reg *Registry, runner ScenarioRunner) {
	reg.Register("reply", func(_ context.Context, data value.Map) Envelope {
		return Envelope{Result: "success", ResponseData: value.Map{"text": data["text"]}}
	}, ActionConfig{OutputFields: map[string]bool{"text": true}})

	reg.Register("execute_scenario", func(ctx context.Context, data value.Map) Envelope {
		name, _ := data["scenario_name"].(string)
		if name == "" {
			return Envelope{Result: "error", Error: &EnvelopeError{
				Code: ErrValidation, Message: "execute_scenario requires scenario_name",
			}}
		}
		tenantID, _ := value.AsFloat(data["tenant_id"])
		result, cache := runner(ctx, int64(tenantID), name, data)
		return Envelope{
			Result: "success",
			ResponseData: value.Map{
				"scenario_result": result,
				"cache":           cache,
			},
		}
	}, ActionConfig{})

	reg.Register("wait_for_action", func(ctx context.Context, data value.Map) Envelope {
		actionID, _ := data["action_id"].(string)
		asyncMap, _ := data["_async_action"].(value.Map)
		h, ok := asyncMap[actionID].(Handle)
		if !ok {
			return Envelope{Result: "error", Error: &EnvelopeError{
				Code: ErrNotFound, Message: "no async action registered under " + actionID,
			}}
		}
		waitCtx := ctx
		if timeoutSeconds, ok := value.AsFloat(data["timeout_seconds"]); ok && timeoutSeconds > 0 {
			var cancel context.CancelFunc
			waitCtx, cancel = context.WithTimeout(ctx, time.Duration(timeoutSeconds)*time.Second)
			defer cancel()
		}
		envelope, err := h.Wait(waitCtx)
		if err != nil {
			return Envelope{Result: "timeout", Error: &EnvelopeError{
				Code: ErrTimeout, Message: err.Error(),
			}}
		}
		return envelope
	}, ActionConfig{})

	reg.Register("delay", func(ctx context.Context, data value.Map) Envelope {
		seconds, _ := value.AsFloat(data["seconds"])
		select {
		case <-time.After(time.Duration(seconds) * time.Second):
		case <-ctx.Done():
			return Envelope{Result: "timeout"}
		}
		return Envelope{Result: "success", ResponseData: value.Map{"delayed_seconds": seconds}}
	}, ActionConfig{})
}
