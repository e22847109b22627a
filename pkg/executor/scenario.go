package executor

import (
	"context"
	"errors"
	"log/slog"

	"github.com/chatflow-dev/scenariorunner/pkg/scenario"
	"github.com/chatflow-dev/scenariorunner/pkg/snapshot"
	"github.com/chatflow-dev/scenariorunner/pkg/value"
)

// ErrScenarioNotFound is returned when a jump_to_scenario transition or an
// ExecuteByName call names a scenario absent from the tenant's snapshot.
var ErrScenarioNotFound = errors.New("executor: scenario not found")

// Terminal scenario results, mirrored in the response_data.scenario_result
// field a nested execute_scenario call exposes to its caller.
const (
	ResultSuccess = "success"
	ResultStop    = "stop"
	ResultAbort   = "abort"
	ResultBreak   = "break"
	ResultError   = "error"
)

// ExecuteScenario implements component K: the step-by-step interpreter
// loop for one scenario. It runs an explicit index-based loop rather than
// ranging over the step slice because move_steps and jump_to_step can move
// that index backward, forward, or out past the end of the slice.
func (e *Executor) ExecuteScenario(ctx context.Context, tenantID int64, sc *scenario.Scenario, data value.Map, snap *snapshot.Snapshot, chain []int64) (string, value.Map) {
	if data == nil {
		data = value.Map{}
	}
	chain = append(chain, sc.ID)

	index := 0
	for index < len(sc.Steps) {
		step := sc.Steps[index]

		envelope := e.executeStep(ctx, step, data)
		cfg, _ := e.Bus.GetActionConfig(step.ActionName)

		// A nested execute_scenario call may have surfaced a terminal
		// result through response_data.scenario_result, read before the
		// merge below folds response_data away into data._cache. That
		// result takes precedence over this step's own transitions: the
		// nested scenario's stop/abort/break must propagate before this
		// scenario evaluates what to do with the execute_scenario step
		// itself.
		scenarioResult, _ := envelope.ResponseData["scenario_result"].(string)

		data = mergeStepResult(data, step, envelope, cfg)

		data["last_result"] = envelope.Result
		if envelope.Error != nil {
			data["last_error"] = envelope.Error.Message
		}

		switch scenarioResult {
		case ResultStop, ResultAbort, ResultBreak:
			return scenarioResult, cacheOf(data)
		}

		t, found := processTransitions(envelope.Result, step.Transitions)
		if !found {
			index++
			continue
		}

		ctrl := resolveControl(t, index, sc.Steps)
		switch ctrl.action {
		case "continue":
			index++
		case ResultStop, ResultAbort, ResultBreak:
			return ctrl.action, cacheOf(data)
		case "jump_index":
			if ctrl.nextIndex < 0 || ctrl.nextIndex >= len(sc.Steps) {
				slog.Warn("jump target out of range, ending scenario",
					"scenario_id", sc.ID, "target_index", ctrl.nextIndex)
				return ResultSuccess, cacheOf(data)
			}
			index = ctrl.nextIndex
		case "jump_scenario":
			jumpResult, jumpErr := e.runJumpScenarios(ctx, tenantID, ctrl.scenarioNames, data, snap, chain)
			if jumpErr != nil {
				return ResultError, cacheOf(data)
			}
			switch jumpResult {
			case ResultStop, ResultAbort:
				return jumpResult, cacheOf(data)
			default:
				index++
			}
		default:
			index++
		}
	}
	return ResultSuccess, cacheOf(data)
}

// cacheOf returns the accumulated _cache map a scenario run exposes to its
// caller, defaulting to an empty map when no step ever populated it.
func cacheOf(data value.Map) value.Map {
	cache, ok := data["_cache"].(value.Map)
	if !ok || cache == nil {
		return value.Map{}
	}
	return cache
}

// runJumpScenarios implements jump_to_scenario for both its single-name and
// list-of-names forms: each named scenario runs in turn against the same
// accumulating data, with a stop/abort result from any of them
// short-circuiting the remaining names.
func (e *Executor) runJumpScenarios(ctx context.Context, tenantID int64, names []string, data value.Map, snap *snapshot.Snapshot, chain []int64) (string, error) {
	result := ResultSuccess
	for _, name := range names {
		nextID, ok := snap.ScenarioNameIndex[name]
		if !ok {
			slog.Warn("jump_to_scenario target not found", "scenario_name", name)
			return ResultError, ErrScenarioNotFound
		}
		if containsID(chain, nextID) {
			slog.Warn("jump_to_scenario would re-enter a scenario already in this chain, aborting",
				"scenario_name", name, "chain", chain)
			return ResultError, ErrScenarioNotFound
		}
		next := snap.ScenarioIndex[nextID]
		var cache value.Map
		result, cache = e.ExecuteScenario(ctx, tenantID, next, data, snap, chain)
		data["_cache"] = cache
		switch result {
		case ResultStop, ResultAbort:
			return result, nil
		}
	}
	return result, nil
}

// ExecuteByName resolves a scenario by name within a tenant's snapshot and
// runs it. It is the entry point nested execute_scenario actions and the
// scheduler both call through.
func (e *Executor) ExecuteByName(ctx context.Context, tenantID int64, name string, data value.Map, snap *snapshot.Snapshot) (string, value.Map, error) {
	id, ok := snap.ScenarioNameIndex[name]
	if !ok {
		return ResultError, data, ErrScenarioNotFound
	}
	sc, ok := snap.ScenarioIndex[id]
	if !ok {
		return ResultError, data, ErrScenarioNotFound
	}
	result, cache := e.ExecuteScenario(ctx, tenantID, sc, data, snap, nil)
	return result, cache, nil
}

func containsID(chain []int64, id int64) bool {
	for _, existing := range chain {
		if existing == id {
			return true
		}
	}
	return false
}
