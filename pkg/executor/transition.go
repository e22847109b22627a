package executor

import (
	"log/slog"

	"github.com/chatflow-dev/scenariorunner/pkg/scenario"
	"github.com/chatflow-dev/scenariorunner/pkg/value"
)

// control is what processing a step's transitions resolves to: either a
// plain loop instruction for the scenario executor (continue/stop/break/
// abort/move to a specific index) or a jump to a different scenario
// entirely.
type control struct {
	action        string // continue | stop | break | abort | jump_index | jump_scenario
	nextIndex     int
	scenarioNames []string
	tenantID      int64
}

// processTransitions implements component I. It picks the transition entry
// matching the step's action result, preferring a wildcard "any" entry over
// one keyed to the exact result — an "any" transition is how a step
// expresses "run this regardless of what the action returned", so it takes
// priority when both are present. With no matching entry the step falls
// through to the next one.
func processTransitions(actionResult string, transitions []scenario.Transition) (scenario.Transition, bool) {
	for _, t := range transitions {
		if t.ActionResult == "any" {
			return t, true
		}
	}
	for _, t := range transitions {
		if t.ActionResult == actionResult {
			return t, true
		}
	}
	return scenario.Transition{}, false
}

// resolveControl turns a matched transition into a control instruction
// given the current step index and the scenario's full step list.
func resolveControl(t scenario.Transition, currentIndex int, steps []scenario.Step) control {
	switch t.TransitionAction {
	case "stop", "abort", "break":
		return control{action: t.TransitionAction}
	case "move_steps":
		n, ok := value.AsFloat(t.TransitionValue)
		if !ok {
			slog.Warn("move_steps transition has a non-numeric value, treating as 0", "step_id", t.StepID)
			n = 0
		}
		delta := int(n)
		if delta == 0 {
			// Open question: move_steps:0 repositions at the same step
			// rather than being rejected outright. Left as-is deliberately
			// — a scenario author relying on this to loop is responsible
			// for a transition elsewhere that eventually exits.
			slog.Warn("move_steps:0 re-enters the same step", "step_id", t.StepID)
		}
		nextIndex := currentIndex + delta
		if nextIndex < 0 {
			nextIndex = 0
		}
		return control{action: "jump_index", nextIndex: nextIndex}
	case "jump_to_step":
		target, _ := value.AsFloat(t.TransitionValue)
		return control{action: "jump_index", nextIndex: int(target)}
	case "jump_to_scenario":
		switch v := t.TransitionValue.(type) {
		case string:
			return control{action: "jump_scenario", scenarioNames: []string{v}}
		case []interface{}:
			names := make([]string, 0, len(v))
			for _, item := range v {
				if name, ok := item.(string); ok && name != "" {
					names = append(names, name)
				}
			}
			return control{action: "jump_scenario", scenarioNames: names}
		default:
			slog.Warn("jump_to_scenario has a value that is neither a string nor a list, ignoring", "step_id", t.StepID)
			return control{action: "continue"}
		}
	default:
		return control{action: "continue"}
	}
}
