// Package scenario holds the plain in-memory domain types for scenarios,
// triggers, steps, and transitions (spec §3), decoupled from both their ent
// persistence shape (pkg/store/entstore) and their compiled/indexed form
// (pkg/condition, pkg/snapshot). Loader and executor code shares these
// types; nothing here depends on ent or on any storage driver.
package scenario

import "github.com/chatflow-dev/scenariorunner/pkg/value"

// Scenario is an ordered program of steps guarded by triggers, keyed to a
// tenant. A non-empty Schedule marks it as a scheduled scenario (spec §3).
type Scenario struct {
	ID          int64
	TenantID    int64
	Name        string
	Description string
	Schedule    string // cron expression; empty when event-driven only
	Triggers    []Trigger
	Steps       []Step
}

// Trigger is a compilable predicate source attached to a scenario.
type Trigger struct {
	ID                 int64
	ScenarioID         int64
	ConditionExpression string
}

// Step is a single action invocation with templated parameters and a
// transition table.
type Step struct {
	ID         int64
	ScenarioID int64
	StepOrder  int
	ActionName string
	Params     value.Map
	IsAsync    bool
	ActionID   string // mandatory when IsAsync
	Transitions []Transition
}

// Transition maps an action_result to a control-flow decision.
type Transition struct {
	StepID           int64
	ActionResult     string // concrete result string, or "any"
	TransitionAction string // continue | stop | break | abort | jump_to_scenario | move_steps | jump_to_step
	TransitionValue  any    // string, float64, or []interface{} depending on TransitionAction
}

// ScheduledMeta is the per-scenario snapshot Scheduler.Status returns for
// each scheduled scenario (spec §3, component L).
type ScheduledMeta struct {
	ScenarioID   int64
	TenantID     int64
	ScenarioName string
	Cron         string
	LastRun      *int64 // unix seconds, nil until the first run completes
	NextRun      int64  // unix seconds
	IsRunning    bool
}
