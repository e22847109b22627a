// Package loader implements component F: building a per-tenant Snapshot
// from persisted scenarios, triggers, steps, and transitions.
package loader

import (
	"context"
	"log/slog"

	"github.com/chatflow-dev/scenariorunner/pkg/condition"
	"github.com/chatflow-dev/scenariorunner/pkg/scenario"
	"github.com/chatflow-dev/scenariorunner/pkg/snapshot"
	"github.com/chatflow-dev/scenariorunner/pkg/store"
)

// Loader reads a tenant's scenarios from a Repository and compiles them
// into a Snapshot.
type Loader struct {
	repo store.Repository
}

// New returns a Loader backed by repo.
func New(repo store.Repository) *Loader {
	return &Loader{repo: repo}
}

// Repo returns the Repository this Loader reads through, so callers that
// need to reach an optional capability the port itself doesn't declare
// (e.g. config-cache invalidation) can type-assert against it.
func (l *Loader) Repo() store.Repository {
	return l.repo
}

// Load builds a fresh Snapshot for tenantID. Errors compiling or attaching
// a single trigger, or reading a single scenario's steps/transitions, are
// logged and that piece is skipped rather than failing the whole build —
// the loader always returns a partial-but-usable snapshot over a hard
// failure, mirroring the source loader's resilience.
func (l *Loader) Load(ctx context.Context, tenantID int64) (*snapshot.Snapshot, error) {
	scenarios, err := l.repo.GetScenariosByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	snap := snapshot.New()
	for _, sc := range scenarios {
		if err := l.attachScenario(ctx, snap, sc); err != nil {
			slog.Error("failed to attach scenario to snapshot",
				"tenant_id", tenantID, "scenario_id", sc.ID, "error", err)
			continue
		}
		snap.ScenarioIndex[sc.ID] = sc
		if _, exists := snap.ScenarioNameIndex[sc.Name]; exists {
			slog.Warn("duplicate scenario name within tenant; later scenario keeps the name binding",
				"tenant_id", tenantID, "scenario_name", sc.Name, "scenario_id", sc.ID)
		}
		snap.ScenarioNameIndex[sc.Name] = sc.ID
	}
	return snap, nil
}

func (l *Loader) attachScenario(ctx context.Context, snap *snapshot.Snapshot, sc *scenario.Scenario) error {
	triggers, err := l.repo.GetTriggersByScenario(ctx, sc.ID)
	if err != nil {
		return err
	}
	steps, err := l.repo.GetStepsByScenario(ctx, sc.ID)
	if err != nil {
		return err
	}
	for i := range steps {
		transitions, err := l.repo.GetTransitionsByStep(ctx, steps[i].ID)
		if err != nil {
			slog.Error("failed to load transitions for step; step runs with no transitions",
				"scenario_id", sc.ID, "step_id", steps[i].ID, "error", err)
			continue
		}
		steps[i].Transitions = transitions
	}
	sc.Steps = steps
	sc.Triggers = triggers

	for _, trig := range triggers {
		compiled, err := condition.Compile(trig.ConditionExpression)
		if err != nil {
			slog.Error("failed to compile trigger condition; trigger will never match",
				"scenario_id", sc.ID, "trigger_id", trig.ID, "error", err)
			continue
		}
		condition.AddToTree(snap.SearchTree, sc.ID, compiled)
	}
	return nil
}
