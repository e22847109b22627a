package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatflow-dev/scenariorunner/pkg/actionbus"
	"github.com/chatflow-dev/scenariorunner/pkg/executor"
	"github.com/chatflow-dev/scenariorunner/pkg/loader"
	"github.com/chatflow-dev/scenariorunner/pkg/placeholder"
	"github.com/chatflow-dev/scenariorunner/pkg/scenario"
	"github.com/chatflow-dev/scenariorunner/pkg/snapshot"
	"github.com/chatflow-dev/scenariorunner/pkg/store"
	"github.com/chatflow-dev/scenariorunner/pkg/value"
)

type fakeRepo struct {
	store.Repository
	scenarios []*scenario.Scenario
}

func (f *fakeRepo) GetScenariosByTenant(_ context.Context, tenantID int64) ([]*scenario.Scenario, error) {
	var out []*scenario.Scenario
	for _, s := range f.scenarios {
		if s.TenantID == tenantID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetTriggersByScenario(_ context.Context, scenarioID int64) ([]scenario.Trigger, error) {
	for _, s := range f.scenarios {
		if s.ID == scenarioID {
			return s.Triggers, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) GetStepsByScenario(_ context.Context, scenarioID int64) ([]scenario.Step, error) {
	for _, s := range f.scenarios {
		if s.ID == scenarioID {
			return s.Steps, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) GetTransitionsByStep(_ context.Context, stepID int64) ([]scenario.Transition, error) {
	for _, s := range f.scenarios {
		for _, step := range s.Steps {
			if step.ID == stepID {
				return step.Transitions, nil
			}
		}
	}
	return nil, nil
}

func newTestEngine(t *testing.T, scenarios []*scenario.Scenario) *Engine {
	t.Helper()
	repo := &fakeRepo{scenarios: scenarios}
	reg := actionbus.NewRegistry()
	actionbus.RegisterBuiltins(reg, nil)
	exec := executor.New(reg, placeholder.New())
	return New(snapshot.NewCache(), loader.New(repo), exec, nil)
}

func TestEngine_ProcessEvent_MatchesAndRuns(t *testing.T) {
	scenarios := []*scenario.Scenario{
		{
			ID: 1, TenantID: 1, Name: "greet",
			Triggers: []scenario.Trigger{{ID: 1, ScenarioID: 1, ConditionExpression: "$event_type == 'message'"}},
			Steps:    []scenario.Step{{ID: 1, ScenarioID: 1, StepOrder: 0, ActionName: "reply", Params: value.Map{"text": "hi"}}},
		},
	}
	e := newTestEngine(t, scenarios)

	event := value.Map{"event_type": "message", "system": value.Map{"tenant_id": float64(1)}}
	handled, err := e.ProcessEvent(context.Background(), event)
	require.NoError(t, err)
	assert.False(t, handled, "no step in this scenario transitions to stop, so handled stays false")
}

func TestEngine_ProcessEvent_StopShortCircuitsRemainingCandidates(t *testing.T) {
	scenarios := []*scenario.Scenario{
		{
			ID: 1, TenantID: 1, Name: "first",
			Triggers: []scenario.Trigger{{ID: 1, ScenarioID: 1, ConditionExpression: "$event_type == 'message'"}},
			Steps: []scenario.Step{{
				ID: 1, ScenarioID: 1, StepOrder: 0, ActionName: "reply", Params: value.Map{"text": "first"},
				Transitions: []scenario.Transition{{StepID: 1, ActionResult: "any", TransitionAction: "stop"}},
			}},
		},
		{
			ID: 2, TenantID: 1, Name: "second",
			Triggers: []scenario.Trigger{{ID: 2, ScenarioID: 2, ConditionExpression: "$event_type == 'message'"}},
			Steps:    []scenario.Step{{ID: 2, ScenarioID: 2, StepOrder: 0, ActionName: "reply", Params: value.Map{"text": "second"}}},
		},
	}
	e := newTestEngine(t, scenarios)

	event := value.Map{"event_type": "message", "system": value.Map{"tenant_id": float64(1)}}
	handled, err := e.ProcessEvent(context.Background(), event)
	require.NoError(t, err)
	assert.True(t, handled)
}

func TestEngine_ProcessEvent_MissingTenantIDErrors(t *testing.T) {
	e := newTestEngine(t, nil)
	_, err := e.ProcessEvent(context.Background(), value.Map{"event_type": "message"})
	assert.Error(t, err)
}

func TestEngine_ExecuteByName_LazyLoadsSnapshot(t *testing.T) {
	scenarios := []*scenario.Scenario{
		{
			ID: 1, TenantID: 1, Name: "direct",
			Steps: []scenario.Step{{ID: 1, ScenarioID: 1, StepOrder: 0, ActionName: "reply", Params: value.Map{"text": "ok"}}},
		},
	}
	e := newTestEngine(t, scenarios)
	assert.False(t, e.Cache.Exists(1))

	result, data, err := e.ExecuteByName(context.Background(), 1, "direct", value.Map{"system": value.Map{}})
	require.NoError(t, err)
	assert.Equal(t, executor.ResultSuccess, result)
	assert.Equal(t, "ok", data["text"])
	assert.True(t, e.Cache.Exists(1))
}

func TestEngine_ReloadTenant_RebuildsSnapshot(t *testing.T) {
	scenarios := []*scenario.Scenario{{ID: 1, TenantID: 1, Name: "s"}}
	e := newTestEngine(t, scenarios)

	require.NoError(t, e.ReloadTenant(context.Background(), 1))
	assert.True(t, e.Cache.Exists(1))
}
