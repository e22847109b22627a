// Package entstore is the production store.Repository implementation,
// backed by the generated ent client (entgo.io/ent) over PostgreSQL via
// pgx/v5. Like the rest of this module's ent usage, the generated client
// package (github.com/chatflow-dev/scenariorunner/ent) is produced by
// `go generate` from ent/schema and is not checked in.
package entstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chatflow-dev/scenariorunner/ent"
	"github.com/chatflow-dev/scenariorunner/ent/scenario"
	entstep "github.com/chatflow-dev/scenariorunner/ent/step"
	enttransition "github.com/chatflow-dev/scenariorunner/ent/transition"
	"github.com/chatflow-dev/scenariorunner/ent/trigger"
	domainscenario "github.com/chatflow-dev/scenariorunner/pkg/scenario"
	"github.com/chatflow-dev/scenariorunner/pkg/store"
	"github.com/chatflow-dev/scenariorunner/pkg/value"
)

// Store wraps an *ent.Client to satisfy store.Repository.
type Store struct {
	client *ent.Client
}

// New wraps an existing ent client. The caller owns its lifecycle.
func New(client *ent.Client) *Store {
	return &Store{client: client}
}

// GetScenariosByTenant loads every scenario owned by tenantID, without
// their triggers/steps — the loader fetches those per-scenario so a
// failure attaching one scenario's children doesn't abort the whole load.
func (s *Store) GetScenariosByTenant(ctx context.Context, tenantID int64) ([]*domainscenario.Scenario, error) {
	rows, err := s.client.Scenario.Query().
		Where(scenario.TenantID(tenantID)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("entstore: query scenarios for tenant %d: %w", tenantID, err)
	}
	out := make([]*domainscenario.Scenario, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainScenario(row))
	}
	return out, nil
}

// GetTriggersByScenario loads the triggers attached to scenarioID.
func (s *Store) GetTriggersByScenario(ctx context.Context, scenarioID int64) ([]domainscenario.Trigger, error) {
	rows, err := s.client.Trigger.Query().
		Where(trigger.ScenarioID(scenarioID)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("entstore: query triggers for scenario %d: %w", scenarioID, err)
	}
	out := make([]domainscenario.Trigger, 0, len(rows))
	for _, row := range rows {
		out = append(out, domainscenario.Trigger{
			ID:                  int64(row.ID),
			ScenarioID:          int64(row.ScenarioID),
			ConditionExpression: row.ConditionExpression,
		})
	}
	return out, nil
}

// GetStepsByScenario loads scenarioID's steps, ordered by step_order.
func (s *Store) GetStepsByScenario(ctx context.Context, scenarioID int64) ([]domainscenario.Step, error) {
	rows, err := s.client.Step.Query().
		Where(entstep.ScenarioID(scenarioID)).
		Order(ent.Asc(entstep.FieldStepOrder)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("entstore: query steps for scenario %d: %w", scenarioID, err)
	}
	out := make([]domainscenario.Step, 0, len(rows))
	for _, row := range rows {
		actionID := ""
		if row.ActionID != nil {
			actionID = *row.ActionID
		}
		out = append(out, domainscenario.Step{
			ID:         int64(row.ID),
			ScenarioID: int64(row.ScenarioID),
			StepOrder:  row.StepOrder,
			ActionName: row.ActionName,
			Params:     value.Map(row.Params),
			IsAsync:    row.IsAsync,
			ActionID:   actionID,
		})
	}
	return out, nil
}

// GetTransitionsByStep loads the transition table for one step.
func (s *Store) GetTransitionsByStep(ctx context.Context, stepID int64) ([]domainscenario.Transition, error) {
	rows, err := s.client.Transition.Query().
		Where(enttransition.StepID(stepID)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("entstore: query transitions for step %d: %w", stepID, err)
	}
	out := make([]domainscenario.Transition, 0, len(rows))
	for _, row := range rows {
		out = append(out, domainscenario.Transition{
			StepID:           int64(row.StepID),
			ActionResult:     row.ActionResult,
			TransitionAction: row.TransitionAction,
			TransitionValue:  decodeTransitionValue(row.TransitionValue),
		})
	}
	return out, nil
}

// GetScheduledScenarios loads every scenario whose schedule is set (non-null),
// optionally restricted to one tenant.
func (s *Store) GetScheduledScenarios(ctx context.Context, tenantID *int64) ([]*domainscenario.Scenario, error) {
	q := s.client.Scenario.Query().Where(scenario.ScheduleNotNil())
	if tenantID != nil {
		q = q.Where(scenario.TenantID(*tenantID))
	}
	rows, err := q.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("entstore: query scheduled scenarios: %w", err)
	}
	out := make([]*domainscenario.Scenario, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainScenario(row))
	}
	return out, nil
}

// GetBotByTenantID reads the bot_id a tenant's actions should address,
// stored inside its config blob.
func (s *Store) GetBotByTenantID(ctx context.Context, tenantID int64) (string, error) {
	t, err := s.client.Tenant.Get(ctx, int(tenantID))
	if err != nil {
		return "", fmt.Errorf("entstore: get tenant %d: %w", tenantID, err)
	}
	botID, _ := t.Config["bot_id"].(string)
	return botID, nil
}

// GetTenantByID loads a tenant record.
func (s *Store) GetTenantByID(ctx context.Context, tenantID int64) (*store.Tenant, error) {
	t, err := s.client.Tenant.Get(ctx, int(tenantID))
	if err != nil {
		return nil, fmt.Errorf("entstore: get tenant %d: %w", tenantID, err)
	}
	return &store.Tenant{
		ID:       int64(t.ID),
		Name:     t.Name,
		IsSystem: t.IsSystem,
		Config:   t.Config,
	}, nil
}

// UpdateScenarioLastRun persists a scheduled scenario's last_run after the
// scheduler runs it, regardless of whether that run succeeded.
func (s *Store) UpdateScenarioLastRun(ctx context.Context, scenarioID int64, unixSeconds int64) error {
	err := s.client.Scenario.UpdateOneID(int(scenarioID)).
		SetLastRun(unixSeconds).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("entstore: update last_run for scenario %d: %w", scenarioID, err)
	}
	return nil
}

// decodeTransitionValue unmarshals a transition's raw JSON value column
// into the dynamic type transition handling expects (string, float64,
// list ([]any), or nil depending on transition_action). A malformed or absent value
// degrades to nil rather than failing the whole step's transition lookup.
func decodeTransitionValue(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

func toDomainScenario(row *ent.Scenario) *domainscenario.Scenario {
	description := ""
	if row.Description != nil {
		description = *row.Description
	}
	schedule := ""
	if row.Schedule != nil {
		schedule = *row.Schedule
	}
	return &domainscenario.Scenario{
		ID:          int64(row.ID),
		TenantID:    row.TenantID,
		Name:        row.Name,
		Description: description,
		Schedule:    schedule,
	}
}
