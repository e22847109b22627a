// Package store defines the Repository port of spec §6: the read-mostly
// persistence boundary the loader, scheduler, and engine depend on.
// The concrete implementation is pkg/store/entstore, the Postgres-backed
// production store; tests define their own fakes.
package store

import (
	"context"

	"github.com/chatflow-dev/scenariorunner/pkg/scenario"
)

// Repository is read-only for the engine core, with a single write path
// for scheduled-run bookkeeping, exactly as spec §6 describes it.
type Repository interface {
	GetScenariosByTenant(ctx context.Context, tenantID int64) ([]*scenario.Scenario, error)
	GetTriggersByScenario(ctx context.Context, scenarioID int64) ([]scenario.Trigger, error)
	GetStepsByScenario(ctx context.Context, scenarioID int64) ([]scenario.Step, error)
	GetTransitionsByStep(ctx context.Context, stepID int64) ([]scenario.Transition, error)

	// GetScheduledScenarios returns scheduled scenarios, optionally
	// filtered to one tenant. A nil tenantID returns every tenant's
	// scheduled scenarios.
	GetScheduledScenarios(ctx context.Context, tenantID *int64) ([]*scenario.Scenario, error)

	GetBotByTenantID(ctx context.Context, tenantID int64) (botID string, err error)
	GetTenantByID(ctx context.Context, tenantID int64) (*Tenant, error)

	UpdateScenarioLastRun(ctx context.Context, scenarioID int64, unixSeconds int64) error
}

// Tenant is the minimal tenant record the scheduler and action-injection
// path need: its own config blob (if any) and whether it is a protected
// system tenant (spec §6 "max_system_tenant_id", supplemented feature 1).
type Tenant struct {
	ID       int64
	Name     string
	IsSystem bool
	Config   map[string]any
}
