// Package engine implements component M: the facade wiring the per-tenant
// snapshot cache, loader, finder, executor, and scheduler into the three
// operations callers actually invoke — ProcessEvent, ExecuteByName, and
// ReloadTenant.
package engine

import (
	"context"
	"log/slog"

	"github.com/chatflow-dev/scenariorunner/pkg/executor"
	"github.com/chatflow-dev/scenariorunner/pkg/finder"
	"github.com/chatflow-dev/scenariorunner/pkg/loader"
	"github.com/chatflow-dev/scenariorunner/pkg/scheduler"
	"github.com/chatflow-dev/scenariorunner/pkg/snapshot"
	"github.com/chatflow-dev/scenariorunner/pkg/value"
)

// Engine is the single entry point embedding code or the HTTP facade
// drives the system through.
type Engine struct {
	Cache     *snapshot.Cache
	Loader    *loader.Loader
	Executor  *executor.Executor
	Scheduler *scheduler.Scheduler // nil when scheduled scenarios are disabled
}

// New wires an Engine from its already-constructed collaborators.
func New(cache *snapshot.Cache, ld *loader.Loader, exec *executor.Executor, sched *scheduler.Scheduler) *Engine {
	return &Engine{Cache: cache, Loader: ld, Executor: exec, Scheduler: sched}
}

// ProcessEvent runs every scenario whose triggers match event, in the
// order the finder returns them. A scenario ending in "stop" short-circuits
// the remaining candidates and reports handled=true: the event has been
// fully answered. "abort", "break", and a dispatch error only end that one
// scenario's own run — the engine still tries the next candidate, because
// one scenario's internal abort says nothing about whether another,
// independently triggered scenario should also get a chance to run.
func (e *Engine) ProcessEvent(ctx context.Context, event value.Map) (handled bool, err error) {
	tenantID, err := finder.ExtractTenantID(event)
	if err != nil {
		return false, err
	}

	snap, err := e.snapshotFor(ctx, tenantID)
	if err != nil {
		return false, err
	}

	ids := finder.FindScenariosByEvent(tenantID, event, snap)
	for _, id := range ids {
		sc, ok := snap.ScenarioIndex[id]
		if !ok {
			continue
		}
		result, _ := e.Executor.ExecuteScenario(ctx, tenantID, sc, value.Clone(event).(value.Map), snap, nil)
		switch result {
		case executor.ResultStop:
			return true, nil
		case executor.ResultError:
			slog.Warn("scenario ended in error, trying remaining candidates",
				"scenario_id", id, "tenant_id", tenantID)
		}
	}
	return false, nil
}

// ExecuteByName runs one named scenario directly, bypassing trigger
// matching — the path scheduled scenarios and the HTTP facade's manual
// "run this scenario now" endpoint both use.
func (e *Engine) ExecuteByName(ctx context.Context, tenantID int64, name string, data value.Map) (string, value.Map, error) {
	snap, err := e.snapshotFor(ctx, tenantID)
	if err != nil {
		return "", nil, err
	}
	return e.Executor.ExecuteByName(ctx, tenantID, name, data, snap)
}

// ReloadTenant rebuilds one tenant's snapshot from the repository and
// atomically swaps it into the cache (I5), then refreshes that tenant's
// entries in the scheduler's cron table, if a scheduler is wired in.
func (e *Engine) ReloadTenant(ctx context.Context, tenantID int64) error {
	snap, err := e.Loader.Load(ctx, tenantID)
	if err != nil {
		return err
	}
	e.Cache.Set(tenantID, snap)

	if invalidator, ok := e.Loader.Repo().(tenantInvalidator); ok {
		if err := invalidator.InvalidateTenant(ctx, tenantID); err != nil {
			slog.Warn("failed to invalidate tenant config cache on reload",
				"tenant_id", tenantID, "error", err)
		}
	}

	if e.Scheduler != nil {
		return e.Scheduler.ReloadTenant(ctx, tenantID)
	}
	return nil
}

// tenantInvalidator is the optional capability a store.Repository may
// implement to drop its cached bot_id/config entries for a tenant. Not
// part of store.Repository itself because an in-memory test repository
// has nothing to invalidate.
type tenantInvalidator interface {
	InvalidateTenant(ctx context.Context, tenantID int64) error
}

// snapshotFor returns the cached snapshot for tenantID, lazily loading it
// on a first-ever reference.
func (e *Engine) snapshotFor(ctx context.Context, tenantID int64) (*snapshot.Snapshot, error) {
	if snap, ok := e.Cache.Get(tenantID); ok {
		return snap, nil
	}
	snap, err := e.Loader.Load(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	e.Cache.Set(tenantID, snap)
	return snap, nil
}
