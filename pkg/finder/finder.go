// Package finder implements component G: extracting the tenant id from an
// incoming event and locating candidate scenarios for it via the search
// tree of a tenant's Snapshot.
package finder

import (
	"errors"
	"log/slog"

	"github.com/chatflow-dev/scenariorunner/pkg/condition"
	"github.com/chatflow-dev/scenariorunner/pkg/snapshot"
	"github.com/chatflow-dev/scenariorunner/pkg/value"
)

// ErrMissingTenantID is returned when an event has no usable
// system.tenant_id field.
var ErrMissingTenantID = errors.New("finder: event missing system.tenant_id")

// ExtractTenantID reads event.system.tenant_id, the mandatory field every
// event must carry (spec §3).
func ExtractTenantID(event value.Map) (int64, error) {
	raw, ok := value.GetPath(event, "system.tenant_id")
	if !ok {
		return 0, ErrMissingTenantID
	}
	f, ok := value.AsFloat(raw)
	if !ok {
		return 0, ErrMissingTenantID
	}
	return int64(f), nil
}

// FindScenariosByEvent returns the deduped, order-preserving list of
// scenario ids whose triggers match event, filtered against the snapshot's
// scenario_index: an id present in the search tree but absent from the
// index (a race with a concurrent partial reload) is dropped with a
// warning rather than surfaced to the caller (spec I2).
func FindScenariosByEvent(tenantID int64, event value.Map, snap *snapshot.Snapshot) []int64 {
	candidates := condition.SearchInTree(snap.SearchTree, event)
	out := make([]int64, 0, len(candidates))
	for _, id := range candidates {
		if _, ok := snap.ScenarioIndex[id]; !ok {
			slog.Warn("search tree referenced a scenario id absent from the scenario index",
				"tenant_id", tenantID, "scenario_id", id)
			continue
		}
		out = append(out, id)
	}
	return out
}
