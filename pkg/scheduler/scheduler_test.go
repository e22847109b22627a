package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatflow-dev/scenariorunner/pkg/actionbus"
	"github.com/chatflow-dev/scenariorunner/pkg/executor"
	"github.com/chatflow-dev/scenariorunner/pkg/placeholder"
	"github.com/chatflow-dev/scenariorunner/pkg/scenario"
	"github.com/chatflow-dev/scenariorunner/pkg/snapshot"
	"github.com/chatflow-dev/scenariorunner/pkg/store"
	"github.com/chatflow-dev/scenariorunner/pkg/value"
)

type fakeRepo struct {
	store.Repository
	scheduled  []*scenario.Scenario
	lastRunIDs []int64
}

func (f *fakeRepo) GetScheduledScenarios(_ context.Context, tenantID *int64) ([]*scenario.Scenario, error) {
	if tenantID == nil {
		return f.scheduled, nil
	}
	var out []*scenario.Scenario
	for _, sc := range f.scheduled {
		if sc.TenantID == *tenantID {
			out = append(out, sc)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateScenarioLastRun(_ context.Context, scenarioID int64, _ int64) error {
	f.lastRunIDs = append(f.lastRunIDs, scenarioID)
	return nil
}

func (f *fakeRepo) GetBotByTenantID(_ context.Context, tenantID int64) (string, error) {
	return "bot-1", nil
}

func (f *fakeRepo) GetTenantByID(_ context.Context, tenantID int64) (*store.Tenant, error) {
	return &store.Tenant{ID: tenantID}, nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) NowLocal() time.Time { return c.now }
func (c *fakeClock) ToISOLocalString(t time.Time) string { return t.Format(time.RFC3339) }

func TestScheduler_ReloadAllBuildsCronTable(t *testing.T) {
	repo := &fakeRepo{scheduled: []*scenario.Scenario{
		{ID: 1, TenantID: 1, Name: "daily-digest", Schedule: "0 9 * * *"},
		{ID: 2, TenantID: 1, Name: "bad-cron", Schedule: "not a cron expression"},
	}}
	sched := New(repo, snapshot.NewCache(), nil, &fakeClock{now: time.Date(2026, 7, 30, 8, 0, 0, 0, time.UTC)})

	require.NoError(t, sched.ReloadAll(context.Background()))

	_, ok := sched.Status(1)
	assert.True(t, ok)
	_, ok = sched.Status(2)
	assert.False(t, ok, "invalid cron expression should be skipped, not tracked")
}

func TestScheduler_TickRunsDueScenarioAndPersistsLastRun(t *testing.T) {
	var reply int32
	reg := actionbus.NewRegistry()
	actionbus.RegisterBuiltins(reg, nil)
	var sawScheduledAt int64
	var sawScenarioID int64
	var sawBotID string
	reg.Register("mark", func(_ context.Context, data value.Map) actionbus.Envelope {
		atomic.AddInt32(&reply, 1)
		sawScheduledAt, _ = data["scheduled_at"].(int64)
		sawScenarioID, _ = data["scheduled_scenario_id"].(int64)
		sawBotID, _ = data["bot_id"].(string)
		return actionbus.Envelope{Result: "success"}
	}, actionbus.ActionConfig{})

	sc := &scenario.Scenario{
		ID: 1, TenantID: 1, Name: "ticker",
		Steps: []scenario.Step{{StepOrder: 0, ActionName: "mark"}},
	}
	snap := snapshot.New()
	snap.ScenarioIndex[1] = sc
	snap.ScenarioNameIndex["ticker"] = 1
	cache := snapshot.NewCache()
	cache.Set(1, snap)

	repo := &fakeRepo{scheduled: []*scenario.Scenario{sc}}
	clk := &fakeClock{now: time.Date(2026, 7, 30, 9, 0, 0, 0, time.UTC)}
	exec := executor.New(reg, placeholder.New())
	sched := New(repo, cache, exec, clk)
	require.NoError(t, sched.ReloadAll(context.Background()))

	// Force the entry due regardless of its parsed schedule's real next
	// time, to exercise tick()'s dispatch path deterministically.
	sched.mu.Lock()
	sched.entries[1].nextRun = clk.now.Add(-time.Minute)
	sched.mu.Unlock()

	sched.tick(context.Background())
	// runOne is dispatched in its own goroutine; give it a moment.
	deadline := time.Now().Add(time.Second)
	for atomic.LoadInt32(&reply) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&reply))
	assert.Contains(t, repo.lastRunIDs, int64(1))
	assert.Equal(t, "bot-1", sawBotID)
	assert.Equal(t, int64(1), sawScenarioID)
	assert.Equal(t, clk.now.Add(-time.Minute).Unix(), sawScheduledAt)
}
