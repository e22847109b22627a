// Package scheduler implements component L: the in-memory table of
// scheduled scenarios, ticking once a minute, dispatching each scenario
// whose cron schedule is due through the executor while a per-scenario
// is_running gate keeps a slow run from overlapping itself.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	cron "github.com/robfig/cron/v3"

	"github.com/chatflow-dev/scenariorunner/pkg/clock"
	"github.com/chatflow-dev/scenariorunner/pkg/executor"
	"github.com/chatflow-dev/scenariorunner/pkg/scenario"
	"github.com/chatflow-dev/scenariorunner/pkg/snapshot"
	"github.com/chatflow-dev/scenariorunner/pkg/store"
	"github.com/chatflow-dev/scenariorunner/pkg/value"
)

// tickInterval matches the once-a-minute cron granularity of spec §3's
// scheduled scenarios; sub-minute schedules are out of scope.
const tickInterval = time.Minute

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// entry is the scheduler's in-memory bookkeeping record for one scheduled
// scenario. nextRun/lastRun are kept as time.Time/Unix seconds internally;
// Status exports a scenario.ScheduledMeta snapshot for callers that want
// the exported shape without touching the scheduler's own locking.
type entry struct {
	scenarioID   int64
	tenantID     int64
	scenarioName string
	cronExpr     string
	schedule     cron.Schedule
	nextRun      time.Time
	lastRun      *int64
}

// Scheduler owns the tick loop. Following the teacher's
// stopCh/stopOnce/WaitGroup worker-pool shape, Start is safe to call once;
// Stop blocks until the current tick (if any) finishes.
type Scheduler struct {
	Repo     store.Repository
	Cache    *snapshot.Cache
	Executor *executor.Executor
	Clock    clock.Clock

	mu      sync.Mutex
	entries map[int64]*entry // scenario id -> entry
	running map[int64]bool   // scenario id -> currently executing

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New constructs a Scheduler. clk may be nil, defaulting to clock.System{}.
func New(repo store.Repository, cache *snapshot.Cache, exec *executor.Executor, clk clock.Clock) *Scheduler {
	if clk == nil {
		clk = clock.System{}
	}
	return &Scheduler{
		Repo:     repo,
		Cache:    cache,
		Executor: exec,
		Clock:    clk,
		entries:  make(map[int64]*entry),
		running:  make(map[int64]bool),
		stopCh:   make(chan struct{}),
	}
}

// Start loads every tenant's scheduled scenarios and begins the
// once-a-minute tick loop in a background goroutine.
func (s *Scheduler) Start(ctx context.Context) error {
	if err := s.ReloadAll(ctx); err != nil {
		return err
	}
	s.wg.Add(1)
	go s.loop(ctx)
	return nil
}

// Stop signals the tick loop to exit and waits for the in-flight tick (not
// individual scenario runs) to finish.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick runs every due, non-running scheduled scenario. Each scenario runs
// in its own goroutine so a slow run never delays the others' due check;
// the is_running gate, not the tick cadence, is what prevents overlap.
func (s *Scheduler) tick(ctx context.Context) {
	now := s.Clock.NowLocal()

	s.mu.Lock()
	due := make([]*entry, 0)
	for id, e := range s.entries {
		if s.running[id] {
			continue
		}
		if !e.nextRun.IsZero() && !now.Before(e.nextRun) {
			due = append(due, e)
		}
	}
	for _, e := range due {
		s.running[e.scenarioID] = true
	}
	s.mu.Unlock()

	for _, e := range due {
		go s.runOne(ctx, e)
	}
}

func (s *Scheduler) runOne(ctx context.Context, e *entry) {
	defer func() {
		s.mu.Lock()
		delete(s.running, e.scenarioID)
		s.mu.Unlock()
	}()

	snap, ok := s.Cache.Get(e.tenantID)
	if !ok {
		slog.Warn("scheduled scenario's tenant has no loaded snapshot, skipping run",
			"scenario_id", e.scenarioID, "tenant_id", e.tenantID)
		return
	}

	scheduledAt := e.nextRun
	scheduledUnix := scheduledAt.Unix()

	botID, err := s.Repo.GetBotByTenantID(ctx, e.tenantID)
	if err != nil {
		slog.Warn("failed to resolve scheduled scenario's bot id", "scenario_id", e.scenarioID, "error", err)
	}
	var cfg map[string]any
	if tenant, err := s.Repo.GetTenantByID(ctx, e.tenantID); err != nil {
		slog.Warn("failed to resolve scheduled scenario's tenant config", "scenario_id", e.scenarioID, "error", err)
	} else {
		cfg = tenant.Config
	}

	event := value.Map{
		"system": value.Map{
			"tenant_id": float64(e.tenantID),
			"trigger":   "scheduled",
		},
		"bot_id":                botID,
		"scheduled_at":          scheduledUnix,
		"scheduled_scenario_id": e.scenarioID,
		"_config":               cfg,
	}

	result, _, err := s.Executor.ExecuteByName(ctx, e.tenantID, e.scenarioName, event, snap)
	if err != nil {
		slog.Error("scheduled scenario run failed", "scenario_id", e.scenarioID, "error", err)
	} else {
		slog.Info("scheduled scenario run finished", "scenario_id", e.scenarioID, "result", result)
	}

	// last_run is persisted unconditionally, even when the run itself
	// errored — a scheduled scenario that keeps failing should still stop
	// being "due" every tick until its next scheduled time. It records
	// when the run was scheduled to fire, not when it finished, so
	// is_running/last_run reporting matches the cron slot rather than
	// execution latency.
	if err := s.Repo.UpdateScenarioLastRun(ctx, e.scenarioID, scheduledUnix); err != nil {
		slog.Error("failed to persist scheduled scenario's last_run", "scenario_id", e.scenarioID, "error", err)
	}

	now := s.Clock.NowLocal()
	s.mu.Lock()
	e.lastRun = &scheduledUnix
	e.nextRun = e.schedule.Next(now)
	s.mu.Unlock()
}

// Status returns a snapshot of one scheduled scenario's bookkeeping, or
// false if it is not currently tracked.
func (s *Scheduler) Status(scenarioID int64) (scenario.ScheduledMeta, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[scenarioID]
	if !ok {
		return scenario.ScheduledMeta{}, false
	}
	return scenario.ScheduledMeta{
		ScenarioID:   e.scenarioID,
		TenantID:     e.tenantID,
		ScenarioName: e.scenarioName,
		Cron:         e.cronExpr,
		LastRun:      e.lastRun,
		NextRun:      e.nextRun.Unix(),
		IsRunning:    s.running[scenarioID],
	}, true
}

// ReloadAll rebuilds the in-memory cron table from every tenant's current
// scheduled scenarios.
func (s *Scheduler) ReloadAll(ctx context.Context) error {
	return s.reload(ctx, nil)
}

// ReloadTenant rebuilds the cron table entries belonging to one tenant,
// leaving every other tenant's entries untouched.
func (s *Scheduler) ReloadTenant(ctx context.Context, tenantID int64) error {
	return s.reload(ctx, &tenantID)
}

func (s *Scheduler) reload(ctx context.Context, tenantID *int64) error {
	scenarios, err := s.Repo.GetScheduledScenarios(ctx, tenantID)
	if err != nil {
		return err
	}

	fresh := make(map[int64]*entry, len(scenarios))
	now := s.Clock.NowLocal()
	for _, sc := range scenarios {
		if sc.Schedule == "" {
			continue
		}
		schedule, err := cronParser.Parse(sc.Schedule)
		if err != nil {
			slog.Warn("scheduled scenario has an invalid cron expression, skipping",
				"scenario_id", sc.ID, "schedule", sc.Schedule, "error", err)
			continue
		}
		fresh[sc.ID] = &entry{
			scenarioID:   sc.ID,
			tenantID:     sc.TenantID,
			scenarioName: sc.Name,
			cronExpr:     sc.Schedule,
			schedule:     schedule,
			nextRun:      schedule.Next(now),
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tenantID == nil {
		s.entries = fresh
		return nil
	}
	for id, e := range s.entries {
		if e.tenantID != *tenantID {
			fresh[id] = e
		}
	}
	s.entries = fresh
	return nil
}
