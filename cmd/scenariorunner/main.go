// Command scenariorunner starts the scenario execution engine's HTTP
// facade: event ingestion, direct scenario execution, tenant reload, the
// scheduled-scenario tick loop, and (if configured) the Git-mirror sync
// poller, all running alongside it.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chatflow-dev/scenariorunner/pkg/actionbus"
	"github.com/chatflow-dev/scenariorunner/pkg/api"
	"github.com/chatflow-dev/scenariorunner/pkg/clock"
	"github.com/chatflow-dev/scenariorunner/pkg/config"
	"github.com/chatflow-dev/scenariorunner/pkg/configsync"
	"github.com/chatflow-dev/scenariorunner/pkg/database"
	"github.com/chatflow-dev/scenariorunner/pkg/engine"
	"github.com/chatflow-dev/scenariorunner/pkg/executor"
	"github.com/chatflow-dev/scenariorunner/pkg/kvcache"
	"github.com/chatflow-dev/scenariorunner/pkg/kvcache/memkv"
	"github.com/chatflow-dev/scenariorunner/pkg/kvcache/rediskv"
	"github.com/chatflow-dev/scenariorunner/pkg/loader"
	"github.com/chatflow-dev/scenariorunner/pkg/placeholder"
	"github.com/chatflow-dev/scenariorunner/pkg/scheduler"
	"github.com/chatflow-dev/scenariorunner/pkg/snapshot"
	"github.com/chatflow-dev/scenariorunner/pkg/store/entstore"
	"github.com/chatflow-dev/scenariorunner/pkg/value"
)

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func main() {
	configDir := flag.String("config-dir",
		getEnv("CONFIG_DIR", "./deploy/config"),
		"Path to configuration directory")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Initialize(ctx, *configDir)
	if err != nil {
		log.Fatalf("failed to initialize configuration: %v", err)
	}

	dbClient, err := database.NewClient(ctx, database.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			slog.Error("error closing database client", "error", err)
		}
	}()
	slog.Info("connected to database", "host", cfg.Database.Host, "database", cfg.Database.Database)

	kv := buildKVCache(ctx, cfg.Redis)
	repo := entstore.NewCached(entstore.New(dbClient.Client), kv)

	snapCache := snapshot.NewCache()
	ld := loader.New(repo)

	// eng is declared before the registry so the execute_scenario builtin's
	// runner closure can recurse back into the engine facade once it
	// exists; RegisterBuiltins only needs the closure, not eng itself, at
	// registration time.
	var eng *engine.Engine
	runner := func(ctx context.Context, tenantID int64, scenarioName string, data value.Map) (string, value.Map) {
		result, responseData, err := eng.ExecuteByName(ctx, tenantID, scenarioName, data)
		if err != nil {
			return "error", value.Map{"error": err.Error()}
		}
		return result, responseData
	}

	reg := actionbus.NewRegistry()
	actionbus.RegisterBuiltins(reg, runner)

	exec := executor.New(reg, placeholder.New())
	sched := scheduler.New(repo, snapCache, exec, clock.System{})
	eng = engine.New(snapCache, ld, exec, sched)

	if err := sched.Start(ctx); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	sync := configsync.New(cfg.GitSync)
	if err := sync.Start(ctx); err != nil {
		log.Fatalf("failed to start config-sync: %v", err)
	}
	defer sync.Stop()

	server := api.NewServer(cfg, dbClient, eng)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", cfg.HTTP.Addr)
		errCh <- server.Start(cfg.HTTP.Addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("http server failed: %v", err)
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Engine.GracefulShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("error during http server shutdown", "error", err)
	}
}

// buildKVCache connects to Redis, falling back to an in-memory cache if
// Redis is unreachable at startup — config/tenant lookups are then cached
// in process memory rather than the process failing to start.
func buildKVCache(ctx context.Context, cfg *config.RedisConfig) kvcache.Cache {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		slog.Warn("redis unreachable, falling back to in-memory cache", "addr", cfg.Addr, "error", err)
		return memkv.New()
	}
	return rediskv.New(client)
}
