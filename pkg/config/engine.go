package config

import "time"

// EngineConfig controls the scenario engine and scheduler's timing
// behavior. It plays the role the base repository's QueueConfig played
// for its session worker pool, scaled down to this engine's single
// scheduler tick loop plus its per-run timeouts.
type EngineConfig struct {
	// ScenarioTimeout is validated as positive; ProcessEvent/ExecuteByName
	// apply no deadline from it, and a run is not cancelled when it elapses.
	ScenarioTimeout time.Duration `yaml:"scenario_timeout"`

	// AsyncActionTimeout is loaded with the engine settings but is not read
	// by wait_for_action or delay: wait_for_action waits without a deadline
	// unless the step passes timeout_seconds, and delay waits for its own
	// seconds param.
	AsyncActionTimeout time.Duration `yaml:"async_action_timeout"`

	// GracefulShutdownTimeout bounds how long the HTTP server's graceful
	// Shutdown waits for in-flight requests at process exit.
	GracefulShutdownTimeout time.Duration `yaml:"graceful_shutdown_timeout"`
}

// DefaultEngineConfig returns the built-in engine timing defaults.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		ScenarioTimeout:         30 * time.Second,
		AsyncActionTimeout:      60 * time.Second,
		GracefulShutdownTimeout: 15 * time.Second,
	}
}
