package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ScenarioRunnerYAMLConfig represents the complete scenariorunner.yaml
// file structure.
type ScenarioRunnerYAMLConfig struct {
	Defaults *Defaults       `yaml:"defaults"`
	Engine   *EngineConfig   `yaml:"engine"`
	Database *DatabaseConfig `yaml:"database"`
	Redis    *RedisConfig    `yaml:"redis"`
	HTTP     *HTTPConfig     `yaml:"http"`
	GitSync  *GitSyncConfig  `yaml:"git_sync"`
}

// Initialize loads, validates, and returns ready-to-use configuration.
// This is the primary entry point for configuration loading.
//
// Steps performed:
//  1. Load a .env overlay (if present) into the process environment
//  2. Load scenariorunner.yaml from configDir
//  3. Expand environment variables referenced by {{.VAR}}-style templates
//  4. Parse YAML into structs
//  5. Merge built-in defaults with user-provided overrides
//  6. Validate all configuration
//  7. Return Config ready for use
func Initialize(ctx context.Context, configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)
	log.Info("initializing configuration")

	if err := godotenv.Load(filepath.Join(configDir, ".env")); err != nil && !os.IsNotExist(err) {
		log.Warn("failed to load .env overlay", "error", err)
	}

	cfg, err := load(ctx, configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	log.Info("configuration initialized successfully",
		"database_host", cfg.Database.Host,
		"redis_addr", cfg.Redis.Addr,
		"http_addr", cfg.HTTP.Addr,
		"git_sync_enabled", cfg.GitSync.Enabled)

	return cfg, nil
}

// load is the internal loader (not exported).
func load(_ context.Context, configDir string) (*Config, error) {
	loader := &configLoader{configDir: configDir}

	user, err := loader.loadYAMLConfig()
	if err != nil {
		return nil, NewLoadError("scenariorunner.yaml", err)
	}

	defaults, err := mergeDefaults(DefaultDefaults(), user.Defaults)
	if err != nil {
		return nil, fmt.Errorf("failed to merge defaults: %w", err)
	}
	engine, err := mergeEngine(DefaultEngineConfig(), user.Engine)
	if err != nil {
		return nil, fmt.Errorf("failed to merge engine config: %w", err)
	}
	database, err := mergeDatabase(DefaultDatabaseConfig(), user.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to merge database config: %w", err)
	}
	redis, err := mergeRedis(DefaultRedisConfig(), user.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to merge redis config: %w", err)
	}
	httpCfg, err := mergeHTTP(DefaultHTTPConfig(), user.HTTP)
	if err != nil {
		return nil, fmt.Errorf("failed to merge http config: %w", err)
	}
	gitSync, err := mergeGitSync(DefaultGitSyncConfig(), user.GitSync)
	if err != nil {
		return nil, fmt.Errorf("failed to merge git_sync config: %w", err)
	}

	return &Config{
		configDir: configDir,
		Defaults:  defaults,
		Engine:    engine,
		Database:  database,
		Redis:     redis,
		HTTP:      httpCfg,
		GitSync:   gitSync,
	}, nil
}

// validate performs comprehensive validation on loaded configuration.
func validate(cfg *Config) error {
	validator := NewValidator(cfg)
	return validator.ValidateAll()
}

type configLoader struct {
	configDir string
}

func (l *configLoader) loadYAML(filename string, target any) error {
	path := filepath.Join(l.configDir, filename)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return err
	}

	// ExpandEnv passes through original data on parse/execution errors,
	// allowing the YAML parser to surface the clearer error.
	data = ExpandEnv(data)

	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return nil
}

func (l *configLoader) loadYAMLConfig() (*ScenarioRunnerYAMLConfig, error) {
	var cfg ScenarioRunnerYAMLConfig
	if err := l.loadYAML("scenariorunner.yaml", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
