package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Defaults: DefaultDefaults(),
		Engine:   DefaultEngineConfig(),
		Database: DefaultDatabaseConfig(),
		Redis:    DefaultRedisConfig(),
		HTTP:     DefaultHTTPConfig(),
		GitSync:  DefaultGitSyncConfig(),
	}
}

func TestValidator_ValidConfigPasses(t *testing.T) {
	v := NewValidator(validConfig())
	assert.NoError(t, v.ValidateAll())
}

func TestValidator_NegativeMaxSystemTenantIDFails(t *testing.T) {
	cfg := validConfig()
	cfg.Defaults.MaxSystemTenantID = -1

	v := NewValidator(cfg)
	assert.Error(t, v.ValidateAll())
}

func TestValidator_IdleConnsExceedingOpenConnsFails(t *testing.T) {
	cfg := validConfig()
	cfg.Database.MaxOpenConns = 5
	cfg.Database.MaxIdleConns = 10

	v := NewValidator(cfg)
	assert.Error(t, v.ValidateAll())
}

func TestValidator_GitSyncEnabledWithoutRepoURLFails(t *testing.T) {
	cfg := validConfig()
	cfg.GitSync.Enabled = true

	v := NewValidator(cfg)
	assert.Error(t, v.ValidateAll())
}

func TestValidator_GitSyncDisabledSkipsValidation(t *testing.T) {
	cfg := validConfig()
	cfg.GitSync.Enabled = false
	cfg.GitSync.RepoURL = ""

	v := NewValidator(cfg)
	assert.NoError(t, v.ValidateAll())
}

func TestValidator_NonPositiveEngineTimeoutFails(t *testing.T) {
	cfg := validConfig()
	cfg.Engine.ScenarioTimeout = 0

	v := NewValidator(cfg)
	assert.Error(t, v.ValidateAll())
}
