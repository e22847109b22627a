package config

import (
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"
)

var structValidator = validator.New()

// Validator validates configuration comprehensively with clear error messages.
type Validator struct {
	cfg *Config
}

// NewValidator creates a validator for the given configuration.
func NewValidator(cfg *Config) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateAll performs comprehensive validation (fail-fast - stops at first error).
func (v *Validator) ValidateAll() error {
	if err := structValidator.Struct(v.cfg.Database); err != nil {
		return fmt.Errorf("database validation failed: %w", err)
	}
	if err := structValidator.Struct(v.cfg.Redis); err != nil {
		return fmt.Errorf("redis validation failed: %w", err)
	}
	if err := structValidator.Struct(v.cfg.HTTP); err != nil {
		return fmt.Errorf("http validation failed: %w", err)
	}

	if err := v.validateDefaults(); err != nil {
		return fmt.Errorf("defaults validation failed: %w", err)
	}
	if err := v.validateDatabase(); err != nil {
		return fmt.Errorf("database validation failed: %w", err)
	}
	if err := v.validateEngine(); err != nil {
		return fmt.Errorf("engine validation failed: %w", err)
	}
	if err := v.validateGitSync(); err != nil {
		return fmt.Errorf("git_sync validation failed: %w", err)
	}

	return nil
}

func (v *Validator) validateDefaults() error {
	d := v.cfg.Defaults
	if d == nil {
		return fmt.Errorf("defaults configuration is nil")
	}
	if d.MaxSystemTenantID < 0 {
		return NewValidationError("defaults", "", "max_system_tenant_id", fmt.Errorf("must be non-negative"))
	}
	if d.PlaceholderMaxNestingDepth < 1 {
		return NewValidationError("defaults", "", "placeholder_max_nesting_depth", fmt.Errorf("must be at least 1"))
	}
	if d.DefaultActionTimeout <= 0 {
		return NewValidationError("defaults", "", "default_action_timeout", fmt.Errorf("must be positive"))
	}
	return nil
}

func (v *Validator) validateDatabase() error {
	db := v.cfg.Database
	if db == nil {
		return fmt.Errorf("database configuration is nil")
	}
	if db.MaxOpenConns < 1 {
		return NewValidationError("database", "", "max_open_conns", fmt.Errorf("must be at least 1"))
	}
	if db.MaxIdleConns < 0 {
		return NewValidationError("database", "", "max_idle_conns", fmt.Errorf("must be non-negative"))
	}
	if db.MaxIdleConns > db.MaxOpenConns {
		return NewValidationError("database", "", "max_idle_conns", fmt.Errorf("must not exceed max_open_conns"))
	}
	return nil
}

func (v *Validator) validateEngine() error {
	e := v.cfg.Engine
	if e == nil {
		return fmt.Errorf("engine configuration is nil")
	}
	if e.ScenarioTimeout <= 0 {
		return NewValidationError("engine", "", "scenario_timeout", fmt.Errorf("must be positive"))
	}
	if e.AsyncActionTimeout <= 0 {
		return NewValidationError("engine", "", "async_action_timeout", fmt.Errorf("must be positive"))
	}
	if e.GracefulShutdownTimeout <= 0 {
		return NewValidationError("engine", "", "graceful_shutdown_timeout", fmt.Errorf("must be positive"))
	}
	return nil
}

func (v *Validator) validateGitSync() error {
	g := v.cfg.GitSync
	if g == nil || !g.Enabled {
		return nil
	}
	if g.RepoURL == "" {
		return NewValidationError("git_sync", "", "repo_url", fmt.Errorf("required when git_sync is enabled"))
	}
	if _, err := url.Parse(g.RepoURL); err != nil {
		return NewValidationError("git_sync", "", "repo_url", fmt.Errorf("not a valid URL: %w", err))
	}
	if g.LocalPath == "" {
		return NewValidationError("git_sync", "", "local_path", fmt.Errorf("required when git_sync is enabled"))
	}
	if g.PollInterval <= 0 {
		return NewValidationError("git_sync", "", "poll_interval", fmt.Errorf("must be positive"))
	}
	return nil
}
