package config

import "time"

// Defaults holds system-wide defaults applied across tenants.
type Defaults struct {
	// MaxSystemTenantID marks tenants whose ID is at or below this
	// threshold as "system" tenants: the HTTP reload endpoint rejects them
	// with PERMISSION_DENIED. pkg/configsync applies no tenant check.
	MaxSystemTenantID int64 `yaml:"max_system_tenant_id"`

	// PlaceholderMaxNestingDepth bounds recursive placeholder resolution,
	// guarding against a step whose output feeds its own input.
	PlaceholderMaxNestingDepth int `yaml:"placeholder_max_nesting_depth" validate:"omitempty,min=1"`

	// DefaultActionTimeout is loaded with the defaults but is not read by
	// wait_for_action or delay; a step without its own timeout_seconds
	// waits without a deadline.
	DefaultActionTimeout time.Duration `yaml:"default_action_timeout"`
}

// DefaultDefaults returns the built-in defaults applied when a value is
// absent from the loaded YAML.
func DefaultDefaults() *Defaults {
	return &Defaults{
		MaxSystemTenantID:          0,
		PlaceholderMaxNestingDepth: 10,
		DefaultActionTimeout:       30 * time.Second,
	}
}
