package config

import "time"

// HTTPConfig holds the gin HTTP facade's listen address and timeouts.
type HTTPConfig struct {
	Addr         string        `yaml:"addr" validate:"required"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DefaultHTTPConfig returns the built-in HTTP server defaults.
func DefaultHTTPConfig() *HTTPConfig {
	return &HTTPConfig{
		Addr:         ":8080",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// GitSyncConfig holds the optional go-git mirror settings for pulling
// per-tenant scenario configuration from a remote repository before the
// loader reads it. Disabled unless Enabled is true; RepoURL is then
// required.
type GitSyncConfig struct {
	Enabled      bool          `yaml:"enabled"`
	RepoURL      string        `yaml:"repo_url"`
	Branch       string        `yaml:"branch"`
	LocalPath    string        `yaml:"local_path"`
	TokenEnv     string        `yaml:"token_env"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// DefaultGitSyncConfig returns the built-in (disabled) git-mirror defaults.
func DefaultGitSyncConfig() *GitSyncConfig {
	return &GitSyncConfig{
		Enabled:      false,
		Branch:       "main",
		LocalPath:    "./scenarios",
		PollInterval: 5 * time.Minute,
	}
}
