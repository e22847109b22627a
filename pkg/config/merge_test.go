package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeEngine_UserOverridesPartially(t *testing.T) {
	builtin := DefaultEngineConfig()
	user := &EngineConfig{ScenarioTimeout: 5 * time.Second}

	merged, err := mergeEngine(builtin, user)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, merged.ScenarioTimeout)
	assert.Equal(t, builtin.AsyncActionTimeout, merged.AsyncActionTimeout, "unset fields keep the built-in value")
}

func TestMergeDatabase_NilUserReturnsBuiltin(t *testing.T) {
	builtin := DefaultDatabaseConfig()

	merged, err := mergeDatabase(builtin, nil)
	require.NoError(t, err)
	assert.Equal(t, *builtin, *merged)
}

func TestMergeGitSync_EnabledFlagOverrides(t *testing.T) {
	builtin := DefaultGitSyncConfig()
	user := &GitSyncConfig{Enabled: true, RepoURL: "https://example.com/scenarios.git"}

	merged, err := mergeGitSync(builtin, user)
	require.NoError(t, err)

	assert.True(t, merged.Enabled)
	assert.Equal(t, "https://example.com/scenarios.git", merged.RepoURL)
	assert.Equal(t, builtin.Branch, merged.Branch)
}
