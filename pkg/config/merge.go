package config

import "dario.cat/mergo"

// mergeDefaults merges user-supplied defaults over the built-in ones.
// Non-zero fields in user win; unset fields keep the built-in value.
func mergeDefaults(builtin *Defaults, user *Defaults) (*Defaults, error) {
	result := *builtin
	if user == nil {
		return &result, nil
	}
	if err := mergo.Merge(&result, user, mergo.WithOverride); err != nil {
		return nil, err
	}
	return &result, nil
}

func mergeEngine(builtin *EngineConfig, user *EngineConfig) (*EngineConfig, error) {
	result := *builtin
	if user == nil {
		return &result, nil
	}
	if err := mergo.Merge(&result, user, mergo.WithOverride); err != nil {
		return nil, err
	}
	return &result, nil
}

func mergeDatabase(builtin *DatabaseConfig, user *DatabaseConfig) (*DatabaseConfig, error) {
	result := *builtin
	if user == nil {
		return &result, nil
	}
	if err := mergo.Merge(&result, user, mergo.WithOverride); err != nil {
		return nil, err
	}
	return &result, nil
}

func mergeRedis(builtin *RedisConfig, user *RedisConfig) (*RedisConfig, error) {
	result := *builtin
	if user == nil {
		return &result, nil
	}
	if err := mergo.Merge(&result, user, mergo.WithOverride); err != nil {
		return nil, err
	}
	return &result, nil
}

func mergeHTTP(builtin *HTTPConfig, user *HTTPConfig) (*HTTPConfig, error) {
	result := *builtin
	if user == nil {
		return &result, nil
	}
	if err := mergo.Merge(&result, user, mergo.WithOverride); err != nil {
		return nil, err
	}
	return &result, nil
}

func mergeGitSync(builtin *GitSyncConfig, user *GitSyncConfig) (*GitSyncConfig, error) {
	result := *builtin
	if user == nil {
		return &result, nil
	}
	if err := mergo.Merge(&result, user, mergo.WithOverride); err != nil {
		return nil, err
	}
	return &result, nil
}
