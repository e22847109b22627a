package config

import "time"

// DatabaseConfig holds the Postgres connection settings used to build
// the pgx-backed ent client in pkg/database.
type DatabaseConfig struct {
	Host         string `yaml:"host" validate:"required"`
	Port         int    `yaml:"port" validate:"required"`
	User         string `yaml:"user" validate:"required"`
	Password     string `yaml:"password"`
	Database     string `yaml:"database" validate:"required"`
	SSLMode      string `yaml:"ssl_mode"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// DefaultDatabaseConfig returns the built-in connection pool defaults.
func DefaultDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Host:         "localhost",
		Port:         5432,
		User:         "scenariorunner",
		Database:     "scenariorunner",
		SSLMode:      "disable",
		MaxOpenConns: 25,
		MaxIdleConns: 5,
	}
}

// RedisConfig holds the go-redis connection settings backing the
// production KV cache (pkg/kvcache/rediskv).
type RedisConfig struct {
	Addr        string        `yaml:"addr" validate:"required"`
	Password    string        `yaml:"password"`
	DB          int           `yaml:"db"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

// DefaultRedisConfig returns the built-in Redis connection defaults.
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:        "localhost:6379",
		DB:          0,
		DialTimeout: 5 * time.Second,
	}
}
