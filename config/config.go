/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes every environment variable the configuration reads.
const EnvPrefix = "ENTITYMETA"

// Sequence backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendDynamoDB = "dynamodb"
	BackendSQL      = "sql"
)

// Config is the runtime configuration of the entitymeta tooling.
type Config struct {
	LogLevel string         `mapstructure:"log_level"`
	Sequence SequenceConfig `mapstructure:"sequence"`
}

// SequenceConfig selects and configures the sequence store.
type SequenceConfig struct {
	Backend  string         `mapstructure:"backend"`
	Redis    RedisConfig    `mapstructure:"redis"`
	DynamoDB DynamoDBConfig `mapstructure:"dynamodb"`
	SQL      SQLConfig      `mapstructure:"sql"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type DynamoDBConfig struct {
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Table     string `mapstructure:"table"`
}

type SQLConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Table  string `mapstructure:"table"`
}

// Load reads the configuration. A .env file in the working directory is
// loaded into the environment first. Values come from, lowest precedence
// first: defaults, the YAML file at path (or entitymeta.yaml in the working
// directory when path is empty), ENTITYMETA_* environment variables.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("log_level", "info")
	v.SetDefault("sequence.backend", BackendMemory)
	v.SetDefault("sequence.redis.addr", "localhost:6379")
	v.SetDefault("sequence.redis.password", "")
	v.SetDefault("sequence.redis.db", 0)
	v.SetDefault("sequence.redis.prefix", "entitymeta:seq:")
	v.SetDefault("sequence.dynamodb.region", "us-east-1")
	v.SetDefault("sequence.dynamodb.table", "entitymeta-sequences")
	v.SetDefault("sequence.sql.driver", "pgx")
	v.SetDefault("sequence.sql.dsn", "")
	v.SetDefault("sequence.sql.table", "entitymeta_sequences")

	// the AWS_* names are the ones the DynamoDB tooling already uses
	for key, fallback := range map[string]string{
		"sequence.dynamodb.access_key": "AWS_ACCESS_KEY",
		"sequence.dynamodb.secret_key": "AWS_SECRET_KEY",
		"sequence.dynamodb.region":     "AWS_REGION",
		"sequence.dynamodb.table":      "AWS_DDB_TABLE",
	} {
		if err := v.BindEnv(key, envName(key), fallback); err != nil {
			return nil, err
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("entitymeta")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields the selected backend needs.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	s := c.Sequence
	switch s.Backend {
	case BackendMemory:
	case BackendRedis:
		if s.Redis.Addr == "" {
			return fmt.Errorf("sequence.redis.addr is required for the redis backend")
		}
	case BackendDynamoDB:
		if s.DynamoDB.Table == "" || s.DynamoDB.Region == "" {
			return fmt.Errorf("sequence.dynamodb.table and sequence.dynamodb.region are required for the dynamodb backend")
		}
	case BackendSQL:
		if s.SQL.DSN == "" {
			return fmt.Errorf("sequence.sql.dsn is required for the sql backend")
		}
	default:
		return fmt.Errorf("unknown sequence backend %q", s.Backend)
	}
	return nil
}

// Logger builds a production zap logger at the configured level.
func (c *Config) Logger() (*zap.Logger, error) {
	lvl, err := parseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

func parseLevel(s string) (zapcore.Level, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return lvl, fmt.Errorf("invalid log_level %q: %w", s, err)
	}
	return lvl, nil
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
