// Package config loads server configuration from an optional YAML file and
// BIZCONSOLE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

type Configuration struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Logging   LoggingConfig   `mapstructure:"logging" validate:"required"`
	Storage   StorageConfig   `mapstructure:"storage" validate:"required"`
	Numbering NumberingConfig `mapstructure:"numbering" validate:"required"`
	PDF       PDFConfig       `mapstructure:"pdf"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address" validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

type LoggingConfig struct {
	Level       string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Development bool   `mapstructure:"development"`
}

type StorageConfig struct {
	Backend  string         `mapstructure:"backend" validate:"oneof=memory file postgres"`
	File     FileConfig     `mapstructure:"file"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type FileConfig struct {
	Dir string `mapstructure:"dir"`
}

type PostgresConfig struct {
	DSN               string `mapstructure:"dsn"`
	MaxConns          int32  `mapstructure:"max_conns" validate:"gte=1"`
	CompressThreshold int    `mapstructure:"compress_threshold" validate:"gte=0"`
}

type NumberingConfig struct {
	Strategy  string `mapstructure:"strategy" validate:"oneof=strict cached"`
	RangeSize int64  `mapstructure:"range_size" validate:"gte=1"`
}

type PDFConfig struct {
	Company string `mapstructure:"company"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", false)
	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.file.dir", "./data")
	v.SetDefault("storage.postgres.dsn", "")
	v.SetDefault("storage.postgres.max_conns", 10)
	v.SetDefault("storage.postgres.compress_threshold", 10*1024)
	v.SetDefault("numbering.strategy", "strict")
	v.SetDefault("numbering.range_size", 50)
	v.SetDefault("pdf.company", "")
}

// NewConfig reads configuration. When configFile is empty, config.yaml is
// looked up in the usual places and its absence is not an error.
func NewConfig(configFile string) (*Configuration, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/bizconsole")
	}

	v.SetEnvPrefix("BIZCONSOLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	config.Storage.Backend = strings.ToLower(strings.TrimSpace(config.Storage.Backend))
	config.Numbering.Strategy = strings.ToLower(strings.TrimSpace(config.Numbering.Strategy))

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks field constraints and backend-specific requirements.
func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.File.Dir == "" {
			return errors.New("invalid config: storage.file.dir is required for the file backend")
		}
	case BackendPostgres:
		if c.Storage.Postgres.DSN == "" {
			return errors.New("invalid config: storage.postgres.dsn is required for the postgres backend")
		}
	}
	return nil
}

// GetDefaultConfig returns an in-memory configuration for local tools and tests.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Server: ServerConfig{
			Address:         ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{Level: "debug", Development: true},
		Storage: StorageConfig{
			Backend:  BackendMemory,
			File:     FileConfig{Dir: "./data"},
			Postgres: PostgresConfig{MaxConns: 10, CompressThreshold: 10 * 1024},
		},
		Numbering: NumberingConfig{Strategy: "strict", RangeSize: 50},
	}
}
