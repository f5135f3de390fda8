package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/kumarlokesh/anu-converter/internal/tables"
)

// EnvPrefix prefixes environment overrides, e.g. ANUCONV_SERVER_PORT.
const EnvPrefix = "ANUCONV"

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Tables  TablesConfig  `mapstructure:"tables"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig holds server related configuration
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StorageConfig says where mapping assets come from
type StorageConfig struct {
	Type string `mapstructure:"type"`
	Dir  string `mapstructure:"dir"`
}

// TablesConfig holds table selection defaults
type TablesConfig struct {
	Version   string `mapstructure:"version"`
	Direction string `mapstructure:"direction"`
	Preload   bool   `mapstructure:"preload"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Storage backends
const (
	StorageMemory     = "memory"
	StorageFilesystem = "filesystem"
)

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.max_body_bytes", 4<<20) // 4MB
	v.SetDefault("server.shutdown_timeout", "5s")

	v.SetDefault("storage.type", StorageFilesystem)
	v.SetDefault("storage.dir", "./maps")

	v.SetDefault("tables.version", "anu7")
	v.SetDefault("tables.direction", "anu_to_unicode")
	v.SetDefault("tables.preload", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid max body size: %d", c.Server.MaxBodyBytes)
	}

	switch c.Storage.Type {
	case StorageMemory:
	case StorageFilesystem:
		if c.Storage.Dir == "" {
			return errors.New("storage dir is required for filesystem storage")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}

	if _, err := c.DefaultSelection(); err != nil {
		return err
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}

	return nil
}

// DefaultSelection returns the configured default table.
func (c *Config) DefaultSelection() (tables.Selection, error) {
	return tables.ParseSelection(c.Tables.Version, c.Tables.Direction)
}

// Addr returns the host:port the server listens on
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetConfigPath returns the path to the first config file found, or an
// error if there is none
func GetConfigPath() (string, error) {
	// Look for config in the following locations:
	// 1. Current directory
	// 2. ./configs/
	// 3. /etc/anu-converter/

	configName := "config"
	configType := "yaml"
	configPaths := []string{
		".",
		"./configs",
		"/etc/anu-converter",
	}

	for _, path := range configPaths {
		configPath := filepath.Join(path, configName+"."+configType)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", fmt.Errorf("config file not found in any of the default locations")
}
