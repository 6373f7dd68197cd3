// Package config provides configuration management for the cfgtool CLI and
// any long-running host process embedding the CFG engine.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/dynguide/cfg-engine/pkg/telemetry"
)

// Config holds all configuration for the application.
type Config struct {
	Engine    EngineConfig     `mapstructure:"engine"`
	Loader    LoaderConfig     `mapstructure:"loader"`
	Log       LogConfig        `mapstructure:"log"`
	Telemetry telemetry.Config `mapstructure:"telemetry"`
}

// EngineConfig holds CFG-engine-level configuration.
type EngineConfig struct {
	// Aggregator selects the score aggregation policy: "harmonic" (default),
	// "greedy", or "coverage".
	Aggregator string `mapstructure:"aggregator"`
	// StopWhenUnchanged enables the optional propagation short-circuit:
	// reverse BFS stops fanning out past a node whose score did not change.
	StopWhenUnchanged bool `mapstructure:"stop_when_unchanged"`
}

// LoaderConfig holds construction-payload loader configuration.
type LoaderConfig struct {
	Source    string `mapstructure:"source"` // "local" or "cos"
	LocalPath string `mapstructure:"local_path"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	SecretID  string `mapstructure:"secret_id"`
	SecretKey string `mapstructure:"secret_key"`
	Domain    string `mapstructure:"domain"`
	Scheme    string `mapstructure:"scheme"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"` // json or text
}

// Load reads configuration from the specified file path.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/cfgtool")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("Config file not found, using defaults")
		} else if os.IsNotExist(err) {
			fmt.Printf("Config file %s not found, using defaults\n", configPath)
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadFromReader loads configuration from an io.Reader (useful for testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("engine.aggregator", "harmonic")
	v.SetDefault("engine.stop_when_unchanged", false)

	v.SetDefault("loader.source", "local")
	v.SetDefault("loader.local_path", "./cfg-data")
	v.SetDefault("loader.scheme", "https")
	v.SetDefault("loader.domain", "myqcloud.com")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.output_path", "")
	v.SetDefault("log.format", "text")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "cfg-engine")
	v.SetDefault("telemetry.service_version", "unknown")
	v.SetDefault("telemetry.protocol", "grpc")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Engine.Aggregator {
	case "harmonic", "greedy", "coverage":
	default:
		return fmt.Errorf("unsupported aggregator: %s", c.Engine.Aggregator)
	}

	switch c.Loader.Source {
	case "local":
		if c.Loader.LocalPath == "" {
			return fmt.Errorf("loader local_path is required for local source")
		}
	case "cos":
		if c.Loader.Bucket == "" || c.Loader.Region == "" {
			return fmt.Errorf("loader bucket and region are required for cos source")
		}
	default:
		return fmt.Errorf("unsupported loader source: %s", c.Loader.Source)
	}

	return nil
}
