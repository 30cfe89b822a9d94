package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Spread   SpreadConfig   `mapstructure:"spread"`
	Map      MapConfig      `mapstructure:"map"`
	Distance DistanceConfig `mapstructure:"distance"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
}

// SpreadConfig bounds the start-position optimizer
type SpreadConfig struct {
	MaxParticipants int `mapstructure:"max_participants"`
	MinHumans       int `mapstructure:"min_humans"`
}

// MapConfig holds map generation settings
type MapConfig struct {
	Width             int     `mapstructure:"width"`
	Height            int     `mapstructure:"height"`
	MinStartSpacing   int     `mapstructure:"min_start_spacing"`
	MountainThreshold float64 `mapstructure:"mountain_threshold"`
	MountainFrequency float64 `mapstructure:"mountain_frequency"`
	Seed              int64   `mapstructure:"seed"`
}

// DistanceConfig selects the distance oracle for generated maps
type DistanceConfig struct {
	Metric string `mapstructure:"metric"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds gRPC server configuration
type ServerConfig struct {
	Host                  string `mapstructure:"host"`
	Port                  int    `mapstructure:"port"`
	EnableReflection      bool   `mapstructure:"enable_reflection"`
	GracefulShutdownDelay int    `mapstructure:"graceful_shutdown_delay"`
}

// StoreConfig selects where rebalance runs are recorded
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// Distance metrics
const (
	MetricManhattan = "manhattan"
	MetricPath      = "path"
)

// Store drivers
const (
	DriverNone     = "none"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

func setViperDefaults(v *viper.Viper) {
	v.SetDefault("spread.max_participants", 12)
	v.SetDefault("spread.min_humans", 2)

	v.SetDefault("map.width", 20)
	v.SetDefault("map.height", 15)
	v.SetDefault("map.min_start_spacing", 5)
	v.SetDefault("map.mountain_threshold", 0.72)
	v.SetDefault("map.mountain_frequency", 0.15)
	v.SetDefault("map.seed", 0)

	v.SetDefault("distance.metric", MetricManhattan)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 50061)
	v.SetDefault("server.enable_reflection", true)
	v.SetDefault("server.graceful_shutdown_delay", 2)

	v.SetDefault("store.driver", DriverNone)
	v.SetDefault("store.dsn", "")
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/spreadstarts")
	}

	v.SetEnvPrefix("SPREAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing explicit file falls back to defaults, like a missing default file
		var notFound viper.ConfigFileNotFoundError
		if configPath == "" && !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig merges config.<env>.yaml from the working directory
// over the loaded config. A missing overlay file is not an error.
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("config.%s.yaml", env)
	if _, err := os.Stat(envFile); err != nil {
		return nil
	}

	base := v.ConfigFileUsed()
	v.SetConfigFile(envFile)
	err := v.MergeInConfig()
	if base != "" {
		v.SetConfigFile(base)
	}
	if err != nil {
		return fmt.Errorf("error merging environment config %s: %w", envFile, err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode merged config into struct: %w", err)
	}
	return Validate(cfg)
}

// Set allows runtime config updates
func Set(key string, value interface{}) {
	v.Set(key, value)
	_ = v.Unmarshal(cfg)
}

func GetString(key string) string {
	return v.GetString(key)
}

func GetInt(key string) int {
	return v.GetInt(key)
}

func GetBool(key string) bool {
	return v.GetBool(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. Reloads that fail
// validation are dropped and the previous values stay in effect.
func WatchConfig(onChange func()) {
	if _, err := os.Stat(v.ConfigFileUsed()); err != nil {
		return
	}
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		next := &Config{}
		if err := v.Unmarshal(next); err != nil {
			return
		}
		if err := Validate(next); err != nil {
			return
		}
		*cfg = *next
		if onChange != nil {
			onChange()
		}
	})
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if c.Spread.MinHumans < 2 {
		return fmt.Errorf("spread.min_humans must be at least 2")
	}
	if c.Spread.MaxParticipants < c.Spread.MinHumans {
		return fmt.Errorf("spread.max_participants must be at least spread.min_humans")
	}

	if c.Map.Width <= 0 || c.Map.Height <= 0 {
		return fmt.Errorf("map dimensions must be positive")
	}
	if c.Map.MinStartSpacing < 1 {
		return fmt.Errorf("map.min_start_spacing must be at least 1")
	}
	if c.Map.MountainThreshold < 0 || c.Map.MountainThreshold > 1 {
		return fmt.Errorf("map.mountain_threshold must be between 0 and 1")
	}
	if c.Map.MountainFrequency <= 0 {
		return fmt.Errorf("map.mountain_frequency must be positive")
	}

	switch c.Distance.Metric {
	case MetricManhattan, MetricPath:
	default:
		return fmt.Errorf("distance.metric must be %q or %q, got %q", MetricManhattan, MetricPath, c.Distance.Metric)
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Server.GracefulShutdownDelay < 0 {
		return fmt.Errorf("server.graceful_shutdown_delay must be non-negative")
	}

	switch c.Store.Driver {
	case DriverNone:
	case DriverSQLite, DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for driver %s", c.Store.Driver)
		}
	default:
		return fmt.Errorf("store.driver must be none, sqlite or postgres, got %q", c.Store.Driver)
	}

	return nil
}
