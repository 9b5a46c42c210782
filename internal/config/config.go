// Package config provides configuration management for focus.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/xvierd/focus/internal/domain"
	"github.com/xvierd/focus/internal/logger"
	"github.com/xvierd/focus/internal/services"
)

const (
	defaultDataDir = "~/.focus"
	configFileName = "config.toml"
	dbFileName     = "focus.db"
	logFileName    = "focus.log"
)

// Config holds all configuration for the focus application.
type Config struct {
	Timer         TimerConfig          `mapstructure:"timer"`
	Notifications NotificationConfig   `mapstructure:"notifications"`
	Sensors       SensorConfig         `mapstructure:"sensors"`
	History       HistoryConfig        `mapstructure:"history"`
	Storage       StorageConfig        `mapstructure:"storage"`
	Logging       logger.LoggingConfig `mapstructure:"logging"`
}

// TimerConfig seeds the settings store the first time it is opened.
type TimerConfig struct {
	WorkDuration Duration `mapstructure:"work_duration"`
	ShortBreak   Duration `mapstructure:"short_break"`
	LongBreak    Duration `mapstructure:"long_break"`
	CycleLength  int      `mapstructure:"cycle_length"`
	WeekStart    string   `mapstructure:"week_start"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
}

// SensorConfig holds the face-down polling cadence.
type SensorConfig struct {
	WarmupPolls    int      `mapstructure:"warmup_polls"`
	WarmupInterval Duration `mapstructure:"warmup_interval"`
	SteadyInterval Duration `mapstructure:"steady_interval"`
	SampleTimeout  Duration `mapstructure:"sample_timeout"`
}

// HistoryConfig holds the "on this day" feed settings.
type HistoryConfig struct {
	BaseURL        string   `mapstructure:"base_url"`
	Language       string   `mapstructure:"language"`
	CacheTTL       Duration `mapstructure:"cache_ttl"`
	RefreshTimeout Duration `mapstructure:"refresh_timeout"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	cadence := services.DefaultOrientationCadence()
	history := services.DefaultHistoryConfig()
	return &Config{
		Timer: TimerConfig{
			WorkDuration: Duration(25 * time.Minute),
			ShortBreak:   Duration(5 * time.Minute),
			LongBreak:    Duration(15 * time.Minute),
			CycleLength:  4,
			WeekStart:    "monday",
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   true,
		},
		Sensors: SensorConfig{
			WarmupPolls:    cadence.WarmupPolls,
			WarmupInterval: Duration(cadence.WarmupInterval),
			SteadyInterval: Duration(cadence.SteadyInterval),
			SampleTimeout:  Duration(cadence.SampleTimeout),
		},
		History: HistoryConfig{
			BaseURL:        "https://api.wikimedia.org",
			Language:       "en",
			CacheTTL:       Duration(history.CacheTTL),
			RefreshTimeout: Duration(history.RefreshTimeout),
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir,
		},
		Logging: logger.LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads the configuration from ~/.focus/config.toml, creating it with
// defaults on first run.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from the given TOML file.
func LoadFrom(configPath string) (*Config, error) {
	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	setDefaults(v)

	// If config file doesn't exist, create it with defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveTo(configPath, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	dataDir, err := expandHome(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}
	cfg.Storage.DataDir = dataDir

	// The TUI owns the terminal, so logs go to a file unless configured otherwise.
	if cfg.Logging.OutputPath == "" {
		cfg.Logging.OutputPath = filepath.Join(dataDir, logFileName)
	}

	return &cfg, nil
}

// Save saves the configuration to ~/.focus/config.toml.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveTo(configPath, cfg)
}

// SaveTo writes cfg to the given TOML file.
func SaveTo(configPath string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	v.Set("timer.work_duration", cfg.Timer.WorkDuration.String())
	v.Set("timer.short_break", cfg.Timer.ShortBreak.String())
	v.Set("timer.long_break", cfg.Timer.LongBreak.String())
	v.Set("timer.cycle_length", cfg.Timer.CycleLength)
	v.Set("timer.week_start", cfg.Timer.WeekStart)
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("notifications.sound", cfg.Notifications.Sound)
	v.Set("sensors.warmup_polls", cfg.Sensors.WarmupPolls)
	v.Set("sensors.warmup_interval", cfg.Sensors.WarmupInterval.String())
	v.Set("sensors.steady_interval", cfg.Sensors.SteadyInterval.String())
	v.Set("sensors.sample_timeout", cfg.Sensors.SampleTimeout.String())
	v.Set("history.base_url", cfg.History.BaseURL)
	v.Set("history.language", cfg.History.Language)
	v.Set("history.cache_ttl", cfg.History.CacheTTL.String())
	v.Set("history.refresh_timeout", cfg.History.RefreshTimeout.String())
	v.Set("storage.data_dir", cfg.Storage.DataDir)
	v.Set("logging.level", cfg.Logging.Level)
	v.Set("logging.format", cfg.Logging.Format)
	v.Set("logging.output_path", cfg.Logging.OutputPath)

	return v.WriteConfigAs(configPath)
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".focus", configFileName), nil
}

// GetDBPath returns the path to the database file.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, dbFileName)
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("timer.work_duration", d.Timer.WorkDuration.String())
	v.SetDefault("timer.short_break", d.Timer.ShortBreak.String())
	v.SetDefault("timer.long_break", d.Timer.LongBreak.String())
	v.SetDefault("timer.cycle_length", d.Timer.CycleLength)
	v.SetDefault("timer.week_start", d.Timer.WeekStart)
	v.SetDefault("notifications.enabled", d.Notifications.Enabled)
	v.SetDefault("notifications.sound", d.Notifications.Sound)
	v.SetDefault("sensors.warmup_polls", d.Sensors.WarmupPolls)
	v.SetDefault("sensors.warmup_interval", d.Sensors.WarmupInterval.String())
	v.SetDefault("sensors.steady_interval", d.Sensors.SteadyInterval.String())
	v.SetDefault("sensors.sample_timeout", d.Sensors.SampleTimeout.String())
	v.SetDefault("history.base_url", d.History.BaseURL)
	v.SetDefault("history.language", d.History.Language)
	v.SetDefault("history.cache_ttl", d.History.CacheTTL.String())
	v.SetDefault("history.refresh_timeout", d.History.RefreshTimeout.String())
	v.SetDefault("storage.data_dir", d.Storage.DataDir)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output_path", "")
}

func expandHome(dir string) (string, error) {
	if dir == "" {
		dir = defaultDataDir
	}
	if dir != "~" && !strings.HasPrefix(dir, "~/") {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(dir, "~")), nil
}

// ToSettings converts the timer section into the settings used to seed an
// empty store. Durations are rounded down to whole minutes.
func (c *Config) ToSettings() domain.Settings {
	return domain.Settings{
		WorkMinutes:          int(time.Duration(c.Timer.WorkDuration) / time.Minute),
		ShortBreakMinutes:    int(time.Duration(c.Timer.ShortBreak) / time.Minute),
		LongBreakMinutes:     int(time.Duration(c.Timer.LongBreak) / time.Minute),
		CycleLength:          c.Timer.CycleLength,
		NotificationsEnabled: c.Notifications.Enabled,
	}
}

// WeekStart parses timer.week_start. Anything other than "sunday" means Monday.
func (c *Config) WeekStart() time.Weekday {
	if strings.EqualFold(strings.TrimSpace(c.Timer.WeekStart), "sunday") {
		return time.Sunday
	}
	return time.Monday
}

// OrientationCadence returns the face-down polling cadence, falling back to
// defaults for unset values.
func (c *Config) OrientationCadence() services.OrientationCadence {
	cadence := services.DefaultOrientationCadence()
	if c.Sensors.WarmupPolls > 0 {
		cadence.WarmupPolls = c.Sensors.WarmupPolls
	}
	if c.Sensors.WarmupInterval > 0 {
		cadence.WarmupInterval = time.Duration(c.Sensors.WarmupInterval)
	}
	if c.Sensors.SteadyInterval > 0 {
		cadence.SteadyInterval = time.Duration(c.Sensors.SteadyInterval)
	}
	if c.Sensors.SampleTimeout > 0 {
		cadence.SampleTimeout = time.Duration(c.Sensors.SampleTimeout)
	}
	return cadence
}

// HistoryServiceConfig returns the cache and timeout settings for the history service.
func (c *Config) HistoryServiceConfig() services.HistoryConfig {
	cfg := services.DefaultHistoryConfig()
	if c.History.CacheTTL > 0 {
		cfg.CacheTTL = time.Duration(c.History.CacheTTL)
	}
	if c.History.RefreshTimeout > 0 {
		cfg.RefreshTimeout = time.Duration(c.History.RefreshTimeout)
	}
	return cfg
}
