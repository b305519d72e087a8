package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Push provider kinds accepted in PushConfig.Provider.
const (
	ProviderWebSocket = "websocket"
	ProviderSpool     = "spool"
)

// StoreConfig holds local persistence settings.
type StoreConfig struct {
	// Path is the SQLite database file.
	Path string `mapstructure:"path" yaml:"path"`
}

// PushConfig selects and configures the push provider.
type PushConfig struct {
	// Provider is "websocket" or "spool".
	Provider string `mapstructure:"provider" yaml:"provider"`

	// URL is the relay endpoint used by the websocket provider.
	URL string `mapstructure:"url" yaml:"url"`

	// SpoolDir is the drop directory watched by the spool provider.
	SpoolDir string `mapstructure:"spool_dir" yaml:"spool_dir"`

	// DeviceID identifies this installation to the relay. Generated on
	// first run when empty.
	DeviceID string `mapstructure:"device_id" yaml:"device_id"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	TimeFormat string `mapstructure:"time_format" yaml:"time_format"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	Push    PushConfig    `mapstructure:"push" yaml:"push"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/noticeboard/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "noticeboard")
}

func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "noticeboard")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Store: StoreConfig{
			Path: filepath.Join(dataDir(), "notices.db"),
		},
		Push: PushConfig{
			Provider: ProviderSpool,
			SpoolDir: filepath.Join(dataDir(), "spool"),
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dataDir(), "noticeboard.log"),
		},
		Display: DisplayConfig{
			TimeFormat: DefaultTimeFormat,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	defaults := defaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("store.path", defaults.Store.Path)
	v.SetDefault("push.provider", defaults.Push.Provider)
	v.SetDefault("push.spool_dir", defaults.Push.SpoolDir)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.file", defaults.Log.File)
	v.SetDefault("display.time_format", defaults.Display.TimeFormat)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaults, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	switch cfg.Push.Provider {
	case ProviderWebSocket, ProviderSpool:
	default:
		return nil, fmt.Errorf("parsing config %s: unknown push provider %q", path, cfg.Push.Provider)
	}
	if cfg.Push.Provider == ProviderWebSocket && cfg.Push.URL == "" {
		return nil, fmt.Errorf("parsing config %s: push.url is required for the websocket provider", path)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("store", cfg.Store)
	v.Set("push", cfg.Push)
	v.Set("log", cfg.Log)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
