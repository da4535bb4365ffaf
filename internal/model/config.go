package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// StorageConfig holds paths for the local database and evidence vault.
type StorageConfig struct {
	// DBPath is the location of the SQLite database file.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`

	// EvidenceDir is the directory the evidence vault stores uploads in.
	EvidenceDir string `mapstructure:"evidence_dir" yaml:"evidence_dir"`
}

// SignerConfig is the fallback signer identity used when no profile is
// stored in the system keyring.
type SignerConfig struct {
	Name  string `mapstructure:"name" yaml:"name"`
	Email string `mapstructure:"email" yaml:"email"`
	Role  string `mapstructure:"role" yaml:"role"`
}

// WatchConfig holds settings for the due date watcher.
type WatchConfig struct {
	// IntervalSec is how often (in seconds) open checklists are scanned.
	IntervalSec int `mapstructure:"interval_sec" yaml:"interval_sec"`

	// DueSoonHours is the look-ahead window for due-soon alerts.
	DueSoonHours int `mapstructure:"due_soon_hours" yaml:"due_soon_hours"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Signer  SignerConfig  `mapstructure:"signer" yaml:"signer"`
	Watch   WatchConfig   `mapstructure:"watch" yaml:"watch"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/obratrack/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "obratrack", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	dataDir := filepath.Join(".", "obratrack")
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".local", "share", "obratrack")
	}
	return &AppConfig{
		Storage: StorageConfig{
			DBPath:      filepath.Join(dataDir, "obratrack.db"),
			EvidenceDir: filepath.Join(dataDir, "evidence"),
		},
		Watch: WatchConfig{
			IntervalSec:  300,
			DueSoonHours: 48,
		},
		Display: DisplayConfig{
			Theme: "default",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	defaults := defaultAppConfig()

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("storage.db_path", defaults.Storage.DBPath)
	v.SetDefault("storage.evidence_dir", defaults.Storage.EvidenceDir)
	v.SetDefault("watch.interval_sec", defaults.Watch.IntervalSec)
	v.SetDefault("watch.due_soon_hours", defaults.Watch.DueSoonHours)
	v.SetDefault("display.theme", defaults.Display.Theme)

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

	if cfg.Watch.IntervalSec <= 0 {
		cfg.Watch.IntervalSec = defaults.Watch.IntervalSec
	}
	if cfg.Watch.DueSoonHours <= 0 {
		cfg.Watch.DueSoonHours = defaults.Watch.DueSoonHours
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

	v.Set("storage", cfg.Storage)
	v.Set("signer", cfg.Signer)
	v.Set("watch", cfg.Watch)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
