// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

type SchedulingConfig struct {
	// MaxDayScan bounds the day-advance search when placing a single match.
	MaxDayScan int `yaml:"max_day_scan"`
	// FinisherCron controls how often started leagues past their end date
	// are swept to finished.
	FinisherCron string `yaml:"finisher_cron"`
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
		BaseURL     string `yaml:"base_url"`
		Timezone    string `yaml:"timezone"`
	} `yaml:"app"`

	Database DatabaseConfig `yaml:"database"`

	Scheduling SchedulingConfig `yaml:"scheduling"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// Read and parse YAML config
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns a configuration suitable for local development when no
// config file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.App.Name = "canchas"
	cfg.App.Environment = "development"
	cfg.App.Port = 8080
	cfg.App.BaseURL = "http://localhost:8080"
	cfg.Database.Driver = "sqlite"
	cfg.Database.Filename = "data/canchas.db"
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.App.Timezone == "" {
		c.App.Timezone = "UTC"
	}
	if c.App.BaseURL == "" {
		c.App.BaseURL = fmt.Sprintf("http://localhost:%d", c.App.Port)
	}
	if c.Scheduling.MaxDayScan == 0 {
		c.Scheduling.MaxDayScan = 100
	}
	if c.Scheduling.FinisherCron == "" {
		c.Scheduling.FinisherCron = "*/30 * * * *"
	}
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.App.Timezone, err)
	}
	if c.Scheduling.MaxDayScan < 1 {
		return fmt.Errorf("scheduling max_day_scan must be positive")
	}

	return nil
}

// Location resolves the configured timezone. Validate guarantees this
// succeeds for a loaded config.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
