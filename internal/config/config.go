// Package config loads garden.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the default config location.
const EnvConfigPath = "GARDEN_CONFIG"

// Config represents garden.yaml.
type Config struct {
	Database   string         `yaml:"database"`
	CatalogDir string         `yaml:"catalog_dir"` // empty = embedded catalog
	Timezone   string         `yaml:"timezone"`
	Currency   string         `yaml:"currency"`
	Economy    EconomyConfig  `yaml:"economy"`
	Growth     GrowthConfig   `yaml:"growth"`
	Shop       ShopConfig     `yaml:"shop"`
	Timeouts   TimeoutsConfig `yaml:"timeouts"`
	Log        LogConfig      `yaml:"log"`
}

// EconomyConfig holds prices and payouts.
type EconomyConfig struct {
	DailyStipend        int     `yaml:"daily_stipend"`
	DefaultSeedling     string  `yaml:"default_seedling"`
	SeedlingCost        int     `yaml:"seedling_cost"`
	DiscoveryBonusRatio float64 `yaml:"discovery_bonus_ratio"`
	DavePlantPrice      int     `yaml:"dave_plant_price"`
	DaveRandomPlants    int     `yaml:"dave_random_plants"`
}

// GrowthConfig holds maturation settings.
type GrowthConfig struct {
	DefaultDurationMinutes int    `yaml:"default_duration_minutes"`
	TickSchedule           string `yaml:"tick_schedule"` // six-field cron, seconds first
}

// ShopConfig holds shop rotation settings.
type ShopConfig struct {
	PennyRefreshIntervalHours int `yaml:"penny_refresh_interval_hours"`
}

// TimeoutsConfig holds interactive timeouts in seconds.
type TimeoutsConfig struct {
	TradeSeconds         int `yaml:"trade_seconds"`
	FusionConfirmSeconds int `yaml:"fusion_confirm_seconds"`
}

// LogConfig holds operator logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Database: "~/.garden/garden.db",
		Timezone: "America/New_York",
		Currency: "sun",
		Economy: EconomyConfig{
			DailyStipend:        1000,
			DefaultSeedling:     "Seedling",
			SeedlingCost:        100,
			DiscoveryBonusRatio: 0.5,
			DavePlantPrice:      5000,
			DaveRandomPlants:    4,
		},
		Growth: GrowthConfig{
			DefaultDurationMinutes: 240,
			TickSchedule:           "1 * * * * *",
		},
		Shop:     ShopConfig{PennyRefreshIntervalHours: 1},
		Timeouts: TimeoutsConfig{TradeSeconds: 60, FusionConfirmSeconds: 60},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// DefaultPath returns ~/.garden/garden.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".garden", "garden.yaml"), nil
}

// ResolvePath picks the config file: the flag value, then $GARDEN_CONFIG,
// then the default path.
func ResolvePath(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env, nil
	}
	return DefaultPath()
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks ranges and that the timezone loads.
func (c *Config) Validate() error {
	var problems []string

	if h := c.Shop.PennyRefreshIntervalHours; h < 1 || h > 24 || 24%h != 0 {
		problems = append(problems, fmt.Sprintf("shop.penny_refresh_interval_hours must divide 24, got %d", h))
	}
	if c.Growth.DefaultDurationMinutes <= 0 {
		problems = append(problems, "growth.default_duration_minutes must be positive")
	}
	if c.Growth.TickSchedule != "" {
		parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		if _, err := parser.Parse(c.Growth.TickSchedule); err != nil {
			problems = append(problems, fmt.Sprintf("growth.tick_schedule: %v", err))
		}
	}
	if c.Timeouts.TradeSeconds <= 0 || c.Timeouts.FusionConfirmSeconds <= 0 {
		problems = append(problems, "timeouts must be positive")
	}
	if c.Economy.SeedlingCost < 0 || c.Economy.DailyStipend < 0 || c.Economy.DavePlantPrice < 0 {
		problems = append(problems, "economy prices must not be negative")
	}
	if c.Economy.DaveRandomPlants < 0 {
		problems = append(problems, "economy.dave_random_plants must not be negative")
	}
	if _, err := c.Location(); err != nil {
		problems = append(problems, err.Error())
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format must be text or json, got %q", c.Log.Format))
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// Location loads the configured timezone. Empty means UTC.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// TradeTimeout returns the trade acceptance window.
func (c *Config) TradeTimeout() time.Duration {
	return time.Duration(c.Timeouts.TradeSeconds) * time.Second
}

// FusionConfirmTimeout returns the fusion confirmation window.
func (c *Config) FusionConfirmTimeout() time.Duration {
	return time.Duration(c.Timeouts.FusionConfirmSeconds) * time.Second
}
