// Package config loads runtime configuration for ls-obstars.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// EmissionConfig controls the heatmap color range.
type EmissionConfig struct {
	ZMin float64 `mapstructure:"zmin"`
	ZMax float64 `mapstructure:"zmax"`
}

// ObserverConfig is the site used for nighttime fraction estimates.
type ObserverConfig struct {
	Name string  `mapstructure:"name"`
	Lat  float64 `mapstructure:"lat"`
	Lon  float64 `mapstructure:"lon"`
}

// NightConfig selects the dates sampled for the nighttime fraction panel.
type NightConfig struct {
	Start    string `mapstructure:"start"` // YYYY-MM-DD, UTC
	Samples  int    `mapstructure:"samples"`
	StepDays int    `mapstructure:"step_days"`
}

// Config holds all runtime configuration.
// Values are populated from .ls-obstars.yaml, OBSTARS_* env vars, and CLI flags.
type Config struct {
	DataDir       string         `mapstructure:"data_dir"`
	DataURL       string         `mapstructure:"data_url"`
	CatalogFile   string         `mapstructure:"catalog_file"`
	EmissionFile  string         `mapstructure:"emission_file"`
	NighttimeFile string         `mapstructure:"nighttime_file"`
	SpectraDir    string         `mapstructure:"spectra_dir"`
	Timeout       time.Duration  `mapstructure:"timeout"`
	LogLevel      string         `mapstructure:"log_level"`
	LogFile       string         `mapstructure:"log_file"`
	Listen        string         `mapstructure:"listen"`
	Watch         bool           `mapstructure:"watch"`
	Continuum     string         `mapstructure:"continuum"`
	Emission      EmissionConfig `mapstructure:"emission"`
	Observer      ObserverConfig `mapstructure:"observer"`
	Night         NightConfig    `mapstructure:"night"`
}

// Continuum modes.
const (
	ContinuumChebyshev = "chebyshev"
	ContinuumNone      = "none"
)

// SetDefaults registers built-in defaults with viper.
func SetDefaults() {
	viper.SetDefault("data_dir", "static/data")
	viper.SetDefault("data_url", "")
	viper.SetDefault("catalog_file", "plot_data.json")
	viper.SetDefault("emission_file", "integrated_h2_map.json")
	viper.SetDefault("nighttime_file", "nighttime_frac.json")
	viper.SetDefault("spectra_dir", "spectra")
	viper.SetDefault("timeout", 30*time.Second)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_file", "")
	viper.SetDefault("listen", ":8080")
	viper.SetDefault("watch", false)
	viper.SetDefault("continuum", ContinuumChebyshev)
	viper.SetDefault("emission.zmin", 0.0)
	viper.SetDefault("emission.zmax", 5e5)
	viper.SetDefault("observer.name", "White Sands")
	viper.SetDefault("observer.lat", 32.50)
	viper.SetDefault("observer.lon", -106.61)
	viper.SetDefault("night.start", "2026-11-01")
	viper.SetDefault("night.samples", 6)
	viper.SetDefault("night.step_days", 24)
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	SetDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.CatalogFile == "" {
		return fmt.Errorf("config: catalog_file must not be empty")
	}
	if c.DataDir == "" && c.DataURL == "" {
		return fmt.Errorf("config: one of data_dir or data_url is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive, got %v", c.Timeout)
	}
	if c.Emission.ZMax <= c.Emission.ZMin {
		return fmt.Errorf("config: emission.zmax (%g) must exceed emission.zmin (%g)", c.Emission.ZMax, c.Emission.ZMin)
	}
	if c.Observer.Lat < -90 || c.Observer.Lat > 90 {
		return fmt.Errorf("config: observer.lat %g out of range [-90, 90]", c.Observer.Lat)
	}
	if c.Observer.Lon < -180 || c.Observer.Lon > 360 {
		return fmt.Errorf("config: observer.lon %g out of range", c.Observer.Lon)
	}
	if c.Night.Samples < 1 {
		return fmt.Errorf("config: night.samples must be at least 1")
	}
	if c.Night.StepDays < 1 {
		return fmt.Errorf("config: night.step_days must be at least 1")
	}
	if _, err := c.NightStart(); err != nil {
		return err
	}
	switch c.Continuum {
	case ContinuumChebyshev, ContinuumNone:
	default:
		return fmt.Errorf("config: unknown continuum mode %q", c.Continuum)
	}
	return nil
}

// NightStart parses Night.Start as a UTC date.
func (c Config) NightStart() (time.Time, error) {
	t, err := time.Parse("2006-01-02", c.Night.Start)
	if err != nil {
		return time.Time{}, fmt.Errorf("config: night.start: %w", err)
	}
	return t.UTC(), nil
}

// NightDates returns the dates sampled for the nighttime fraction panel.
func (c Config) NightDates() []time.Time {
	start, err := c.NightStart()
	if err != nil {
		return nil
	}
	dates := make([]time.Time, c.Night.Samples)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i*c.Night.StepDays)
	}
	return dates
}
