// SPDX-License-Identifier: MIT

// Package config loads process settings from .env, an optional YAML file and
// the environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/lca/allocation"
	"github.com/katalvlaran/lca/analysis"
	"github.com/katalvlaran/lca/assemble"
	"github.com/katalvlaran/lca/core"
	"github.com/katalvlaran/lca/units"
)

// Environment keys.
const (
	EnvPort              = "PORT"
	EnvDebug             = "DEBUG"
	EnvDatabaseURL       = "DATABASE_URL"
	EnvDataset           = "LCA_DATASET"
	EnvConfigFile        = "LCA_CONFIG"
	EnvDefaultCategory   = "LCA_DEFAULT_CATEGORY"
	EnvNonProductColumns = "LCA_NON_PRODUCT_COLUMNS"
	EnvZeroEpsilon       = "LCA_ZERO_EPSILON"
)

// ErrInvalid is returned when the merged settings fail validation.
var ErrInvalid = errors.New("config: invalid settings")

// Config holds every runtime setting.
type Config struct {
	Port        int    `yaml:"port" validate:"min=1,max=65535"`
	Debug       bool   `yaml:"debug"`
	DatabaseURL string `yaml:"database_url"`
	// Dataset is a YAML dataset file; used when DatabaseURL is empty.
	Dataset string `yaml:"dataset" validate:"required_without=DatabaseURL"`

	DefaultCategory   string  `yaml:"default_category" validate:"required"`
	NonProductColumns int     `yaml:"non_product_columns" validate:"min=0"`
	ZeroEpsilon       float64 `yaml:"zero_epsilon" validate:"min=0"`
	CacheSize         int     `yaml:"cache_size" validate:"min=0"`
	DryRatio          float64 `yaml:"dry_ratio" validate:"gt=0,lte=1"`
	RawInterventions  bool    `yaml:"raw_interventions"`

	// AllocationFactors maps a process ID to user-supplied allocation factors.
	AllocationFactors map[string][]float64 `yaml:"allocation_factors" validate:"omitempty,dive,keys,required,endkeys,min=1,dive,min=0"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Port:            8080,
		DefaultCategory: core.DefaultCategory,
		CacheSize:       analysis.DefaultCacheSize,
		DryRatio:        units.DefaultDryRatio,
	}
}

// Load reads .env (if present), the YAML file named by LCA_CONFIG (if set) and
// the environment, then validates the result.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: .env: %w", err)
	}
	c := Default()
	if path := GetEnv(EnvConfigFile); path != "" {
		if err := c.ReadFile(path); err != nil {
			return Config{}, err
		}
	}
	c.FromEnv()

	return c, c.Validate()
}

// ReadFile overlays the YAML document at path onto c.
func (c *Config) ReadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}

	return nil
}

// FromEnv overlays set environment variables onto c.
func (c *Config) FromEnv() {
	c.Port = GetEnvInt(EnvPort, c.Port)
	c.Debug = GetEnvBool(EnvDebug, c.Debug)
	c.DatabaseURL = GetEnvString(EnvDatabaseURL, c.DatabaseURL)
	c.Dataset = GetEnvString(EnvDataset, c.Dataset)
	c.DefaultCategory = GetEnvString(EnvDefaultCategory, c.DefaultCategory)
	c.NonProductColumns = GetEnvInt(EnvNonProductColumns, c.NonProductColumns)
	c.ZeroEpsilon = GetEnvNumeric(EnvZeroEpsilon, c.ZeroEpsilon)
}

var validate = validator.New()

// Validate checks ranges and that a data source is configured.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if math.IsInf(c.ZeroEpsilon, 0) {
		return fmt.Errorf("%w: zero_epsilon must be finite", ErrInvalid)
	}
	for id, fs := range c.AllocationFactors {
		for _, f := range fs {
			if math.IsInf(f, 0) {
				return fmt.Errorf("%w: allocation factor of %s must be finite", ErrInvalid, id)
			}
		}
	}

	return nil
}

// EngineOptions translates the settings into analysis options.
func (c Config) EngineOptions(l *log.Logger) []analysis.Option {
	aopts := []assemble.Option{assemble.WithNormalizerOptions(units.WithDryRatio(c.DryRatio))}
	if c.RawInterventions {
		aopts = append(aopts, assemble.WithRawInterventions())
	}
	var lopts []allocation.Option
	for id, f := range c.AllocationFactors {
		lopts = append(lopts, allocation.WithFactors(id, f...))
	}

	return []analysis.Option{
		analysis.WithDefaultCategory(c.DefaultCategory),
		analysis.WithNonProductColumns(c.NonProductColumns),
		analysis.WithEpsilon(c.ZeroEpsilon),
		analysis.WithCacheSize(c.CacheSize),
		analysis.WithAssembleOptions(aopts...),
		analysis.WithAllocationOptions(lopts...),
		analysis.WithLogger(l),
	}
}
