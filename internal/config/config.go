// Package config provides configuration management for the odds estimator.
package config

import (
	"time"

	"github.com/yourusername/odds-estimator/internal/optimize"
	"github.com/yourusername/odds-estimator/internal/simulation"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Estimator  EstimatorConfig  `mapstructure:"estimator" validate:"required"`
	Cache      CacheConfig      `mapstructure:"cache" validate:"required"`
	Output     OutputConfig     `mapstructure:"output" validate:"required"`
	Simulation SimulationConfig `mapstructure:"simulation" validate:"required"`
	Matches    []MatchConfig    `mapstructure:"matches" validate:"dive"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// EstimatorConfig represents the power-exponent search settings
type EstimatorConfig struct {
	Tolerance            float64 `mapstructure:"tolerance" validate:"gt=0,lt=1"`
	MaxIterations        int     `mapstructure:"max_iterations" validate:"gt=0"`
	GrowLimit            float64 `mapstructure:"grow_limit" validate:"gt=1"`
	MaxBracketIterations int     `mapstructure:"max_bracket_iterations" validate:"gt=0"`
	BracketStart         float64 `mapstructure:"bracket_start"`
	BracketEnd           float64 `mapstructure:"bracket_end"`
}

// CacheConfig represents estimate cache configuration
type CacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	TTLSeconds int  `mapstructure:"ttl_seconds" validate:"gt=0"`
	MaxSize    int  `mapstructure:"max_size" validate:"gt=0"`
}

// OutputConfig represents presentation configuration
type OutputConfig struct {
	Format string `mapstructure:"format" validate:"required,outputformat"`
}

// SimulationConfig represents monte carlo replay settings. A zero seed
// draws a fresh seed per run.
type SimulationConfig struct {
	Iterations int   `mapstructure:"iterations" validate:"gt=0,lte=10000000"`
	Seed       int64 `mapstructure:"seed"`
}

// MatchConfig is a named set of decimal odds to estimate
type MatchConfig struct {
	Name string             `mapstructure:"name" validate:"required"`
	Odds map[string]float64 `mapstructure:"odds" validate:"required"`
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// SolverSettings converts the estimator section into optimizer settings
func (c *Config) SolverSettings() optimize.Settings {
	return optimize.Settings{
		Start:                c.Estimator.BracketStart,
		End:                  c.Estimator.BracketEnd,
		GrowLimit:            c.Estimator.GrowLimit,
		MaxBracketIterations: c.Estimator.MaxBracketIterations,
		Tolerance:            c.Estimator.Tolerance,
		MaxIterations:        c.Estimator.MaxIterations,
	}
}

// CacheTTL returns the cache entry lifetime
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// MonteCarloConfig converts the simulation section into simulation settings
func (c *Config) MonteCarloConfig() simulation.MonteCarloConfig {
	return simulation.MonteCarloConfig{
		Iterations: c.Simulation.Iterations,
		Seed:       c.Simulation.Seed,
	}
}
