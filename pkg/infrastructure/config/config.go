package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the planner's YAML configuration. Every field has a default so a
// missing file or empty document still yields a runnable configuration.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Horizon  HorizonConfig  `yaml:"horizon"`
	Solver   SolverConfig   `yaml:"solver"`
	Planning PlanningConfig `yaml:"planning"`
	Routing  RoutingConfig  `yaml:"routing"`
}

// LoggingConfig selects log verbosity and handler format
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// HorizonConfig controls the planning window
type HorizonConfig struct {
	Days int `yaml:"days"`
}

// SolverConfig configures the external MILP binary
type SolverConfig struct {
	Binary           string   `yaml:"binary"`
	TimeLimitSeconds float64  `yaml:"time_limit_seconds"`
	RelativeGap      float64  `yaml:"relative_gap"`
	WarmStartFlag    string   `yaml:"warm_start_flag"`
	ExtraArgs        []string `yaml:"extra_args"`
}

// PlanningConfig controls assembly and warm-start policy
type PlanningConfig struct {
	AllowShortages   bool    `yaml:"allow_shortages"`
	OverlapThreshold float64 `yaml:"overlap_threshold"`
	ColdOnLowQuality bool    `yaml:"cold_on_low_quality"`
}

// RoutingConfig bounds route enumeration
type RoutingConfig struct {
	MaxHops                int     `yaml:"max_hops"`
	TopK                   int     `yaml:"top_k"`
	RankBy                 string  `yaml:"rank_by"`
	MinShelfLifeAtDelivery float64 `yaml:"min_shelf_life_at_delivery"`
}

// Default returns the configuration used when no file is supplied
func Default() Config {
	return Config{
		Logging:  LoggingConfig{Level: "info", Format: "text"},
		Horizon:  HorizonConfig{Days: 28},
		Solver:   SolverConfig{TimeLimitSeconds: 300, RelativeGap: 0.01},
		Planning: PlanningConfig{AllowShortages: true, OverlapThreshold: 0.70},
		Routing:  RoutingConfig{MaxHops: 4, TopK: 5, RankBy: "cost,time", MinShelfLifeAtDelivery: 7},
	}
}

// Load reads a YAML config file, applies defaults for omitted fields and
// validates the result. Validation errors are fatal.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configurations no solve could run under
func (c Config) Validate() error {
	if c.Horizon.Days <= 0 {
		return fmt.Errorf("horizon.days must be positive, got %d", c.Horizon.Days)
	}
	if c.Solver.TimeLimitSeconds < 0 {
		return fmt.Errorf("solver.time_limit_seconds must not be negative")
	}
	if c.Solver.RelativeGap < 0 || c.Solver.RelativeGap >= 1 {
		return fmt.Errorf("solver.relative_gap must be in [0,1), got %g", c.Solver.RelativeGap)
	}
	if c.Planning.OverlapThreshold < 0 || c.Planning.OverlapThreshold > 1 {
		return fmt.Errorf("planning.overlap_threshold must be in [0,1], got %g", c.Planning.OverlapThreshold)
	}
	if c.Routing.MaxHops <= 0 {
		return fmt.Errorf("routing.max_hops must be positive")
	}
	if c.Routing.TopK <= 0 {
		return fmt.Errorf("routing.top_k must be positive")
	}
	switch c.Routing.RankBy {
	case "cost,time", "time,cost", "hops,cost":
	default:
		return fmt.Errorf("routing.rank_by must be one of cost,time | time,cost | hops,cost")
	}
	return nil
}
