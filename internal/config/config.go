package config

import (
	"fmt"
	"time"
)

// Config is the top-level configuration for virtfit.
type Config struct {
	Experiment ExperimentConfig `yaml:"experiment" mapstructure:"experiment"`
	Search     SearchConfig     `yaml:"search" mapstructure:"search"`
	Solver     SolverConfig     `yaml:"solver" mapstructure:"solver"`
	Evaluation EvaluationConfig `yaml:"evaluation" mapstructure:"evaluation"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
}

// ExperimentConfig selects which algorithms run on which problem scales.
type ExperimentConfig struct {
	Algorithms  []string `yaml:"algorithms" mapstructure:"algorithms"` // ffd, bfd, anneal, solver
	Scales      []string `yaml:"scales" mapstructure:"scales"`         // small, medium
	Seed        int64    `yaml:"seed" mapstructure:"seed"`
	Parallelism int      `yaml:"parallelism" mapstructure:"parallelism"` // 0 = NumCPU
}

// SearchConfig tunes the annealing local search.
type SearchConfig struct {
	MaxIterations int     `yaml:"max_iterations" mapstructure:"max_iterations"`
	Temperature   float64 `yaml:"temperature" mapstructure:"temperature"`
	CoolingRate   float64 `yaml:"cooling_rate" mapstructure:"cooling_rate"`
}

// SolverConfig bounds the exact solver.
type SolverConfig struct {
	TimeLimit time.Duration `yaml:"time_limit" mapstructure:"time_limit"`
	MaxVMs    int           `yaml:"max_vms" mapstructure:"max_vms"`
}

// EvaluationConfig tunes the metrics evaluator.
type EvaluationConfig struct {
	SLAThreshold float64 `yaml:"sla_threshold" mapstructure:"sla_threshold"`
}

// OutputConfig controls reporting and the results store.
type OutputConfig struct {
	Format     string `yaml:"format" mapstructure:"format"` // table, json, csv
	ResultsDir string `yaml:"results_dir" mapstructure:"results_dir"`
}

type LoggingConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Experiment: ExperimentConfig{
			Algorithms: []string{"ffd", "bfd", "anneal"},
			Scales:     []string{"small"},
			Seed:       42,
		},
		Search: SearchConfig{
			MaxIterations: 1000,
			Temperature:   1.0,
			CoolingRate:   0.95,
		},
		Solver: SolverConfig{
			TimeLimit: 300 * time.Second,
			MaxVMs:    50,
		},
		Evaluation: EvaluationConfig{
			SLAThreshold: 0.8,
		},
		Output: OutputConfig{
			Format:     "table",
			ResultsDir: "results",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks the config for consistency.
func (c *Config) Validate() error {
	validAlgos := map[string]bool{"ffd": true, "bfd": true, "anneal": true, "solver": true}
	for _, a := range c.Experiment.Algorithms {
		if !validAlgos[a] {
			return fmt.Errorf("algorithm must be ffd, bfd, anneal, or solver, got %q", a)
		}
	}
	if len(c.Experiment.Algorithms) == 0 {
		return fmt.Errorf("at least one algorithm must be configured")
	}
	validScales := map[string]bool{"small": true, "medium": true}
	for _, s := range c.Experiment.Scales {
		if !validScales[s] {
			return fmt.Errorf("scale must be small or medium, got %q", s)
		}
	}
	if len(c.Experiment.Scales) == 0 {
		return fmt.Errorf("at least one scale must be configured")
	}
	if c.Experiment.Parallelism < 0 {
		return fmt.Errorf("parallelism must be non-negative, got %d", c.Experiment.Parallelism)
	}
	if c.Search.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive, got %d", c.Search.MaxIterations)
	}
	if c.Search.CoolingRate <= 0 || c.Search.CoolingRate >= 1 {
		return fmt.Errorf("cooling_rate must be in (0, 1), got %v", c.Search.CoolingRate)
	}
	if c.Solver.TimeLimit <= 0 {
		return fmt.Errorf("solver time_limit must be positive, got %v", c.Solver.TimeLimit)
	}
	if c.Evaluation.SLAThreshold <= 0 || c.Evaluation.SLAThreshold > 1 {
		return fmt.Errorf("sla_threshold must be in (0, 1], got %v", c.Evaluation.SLAThreshold)
	}
	validFormats := map[string]bool{"table": true, "json": true, "csv": true}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("output format must be table, json, or csv, got %q", c.Output.Format)
	}
	return nil
}
