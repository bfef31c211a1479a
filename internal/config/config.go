// Package config loads and validates the YAML run configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/johndauphine/datanorm/internal/validate"
)

// Input describes the source dataset.
type Input struct {
	// Path is the CSV file to load.
	Path string `yaml:"path"`

	// Table is the base table name for the decomposition.
	Table string `yaml:"table"`
}

// Validation configures the validation stages.
type Validation struct {
	// ExpectedTypes maps column names to expected type categories
	// (integer, float, text, datetime, boolean).
	ExpectedTypes map[string]string `yaml:"expected_types"`

	// Constraints maps column names to their constraint sets.
	Constraints map[string]validate.Constraint `yaml:"constraints"`

	// Strict aborts the run when any validation error is recorded.
	Strict bool `yaml:"strict"`
}

// Output describes where normalized tables are written.
type Output struct {
	// Engine is one of sqlite, postgres, mssql, csv.
	Engine string `yaml:"engine"`

	// DSN is the connection string for database engines. For sqlite
	// this is the database file path.
	DSN string `yaml:"dsn"`

	// Dir is the output directory for the csv engine.
	Dir string `yaml:"dir"`
}

// Log configures logging.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// History configures the run-history store. An empty path disables
// history recording.
type History struct {
	Path string `yaml:"path"`
}

// Config is the full run configuration.
type Config struct {
	Input        Input             `yaml:"input"`
	Validation   Validation        `yaml:"validation"`
	NullStrategy map[string]string `yaml:"null_strategy"`
	Output       Output            `yaml:"output"`
	Log          Log               `yaml:"log"`
	History      History           `yaml:"history"`
}

// Load reads, parses, and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Input.Table == "" {
		c.Input.Table = "data"
	}
	if c.Output.Engine == "" {
		c.Output.Engine = "csv"
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "out"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func (c *Config) validate() error {
	if c.Input.Path == "" {
		return fmt.Errorf("input.path is required")
	}

	switch c.Output.Engine {
	case "csv":
	case "sqlite", "postgres", "mssql":
		if c.Output.DSN == "" {
			return fmt.Errorf("output.dsn is required for engine %q", c.Output.Engine)
		}
	default:
		return fmt.Errorf("unsupported output engine %q", c.Output.Engine)
	}

	for col, con := range c.Validation.Constraints {
		if n := len(con.Range); n != 0 && n != 2 {
			return fmt.Errorf("constraint %q: range needs [min, max], got %d values", col, n)
		}
	}
	return nil
}
