package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gocontab/domain/dataset"
	"gocontab/internal/errors"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Default output names, without extension
const (
	DefaultResultsName     = "chi-square-results"
	DefaultContingencyName = "contingency-tables"
	xlsxExt                = ".xlsx"
)

// Config represents the complete run configuration
type Config struct {
	Input     InputConfig       `yaml:"input"`
	Selection dataset.Selection `yaml:"selection"`
	Output    OutputConfig      `yaml:"output"`
	Analysis  AnalysisConfig    `yaml:"analysis"`
}

// InputConfig locates the dataset
type InputConfig struct {
	Path  string `yaml:"path" validate:"required"`
	Sheet string `yaml:"sheet"`
}

// OutputConfig holds the workbook paths
type OutputConfig struct {
	ResultsPath     string `yaml:"results" validate:"required"`
	ContingencyPath string `yaml:"contingency" validate:"required,nefield=ResultsPath"`
}

// AnalysisConfig holds execution settings
type AnalysisConfig struct {
	Workers    int    `yaml:"workers" validate:"gte=1,lte=256"`
	ShowBanner bool   `yaml:"banner"`
	LogLevel   string `yaml:"log_level" validate:"omitempty,oneof=ERROR WARN INFO DEBUG TRACE error warn info debug trace"`
}

// Default returns the configuration used when nothing else is supplied
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			ResultsPath:     DefaultResultsName + xlsxExt,
			ContingencyPath: DefaultContingencyName + xlsxExt,
		},
		Analysis: AnalysisConfig{
			Workers:    1,
			ShowBanner: true,
			LogLevel:   "INFO",
		},
	}
}

// Load reads defaults, then the optional YAML file, then environment variables.
// Flags are applied by the caller on top of the returned config.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, errors.Wrapf(err, "failed to read config %s", path))
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, errors.Wrapf(err, "failed to parse config %s", path))
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Input.Path = getEnvOrDefault("GOCONTAB_INPUT", c.Input.Path)
	c.Input.Sheet = getEnvOrDefault("GOCONTAB_SHEET", c.Input.Sheet)
	c.Selection.Categorical = dataset.ColumnRef(getEnvOrDefault("GOCONTAB_CATEGORICAL", string(c.Selection.Categorical)))
	c.Selection.Numeric1 = dataset.ColumnRef(getEnvOrDefault("GOCONTAB_NUMERIC1", string(c.Selection.Numeric1)))
	c.Selection.Numeric2 = dataset.ColumnRef(getEnvOrDefault("GOCONTAB_NUMERIC2", string(c.Selection.Numeric2)))
	c.Output.ResultsPath = getEnvOrDefault("GOCONTAB_RESULTS", c.Output.ResultsPath)
	c.Output.ContingencyPath = getEnvOrDefault("GOCONTAB_CONTINGENCY", c.Output.ContingencyPath)
	c.Analysis.Workers = getEnvIntOrDefault("GOCONTAB_WORKERS", c.Analysis.Workers)
	c.Analysis.ShowBanner = getEnvBoolOrDefault("GOCONTAB_BANNER", c.Analysis.ShowBanner)
	c.Analysis.LogLevel = getEnvOrDefault("GOCONTAB_LOG_LEVEL", c.Analysis.LogLevel)
}

// Validate normalizes output names and checks the struct constraints
func (c *Config) Validate() error {
	c.Output.ResultsPath = WithXLSX(c.Output.ResultsPath)
	c.Output.ContingencyPath = WithXLSX(c.Output.ContingencyPath)

	if err := validator.New().Struct(c); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, errors.Wrap(err, "configuration validation failed"))
	}

	refs := map[string]dataset.ColumnRef{
		"categorical": c.Selection.Categorical,
		"numeric1":    c.Selection.Numeric1,
		"numeric2":    c.Selection.Numeric2,
	}
	for _, name := range []string{"categorical", "numeric1", "numeric2"} {
		if strings.TrimSpace(string(refs[name])) == "" {
			return errors.ConfigInvalid(name + " column is required")
		}
	}
	return nil
}

// WithXLSX appends ".xlsx" to names without an extension
func WithXLSX(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || filepath.Ext(name) != "" {
		return name
	}
	return name + xlsxExt
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
