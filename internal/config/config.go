package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v2"

	"workshopcli/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Input     InputConfig     `yaml:"input" toml:"input" envconfig:"INPUT"`
	Output    OutputConfig    `yaml:"output" toml:"output" envconfig:"OUTPUT"`
	Report    ReportConfig    `yaml:"report" toml:"report" envconfig:"REPORT"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" toml:"telemetry" envconfig:"TELEMETRY"`
	Layout    Layout          `yaml:"layout" toml:"layout" ignored:"true"`
}

// InputConfig controls workbook discovery
type InputConfig struct {
	Dir        string   `yaml:"dir" toml:"dir" split_words:"true"`
	Extensions []string `yaml:"extensions" toml:"extensions" split_words:"true" validate:"min=1,dive,required"`
}

// OutputConfig controls where the consolidated report is written
type OutputConfig struct {
	Path string `yaml:"path" toml:"path" split_words:"true"`
}

// ReportConfig contains the aggregation and rendering policies
type ReportConfig struct {
	AffirmativeToken      string  `yaml:"affirmative_token" toml:"affirmative_token" split_words:"true" validate:"required"`
	IgnoreAccents         bool    `yaml:"ignore_accents" toml:"ignore_accents" split_words:"true"`
	MissingDurationPolicy string  `yaml:"missing_duration_policy" toml:"missing_duration_policy" split_words:"true" validate:"oneof=zero exclude"`
	FailurePolicy         string  `yaml:"failure_policy" toml:"failure_policy" split_words:"true" validate:"oneof=abort isolate"`
	ColumnPadding         int     `yaml:"column_padding" toml:"column_padding" split_words:"true" validate:"min=0"`
	MaxColumnWidth        float64 `yaml:"max_column_width" toml:"max_column_width" split_words:"true" validate:"gt=0,lte=255"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" toml:"level" split_words:"true" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" toml:"output" split_words:"true" validate:"oneof=file console both"`
	FilePath string `yaml:"file_path" toml:"file_path" split_words:"true"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	TraceExporter string `yaml:"trace_exporter" toml:"trace_exporter" split_words:"true" validate:"oneof=none stdout file"`
	TraceFile     string `yaml:"trace_file" toml:"trace_file" split_words:"true"`
	MetricsFile   string `yaml:"metrics_file" toml:"metrics_file" split_words:"true"`
}

// Load builds the configuration from defaults, an optional config file and
// WORKSHOP_* environment variables, in increasing order of precedence.
// An empty configFile searches for config.yaml or config.toml beside the
// executable and in the working directory.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, errors.NewConfigError("failed to load config file", err).
				WithContext("file", configFile)
		}
	}

	// No default tags: unset variables leave file and default values alone.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, errors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.NewConfigError("config validation failed", err)
	}

	return cfg, nil
}

// loadFromFile decodes a YAML or TOML file over cfg. The format follows the
// file extension.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".toml":
		return toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config file format %q", filepath.Ext(filePath))
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if err := c.Layout.validate(); err != nil {
		return fmt.Errorf("invalid layout: %w", err)
	}
	if c.Telemetry.TraceExporter == "file" && c.Telemetry.TraceFile == "" {
		return fmt.Errorf("trace exporter %q requires telemetry.trace_file", c.Telemetry.TraceExporter)
	}
	return nil
}

// ResolvePaths fills empty locations with executable-relative defaults and
// anchors relative ones at the executable directory.
func (c *Config) ResolvePaths(paths *Paths) {
	if c.Input.Dir == "" {
		c.Input.Dir = paths.InputDir
	} else {
		c.Input.Dir = paths.Resolve(c.Input.Dir)
	}

	if c.Output.Path == "" {
		c.Output.Path = paths.OutputFile
	} else {
		c.Output.Path = paths.Resolve(c.Output.Path)
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = paths.GetLogPath(DefaultLogFile)
	} else {
		c.Logging.FilePath = paths.Resolve(c.Logging.FilePath)
	}

	if c.Telemetry.TraceFile != "" {
		c.Telemetry.TraceFile = paths.Resolve(c.Telemetry.TraceFile)
	}
	if c.Telemetry.MetricsFile != "" {
		c.Telemetry.MetricsFile = paths.Resolve(c.Telemetry.MetricsFile)
	}
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	var locations []string
	if paths, err := GetPaths(); err == nil {
		locations = append(locations, paths.ConfigYAML, paths.ConfigTOML)
	}
	locations = append(locations, ConfigFileYAML, ConfigFileTOML)

	for _, location := range locations {
		if FileExists(location) {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Extensions: []string{DefaultWorkbookExtension},
		},
		Report: ReportConfig{
			AffirmativeToken:      DefaultAffirmativeToken,
			MissingDurationPolicy: MissingAsZero,
			FailurePolicy:         FailureAbort,
			ColumnPadding:         DefaultColumnPadding,
			MaxColumnWidth:        DefaultMaxColumnWidth,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "file",
		},
		Telemetry: TelemetryConfig{
			TraceExporter: "none",
		},
		Layout: DefaultLayout(),
	}
}
