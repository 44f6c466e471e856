package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Supported key cases for the formatter
const (
	KeyCaseNone       = ""
	KeyCaseCamel      = "camel"
	KeyCaseLowerCamel = "lower_camel"
	KeyCaseSnake      = "snake"
	KeyCaseKebab      = "kebab"
)

// DefaultIndent is the number of spaces per nesting level used when rendering
const DefaultIndent = 4

// DefaultDataFile is the ATM data file used when none is configured
const DefaultDataFile = "atm_data.json"

// Config represents the complete configuration for jsonlite
type Config struct {
	Indent  int       `yaml:"indent"`
	Strict  bool      `yaml:"strict"`
	KeyCase string    `yaml:"key_case"`
	ATM     ATMConfig `yaml:"atm"`
	Log     LogConfig `yaml:"log"`
}

// ATMConfig controls the account store
type ATMConfig struct {
	DataFile string `yaml:"data_file"`
	// SaveIndent is the indent used for the data file; 0 means use Indent
	SaveIndent int `yaml:"save_indent"`
}

// LogConfig controls the structured logger
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Indent:  DefaultIndent,
		Strict:  false,
		KeyCase: KeyCaseNone,
		ATM: ATMConfig{
			DataFile: DefaultDataFile,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()
	cfg.ATM.DataFile = ""

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// A relative data file is relative to the config file that names it
	switch {
	case cfg.ATM.DataFile == "":
		cfg.ATM.DataFile = DefaultDataFile
	case !filepath.IsAbs(cfg.ATM.DataFile):
		cfg.ATM.DataFile = filepath.Join(filepath.Dir(path), cfg.ATM.DataFile)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsonlite.yml", ".jsonlite.yaml", "jsonlite.yml", "jsonlite.yaml"}

	// Start from current directory
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		// Move up one directory
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks that every setting holds a supported value
func (c *Config) Validate() error {
	if c.Indent < 0 {
		return fmt.Errorf("indent must not be negative, got %d", c.Indent)
	}
	if c.ATM.SaveIndent < 0 {
		return fmt.Errorf("atm.save_indent must not be negative, got %d", c.ATM.SaveIndent)
	}
	switch c.KeyCase {
	case KeyCaseNone, KeyCaseCamel, KeyCaseLowerCamel, KeyCaseSnake, KeyCaseKebab:
	default:
		return fmt.Errorf("unknown key_case '%s'", c.KeyCase)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level '%s'", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format '%s'", c.Log.Format)
	}
	return nil
}

// DataFileIndent returns the indent used when saving the ATM data file
func (c *Config) DataFileIndent() int {
	if c.ATM.SaveIndent > 0 {
		return c.ATM.SaveIndent
	}
	return c.Indent
}

// Overrides holds values given on the command line. Nil pointers mean the
// flag was not set, so the file value is kept.
type Overrides struct {
	Indent   *int
	Strict   *bool
	KeyCase  *string
	DataFile string
	Debug    bool
}

// LoadConfigWithCLI loads config with CLI argument precedence
func LoadConfigWithCLI(configPath string, o Overrides) (*Config, error) {
	// Start with defaults
	cfg := NewConfig()

	// Load config file if provided
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if o.Indent != nil {
		cfg.Indent = *o.Indent
	}
	if o.Strict != nil {
		cfg.Strict = *o.Strict
	}
	if o.KeyCase != nil {
		cfg.KeyCase = *o.KeyCase
	}
	if o.DataFile != "" {
		cfg.ATM.DataFile = o.DataFile
	}
	if o.Debug {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
