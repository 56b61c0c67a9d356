package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/harrison/bundler/internal/logger"
)

// FileName is the optional config file looked up in the bundle root.
const FileName = ".bundler.yaml"

// CheckConfig configures the post-build check command.
type CheckConfig struct {
	// IdentifierField is the item field whose identifier must equal the item key
	IdentifierField string `yaml:"identifier_field"`

	// ErrorsFile receives one line per problem; relative to the root
	ErrorsFile string `yaml:"errors_file"`
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	// Debounce is how long the tree must be quiet before a rebuild
	Debounce time.Duration `yaml:"debounce"`
}

// Config represents bundler configuration options
type Config struct {
	// OutputDir receives the bundle files; relative to the root
	OutputDir string `yaml:"output_dir"`

	// AllFile is the aggregate file name inside OutputDir
	AllFile string `yaml:"all_file"`

	// ExcludePrefixes hides category directories whose name starts with any entry
	ExcludePrefixes []string `yaml:"exclude_prefixes"`

	// LogLevel sets diagnostic verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// Lock holds an exclusive lock on the output directory during a run
	Lock bool `yaml:"lock"`

	Check CheckConfig `yaml:"check"`
	Watch WatchConfig `yaml:"watch"`
}

// DefaultConfig returns a Config with the default values
func DefaultConfig() *Config {
	return &Config{
		OutputDir:       ".dist",
		AllFile:         "all.json",
		ExcludePrefixes: []string{"."},
		LogLevel:        "info",
		Lock:            true,
		Check: CheckConfig{
			IdentifierField: "name",
			ErrorsFile:      filepath.Join(".tmp", "errors.txt"),
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
	}
}

// fileConfig mirrors Config with pointers so that keys present in the file,
// even with zero values, can be told apart from absent ones.
type fileConfig struct {
	OutputDir       *string   `yaml:"output_dir"`
	AllFile         *string   `yaml:"all_file"`
	ExcludePrefixes *[]string `yaml:"exclude_prefixes"`
	LogLevel        *string   `yaml:"log_level"`
	Lock            *bool     `yaml:"lock"`
	Check           struct {
		IdentifierField *string `yaml:"identifier_field"`
		ErrorsFile      *string `yaml:"errors_file"`
	} `yaml:"check"`
	Watch struct {
		Debounce *string `yaml:"debounce"`
	} `yaml:"watch"`
}

// envConfig lists the environment overrides. Unset variables leave the
// pointers nil.
type envConfig struct {
	OutputDir       *string        `env:"BUNDLER_OUTPUT_DIR"`
	AllFile         *string        `env:"BUNDLER_ALL_FILE"`
	ExcludePrefixes []string       `env:"BUNDLER_EXCLUDE_PREFIXES" envSeparator:","`
	LogLevel        *string        `env:"BUNDLER_LOG_LEVEL"`
	Lock            *bool          `env:"BUNDLER_LOCK"`
	Debounce        *time.Duration `env:"BUNDLER_WATCH_DEBOUNCE"`
}

// LoadConfig loads configuration from the specified file path.
// A missing file yields the defaults; a malformed file is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.OutputDir != nil {
		cfg.OutputDir = *fc.OutputDir
	}
	if fc.AllFile != nil {
		cfg.AllFile = *fc.AllFile
	}
	if fc.ExcludePrefixes != nil {
		cfg.ExcludePrefixes = *fc.ExcludePrefixes
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.Lock != nil {
		cfg.Lock = *fc.Lock
	}
	if fc.Check.IdentifierField != nil {
		cfg.Check.IdentifierField = *fc.Check.IdentifierField
	}
	if fc.Check.ErrorsFile != nil {
		cfg.Check.ErrorsFile = *fc.Check.ErrorsFile
	}
	if fc.Watch.Debounce != nil {
		d, err := time.ParseDuration(*fc.Watch.Debounce)
		if err != nil {
			return nil, fmt.Errorf("invalid watch.debounce %q: %w", *fc.Watch.Debounce, err)
		}
		cfg.Watch.Debounce = d
	}

	return cfg, nil
}

// LoadConfigFromDir loads <dir>/.bundler.yaml, then applies environment overrides.
func LoadConfigFromDir(dir string) (*Config, error) {
	cfg, err := LoadConfig(filepath.Join(dir, FileName))
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from BUNDLER_* environment variables.
func (c *Config) ApplyEnv() error {
	var e envConfig
	if err := env.Parse(&e); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if e.OutputDir != nil {
		c.OutputDir = *e.OutputDir
	}
	if e.AllFile != nil {
		c.AllFile = *e.AllFile
	}
	if e.ExcludePrefixes != nil {
		c.ExcludePrefixes = e.ExcludePrefixes
	}
	if e.LogLevel != nil {
		c.LogLevel = *e.LogLevel
	}
	if e.Lock != nil {
		c.Lock = *e.Lock
	}
	if e.Debounce != nil {
		c.Watch.Debounce = *e.Debounce
	}
	return nil
}

// MergeWithFlags merges CLI flags into the configuration.
// Non-nil flag values override configuration values.
func (c *Config) MergeWithFlags(outputDir *string, logLevel *string) {
	if outputDir != nil {
		c.OutputDir = *outputDir
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}

	if c.AllFile == "" {
		return fmt.Errorf("all_file cannot be empty")
	}
	if c.AllFile != filepath.Base(c.AllFile) {
		return fmt.Errorf("all_file must be a file name, got %q", c.AllFile)
	}

	if !logger.IsValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q, must be one of: %s", c.LogLevel, strings.Join(logger.ValidLevels, ", "))
	}

	if c.Check.IdentifierField == "" {
		return fmt.Errorf("check.identifier_field cannot be empty")
	}
	if c.Check.ErrorsFile == "" {
		return fmt.Errorf("check.errors_file cannot be empty")
	}

	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must be >= 0, got %v", c.Watch.Debounce)
	}

	return nil
}

// OutputPath resolves OutputDir against root.
func (c *Config) OutputPath(root string) string {
	return resolve(root, c.OutputDir)
}

// AllPath returns the aggregate file path under root.
func (c *Config) AllPath(root string) string {
	return filepath.Join(c.OutputPath(root), c.AllFile)
}

// ErrorsPath resolves Check.ErrorsFile against root.
func (c *Config) ErrorsPath(root string) string {
	return resolve(root, c.Check.ErrorsFile)
}

func resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}
