package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

// TestDefaultConfig verifies default configuration values
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.OutputDir != ".dist" {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, ".dist")
	}
	if cfg.AllFile != "all.json" {
		t.Errorf("AllFile = %q, want %q", cfg.AllFile, "all.json")
	}
	if len(cfg.ExcludePrefixes) != 1 || cfg.ExcludePrefixes[0] != "." {
		t.Errorf("ExcludePrefixes = %v, want [.]", cfg.ExcludePrefixes)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if !cfg.Lock {
		t.Errorf("Lock = false, want true")
	}
	if cfg.Check.IdentifierField != "name" {
		t.Errorf("Check.IdentifierField = %q, want %q", cfg.Check.IdentifierField, "name")
	}
	if cfg.Check.ErrorsFile != filepath.Join(".tmp", "errors.txt") {
		t.Errorf("Check.ErrorsFile = %q, want .tmp/errors.txt", cfg.Check.ErrorsFile)
	}
	if cfg.Watch.Debounce != 200*time.Millisecond {
		t.Errorf("Watch.Debounce = %v, want 200ms", cfg.Watch.Debounce)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

// TestLoadConfigValidFile tests loading a valid YAML config file
func TestLoadConfigValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeConfig(t, tmpDir, `output_dir: build
all_file: everything.json
exclude_prefixes: [".", "_"]
log_level: debug
lock: false
check:
  identifier_field: id
  errors_file: out/errs.txt
watch:
  debounce: 1s
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.OutputDir != "build" {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, "build")
	}
	if cfg.AllFile != "everything.json" {
		t.Errorf("AllFile = %q, want %q", cfg.AllFile, "everything.json")
	}
	if strings.Join(cfg.ExcludePrefixes, ",") != ".,_" {
		t.Errorf("ExcludePrefixes = %v, want [. _]", cfg.ExcludePrefixes)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.Lock {
		t.Errorf("Lock = true, want false")
	}
	if cfg.Check.IdentifierField != "id" {
		t.Errorf("Check.IdentifierField = %q, want %q", cfg.Check.IdentifierField, "id")
	}
	if cfg.Check.ErrorsFile != "out/errs.txt" {
		t.Errorf("Check.ErrorsFile = %q, want %q", cfg.Check.ErrorsFile, "out/errs.txt")
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Watch.Debounce = %v, want 1s", cfg.Watch.Debounce)
	}
}

// TestLoadConfigFileNotExists tests fallback to defaults when file doesn't exist
func TestLoadConfigFileNotExists(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/.bundler.yaml")
	if err != nil {
		t.Fatalf("LoadConfig() should not error on missing file, got: %v", err)
	}
	if cfg.OutputDir != ".dist" {
		t.Errorf("OutputDir = %q, want %q (default)", cfg.OutputDir, ".dist")
	}
}

// TestLoadConfigInvalidYAML tests error handling for malformed YAML
func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "output_dir: [unclosed\n")

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig() expected error for invalid YAML, got nil")
	}
}

// TestLoadConfigInvalidDebounce tests that an unparsable duration is rejected
func TestLoadConfigInvalidDebounce(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "watch:\n  debounce: soon\n")

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("LoadConfig() expected error for invalid debounce, got nil")
	}
	if !strings.Contains(err.Error(), "watch.debounce") {
		t.Errorf("error = %v, want mention of watch.debounce", err)
	}
}

// TestLoadConfigPartialValues tests that omitted keys keep their defaults
func TestLoadConfigPartialValues(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "log_level: warn\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "warn")
	}
	if cfg.OutputDir != ".dist" {
		t.Errorf("OutputDir = %q, want %q (default)", cfg.OutputDir, ".dist")
	}
	if !cfg.Lock {
		t.Errorf("Lock = false, want true (default)")
	}
}

// TestLoadConfigEmptyExcludeList tests that an explicit empty list disables exclusion
func TestLoadConfigEmptyExcludeList(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "exclude_prefixes: []\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.ExcludePrefixes == nil || len(cfg.ExcludePrefixes) != 0 {
		t.Errorf("ExcludePrefixes = %#v, want empty non-nil slice", cfg.ExcludePrefixes)
	}
}

// TestLoadConfigFromDir tests loading .bundler.yaml from a directory
func TestLoadConfigFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "output_dir: public\n")

	cfg, err := LoadConfigFromDir(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfigFromDir() error = %v", err)
	}
	if cfg.OutputDir != "public" {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, "public")
	}
}

// TestLoadConfigFromDirEnvOverrides tests BUNDLER_* variables win over the file
func TestLoadConfigFromDirEnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "output_dir: public\nlog_level: warn\n")

	t.Setenv("BUNDLER_OUTPUT_DIR", "env-out")
	t.Setenv("BUNDLER_LOG_LEVEL", "trace")
	t.Setenv("BUNDLER_EXCLUDE_PREFIXES", ".,_")
	t.Setenv("BUNDLER_WATCH_DEBOUNCE", "750ms")
	t.Setenv("BUNDLER_LOCK", "false")
	t.Setenv("BUNDLER_ALL_FILE", "bundle.json")

	cfg, err := LoadConfigFromDir(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfigFromDir() error = %v", err)
	}

	if cfg.OutputDir != "env-out" {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, "env-out")
	}
	if cfg.LogLevel != "trace" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "trace")
	}
	if strings.Join(cfg.ExcludePrefixes, ",") != ".,_" {
		t.Errorf("ExcludePrefixes = %v, want [. _]", cfg.ExcludePrefixes)
	}
	if cfg.Watch.Debounce != 750*time.Millisecond {
		t.Errorf("Watch.Debounce = %v, want 750ms", cfg.Watch.Debounce)
	}
	if cfg.Lock {
		t.Errorf("Lock = true, want false")
	}
	if cfg.AllFile != "bundle.json" {
		t.Errorf("AllFile = %q, want %q", cfg.AllFile, "bundle.json")
	}
}

// TestApplyEnvInvalid tests that malformed env values are reported
func TestApplyEnvInvalid(t *testing.T) {
	t.Setenv("BUNDLER_WATCH_DEBOUNCE", "whenever")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err == nil {
		t.Fatal("ApplyEnv() expected error for invalid duration, got nil")
	}
}

// TestMergeWithFlags tests that non-nil flags override config values
func TestMergeWithFlags(t *testing.T) {
	cfg := DefaultConfig()
	out := "flag-out"
	level := "error"

	cfg.MergeWithFlags(&out, &level)

	if cfg.OutputDir != "flag-out" {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, "flag-out")
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "error")
	}
}

// TestMergeWithFlagsNil tests that nil flags leave the config untouched
func TestMergeWithFlagsNil(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeWithFlags(nil, nil)

	if cfg.OutputDir != ".dist" {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, ".dist")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
}

// TestValidate covers each rejected field
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"empty output dir", func(c *Config) { c.OutputDir = "  " }, "output_dir"},
		{"empty all file", func(c *Config) { c.AllFile = "" }, "all_file"},
		{"all file with dir", func(c *Config) { c.AllFile = "sub/all.json" }, "all_file"},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, "log_level"},
		{"empty identifier field", func(c *Config) { c.Check.IdentifierField = "" }, "identifier_field"},
		{"empty errors file", func(c *Config) { c.Check.ErrorsFile = "" }, "errors_file"},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -time.Second }, "debounce"},
		{"zero debounce", func(c *Config) { c.Watch.Debounce = 0 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

// TestPaths tests root-relative and absolute path resolution
func TestPaths(t *testing.T) {
	root := filepath.FromSlash("/data/root")
	cfg := DefaultConfig()

	if got, want := cfg.OutputPath(root), filepath.Join(root, ".dist"); got != want {
		t.Errorf("OutputPath() = %q, want %q", got, want)
	}
	if got, want := cfg.AllPath(root), filepath.Join(root, ".dist", "all.json"); got != want {
		t.Errorf("AllPath() = %q, want %q", got, want)
	}
	if got, want := cfg.ErrorsPath(root), filepath.Join(root, ".tmp", "errors.txt"); got != want {
		t.Errorf("ErrorsPath() = %q, want %q", got, want)
	}

	abs := filepath.Join(t.TempDir(), "out")
	cfg.OutputDir = abs + string(filepath.Separator)
	if got := cfg.OutputPath(root); got != abs {
		t.Errorf("OutputPath() with absolute dir = %q, want %q", got, abs)
	}
}
