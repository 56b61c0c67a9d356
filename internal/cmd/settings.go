package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrison/bundler/internal/bundle"
	"github.com/harrison/bundler/internal/config"
	"github.com/harrison/bundler/internal/display"
	"github.com/harrison/bundler/internal/logger"
)

// settings is the resolved state shared by every subcommand.
type settings struct {
	root string
	cfg  *config.Config
	log  *logger.ConsoleLogger
}

// loadSettings resolves the root, then merges defaults, config file,
// environment and flags, in that order, and validates the result.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	flags := cmd.Flags()

	var root string
	var err error
	if flags.Changed("root") {
		rootFlag, _ := flags.GetString("root")
		root, err = filepath.Abs(rootFlag)
	} else {
		root, err = config.FindRoot(".")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}

	var cfg *config.Config
	if flags.Changed("config") {
		configPath, _ := flags.GetString("config")
		cfg, err = config.LoadConfig(configPath)
		if err == nil {
			err = cfg.ApplyEnv()
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(root)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	// Build flag pointers for merge (only explicitly set values)
	var outPtr *string
	if flags.Changed("out") {
		out, _ := flags.GetString("out")
		// --out is relative to the working directory, not the root
		if out, err = filepath.Abs(out); err != nil {
			return nil, fmt.Errorf("failed to resolve output directory: %w", err)
		}
		outPtr = &out
	}

	var logLevelPtr *string
	if flags.Changed("log-level") {
		level, _ := flags.GetString("log-level")
		logLevelPtr = &level
	}

	cfg.MergeWithFlags(outPtr, logLevelPtr)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &settings{
		root: root,
		cfg:  cfg,
		log:  logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel),
	}, nil
}

// newBundler wires a Bundler that reports to the command's stdout.
func (s *settings) newBundler(cmd *cobra.Command) *bundle.Bundler {
	return bundle.New(bundle.Options{
		Root:            s.root,
		OutputDir:       s.cfg.OutputPath(s.root),
		AllFile:         s.cfg.AllFile,
		ExcludePrefixes: s.cfg.ExcludePrefixes,
		Lock:            s.cfg.Lock,
		Reporter:        display.NewReporter(cmd.OutOrStdout()),
		Logger:          s.log,
	})
}

// displayPath shortens path to be relative to the root when it lies inside it.
func (s *settings) displayPath(path string) string {
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
