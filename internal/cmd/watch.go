package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harrison/bundler/internal/watch"
)

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild all bundles whenever a category changes",
		Long: `Build once, then watch the root and every category directory.

Any created, written, removed or renamed *.json item, and any added or
removed category directory, triggers a full rebuild once the tree has been
quiet for the debounce interval. Rebuild errors are logged and watching
continues. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: runWatchCommand,
	}

	cmd.Flags().Duration("debounce", 0, "Quiet period before rebuilding (default: 200ms)")

	return cmd
}

func runWatchCommand(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("debounce") {
		s.cfg.Watch.Debounce, _ = cmd.Flags().GetDuration("debounce")
		if err := s.cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bundler := s.newBundler(cmd)
	rebuild := func() error {
		_, err := bundler.Run()
		return err
	}

	if err := rebuild(); err != nil {
		s.log.LogError(fmt.Sprintf("initial build failed: %v", err))
	}

	w, err := watch.New(watch.Options{
		Root:            s.root,
		OutputDir:       s.cfg.OutputPath(s.root),
		ExcludePrefixes: s.cfg.ExcludePrefixes,
		Debounce:        s.cfg.Watch.Debounce,
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Close()

	s.log.LogInfo(fmt.Sprintf("watching %s (Ctrl-C to stop)", s.root))

	err = watch.Loop(ctx, w, rebuild, s.log)
	if errors.Is(err, context.Canceled) {
		s.log.LogInfo("stopped watching")
		return nil
	}
	return err
}
