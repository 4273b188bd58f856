package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/jenian/langkeys/internal/config"
	"github.com/jenian/langkeys/internal/scanner"
	"github.com/jenian/langkeys/internal/watch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newWatchCmd(global *globalOptions, version string) *cobra.Command {
	opts := &scanOptions{globalOptions: global}
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-run the scan whenever sources or the language file change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, opts, debounce, version)
		},
	}
	opts.addFlags(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before re-running after a change")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string, opts *scanOptions, debounce time.Duration, version string) error {
	root, xmlFile, err := opts.resolvePaths(args)
	if err != nil {
		return err
	}

	log, err := opts.newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	if !opts.noHeader && !opts.jsonOutput && !opts.silent {
		printHeader(cmd.OutOrStdout(), version)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	// Every run reloads the configuration and the language file, both may have changed.
	// The returned scanner carries the folder ignores of the configuration just read.
	run := func() (*scanner.Scanner, error) {
		cfg := opts.loadConfig(root, log)
		collector, fileScanner, err := opts.newCollector(cfg, log)
		if err != nil {
			return nil, err
		}
		report, err := opts.check(ctx, root, xmlFile, cfg, collector, log)
		if err != nil {
			return fileScanner, err
		}
		if err := opts.formatter(cmd).Report(report); err != nil {
			return fileScanner, fmt.Errorf("failed to format output: %w", err)
		}
		return fileScanner, nil
	}

	fileScanner, err := run()
	if fileScanner == nil {
		return err
	}
	if err != nil {
		log.Warn("scan failed", zap.Error(err))
	}

	w, err := watch.New(watch.Config{
		Root:     root,
		XMLFile:  xmlFile,
		Scanner:  fileScanner,
		Debounce: debounce,
		Log:      log,
	})
	if err != nil {
		return err
	}
	defer w.Close()

	if !opts.silent {
		fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for changes (Ctrl+C to stop)...\n", root)
	}

	err = w.Run(ctx, func(changed []string) {
		if !opts.silent {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d file(s) changed, scanning again...\n", len(changed))
		}
		fileScanner, err := run()
		if err != nil {
			log.Warn("scan failed", zap.Error(err))
		}
		if fileScanner != nil && configChanged(changed) {
			if err := w.SetScanner(fileScanner); err != nil {
				log.Warn("failed to apply folder ignores", zap.Error(err))
			}
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// configChanged reports whether one of the changed paths is a configuration file
func configChanged(changed []string) bool {
	for _, p := range changed {
		if filepath.Base(p) == config.FileName {
			return true
		}
	}
	return false
}
