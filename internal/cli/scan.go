package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jenian/langkeys/internal/analyzer"
	"github.com/jenian/langkeys/internal/config"
	"github.com/jenian/langkeys/internal/langxml"
	"github.com/jenian/langkeys/internal/output"
	"github.com/jenian/langkeys/internal/parser"
	"github.com/jenian/langkeys/internal/project"
	"github.com/jenian/langkeys/internal/scanner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// scanOptions are the flags of scan and watch
type scanOptions struct {
	*globalOptions

	jsonOutput   bool
	silent       bool
	skipUnused   bool
	skipMissing  bool
	noHeader     bool
	languages    []string
	includeGlobs []string
	excludeGlobs []string
}

func (o *scanOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.jsonOutput, "json", false, "Output results in JSON format")
	cmd.Flags().BoolVar(&o.silent, "silent", false, "Silent mode (exit code only)")
	cmd.Flags().BoolVar(&o.skipUnused, "skip-unused", false, "Skip reporting unused keys")
	cmd.Flags().BoolVar(&o.skipMissing, "skip-missing", false, "Skip reporting missing keys")
	cmd.Flags().BoolVar(&o.noHeader, "no-header", false, "Skip printing the header")
	cmd.Flags().StringSliceVar(&o.languages, "lang", []string{}, "Only check these languages")
	cmd.Flags().StringSliceVar(&o.includeGlobs, "include", []string{}, "Glob patterns to include")
	cmd.Flags().StringSliceVar(&o.excludeGlobs, "exclude", []string{}, "Glob patterns to exclude")
}

func newScanCmd(global *globalOptions, version string) *cobra.Command {
	opts := &scanOptions{globalOptions: global}
	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Check a project against its language file",
		Long:  "Recursively scan a directory for language key lookups, report keys missing from the language file and keys of the language file that are never used.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, opts, version)
		},
	}
	opts.addFlags(cmd)
	return cmd
}

// resolvePaths returns the absolute project root and language file
func (o *scanOptions) resolvePaths(args []string) (root, xmlFile string, err error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	root, err = filepath.Abs(path)
	if err != nil {
		return "", "", fmt.Errorf("invalid path: %w", err)
	}
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return "", "", fmt.Errorf("path does not exist: %s", root)
	}

	xmlFile = o.xmlFile
	if xmlFile == "" {
		xmlFile = filepath.Join(root, DefaultXMLFile)
	}
	if xmlFile, err = filepath.Abs(xmlFile); err != nil {
		return "", "", fmt.Errorf("invalid language file path: %w", err)
	}
	return root, xmlFile, nil
}

// loadConfig reads the project configuration and applies the command line overrides
func (o *scanOptions) loadConfig(root string, log *zap.Logger) *config.Config {
	cfg, err := config.LoadConfig(root)
	if err != nil {
		log.Warn("failed to load "+config.FileName+", using defaults", zap.Error(err))
		cfg = config.Default()
	}
	if len(o.languages) > 0 {
		cfg.Languages = o.languages
	}
	return cfg
}

// newCollector wires the scanner, the pattern extractor and the syntax tree parser
func (o *scanOptions) newCollector(cfg *config.Config, log *zap.Logger) (*project.Collector, *scanner.Scanner, error) {
	fileScanner := scanner.NewScanner()
	if err := fileScanner.SetIncludeGlobs(o.includeGlobs); err != nil {
		return nil, nil, err
	}
	if err := fileScanner.SetExcludeGlobs(o.excludeGlobs); err != nil {
		return nil, nil, err
	}
	if err := fileScanner.AddExcludeDirs(cfg.Ignores.Folders); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", config.FileName, err)
	}

	keyExtractor, err := cfg.Extractor()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", config.FileName, err)
	}
	tsParser := parser.NewParser(cfg.Lookups.Single, cfg.Lookups.Multi, log)

	collector := project.NewCollector(fileScanner, keyExtractor,
		project.WithParser(tsParser),
		project.WithLogger(log),
	)
	return collector, fileScanner, nil
}

// check loads the language file and runs both checks for root
func (o *scanOptions) check(ctx context.Context, root, xmlFile string, cfg *config.Config, collector *project.Collector, log *zap.Logger) (analyzer.Report, error) {
	store := langxml.Open(xmlFile)
	if !store.Initialized() {
		return analyzer.Report{}, fmt.Errorf("failed to load language file: %w", store.Err())
	}

	checker := analyzer.NewChecker(store, collector, cfg)
	report := checker.Analyze(ctx, root)
	if err := checker.Err(); err != nil {
		log.Warn("check did not complete", zap.Error(err))
	}
	return report, nil
}

func (o *scanOptions) formatter(cmd *cobra.Command) *output.Formatter {
	out := cmd.OutOrStdout()
	return output.New(out, output.Options{
		JSON:        o.jsonOutput,
		Silent:      o.silent,
		SkipMissing: o.skipMissing,
		SkipUnused:  o.skipUnused,
		Color:       !o.jsonOutput && colorFor(out),
	})
}

func runScan(cmd *cobra.Command, args []string, opts *scanOptions, version string) error {
	root, xmlFile, err := opts.resolvePaths(args)
	if err != nil {
		return err
	}

	log, err := opts.newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	// Print header unless disabled or in JSON/silent mode
	if !opts.noHeader && !opts.jsonOutput && !opts.silent {
		printHeader(cmd.OutOrStdout(), version)
	}

	cfg := opts.loadConfig(root, log)
	collector, _, err := opts.newCollector(cfg, log)
	if err != nil {
		return err
	}

	if !opts.silent {
		fmt.Fprintf(cmd.ErrOrStderr(), "Scanning %s...\n", root)
	}

	report, err := opts.check(cmd.Context(), root, xmlFile, cfg, collector, log)
	if err != nil {
		return err
	}

	if err := opts.formatter(cmd).Report(report); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if output.HasIssues(report, opts.skipMissing, opts.skipUnused) {
		return ErrIssuesFound
	}
	return nil
}
