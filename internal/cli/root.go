// Package cli implements the langkeys command line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jenian/langkeys/internal/logger"
	"github.com/jenian/langkeys/internal/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ErrIssuesFound is returned by scan when the report contains issues.
// main turns it into exit code 1 without printing it.
var ErrIssuesFound = errors.New("issues found")

// DefaultXMLFile is the language file looked up in the scanned directory when --xml is not given
const DefaultXMLFile = "Language.xml"

// globalOptions are the flags shared by every command
type globalOptions struct {
	xmlFile   string
	debug     bool
	logFormat string
}

// NewRootCmd builds the command tree. version is printed by the version command.
func NewRootCmd(version string) *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "langkeys",
		Short:         "Check localization keys against a language file",
		Long:          "A CLI tool that scans a project for language key lookups and compares them with the keys declared in a language XML file.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.xmlFile, "xml", "", "Language file (default: <path>/"+DefaultXMLFile+")")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "console", "Log format (console or json)")

	rootCmd.AddCommand(newScanCmd(opts, version))
	rootCmd.AddCommand(newWatchCmd(opts, version))
	rootCmd.AddCommand(newLanguagesCmd(opts))
	rootCmd.AddCommand(newTextCmd(opts))
	rootCmd.AddCommand(newInitConfigCmd())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  "Print the version number of langkeys",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	})

	return rootCmd
}

// newLogger creates the logger for a command; entries go to the command's stderr
func (o *globalOptions) newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	level := "warn"
	if o.debug {
		level = "debug"
	}
	stderr := cmd.ErrOrStderr()
	return logger.New(logger.Config{Level: level, Format: o.logFormat, Output: stderr, Color: colorFor(stderr)})
}

// colorFor reports whether output written to w should be colored
func colorFor(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && output.ColorSupported(f)
}

func printHeader(w io.Writer, version string) {
	header := ` _                    _                   
| | __ _ _ __   __ _| | _____ _   _ ___ 
| |/ _' | '_ \ / _' | |/ / _ \ | | / __|
| | (_| | | | | (_| |   <  __/ |_| \__ \
|_|\__,_|_| |_|\__, |_|\_\___|\__, |___/
               |___/          |___/     
`
	fmt.Fprint(w, header)
	fmt.Fprintf(w, "Version: %s\n\n", version)
}
