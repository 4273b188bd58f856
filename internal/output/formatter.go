package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jenian/langkeys/internal/analyzer"
	"github.com/jenian/langkeys/internal/config"
	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// ColorSupported reports whether f is a terminal that renders ANSI colors
func ColorSupported(f *os.File) bool {
	if !term.IsTerminal(int(f.Fd())) {
		return false
	}
	// On Windows, ANSI processing has to be switched on (formatter_windows.go)
	return enableANSI(f.Fd())
}

// Options controls what the formatter prints
type Options struct {
	JSON        bool
	Silent      bool // Print nothing; the caller only uses the exit code
	SkipMissing bool
	SkipUnused  bool
	Color       bool
}

// Formatter writes reports to w
type Formatter struct {
	w    io.Writer
	opts Options
}

// New creates a formatter
func New(w io.Writer, opts Options) *Formatter {
	return &Formatter{w: w, opts: opts}
}

func (f *Formatter) color(code string) string {
	if f.opts.Color {
		return code
	}
	return ""
}

// JSONOutput represents the JSON output format
type JSONOutput struct {
	Languages      []string            `json:"languages"`
	Missing        []analyzer.Mismatch `json:"missing"`
	Unused         []analyzer.Mismatch `json:"unused"`
	Unsupported    []UnsupportedKey    `json:"unsupported"`
	IgnoredMissing int                 `json:"ignored_missing"`
	IgnoredUnused  int                 `json:"ignored_unused"`
	KeyCount       int                 `json:"key_count"`
	LeafCount      int                 `json:"leaf_count"`
	Error          string              `json:"error,omitempty"`
}

// UnsupportedKey is a referenced key that could not be checked
type UnsupportedKey struct {
	Key      string `json:"key"`
	Location string `json:"location"`
}

// Report formats the analysis results according to the options
func (f *Formatter) Report(report analyzer.Report) error {
	if f.opts.Silent {
		// In silent mode, only return exit code (handled by caller)
		return nil
	}
	if f.opts.JSON {
		return f.formatJSON(report)
	}
	return f.formatHumanReadable(report)
}

func location(file string, line int) string {
	if file == "" {
		file = "<unknown>"
	}
	if line > 0 {
		return fmt.Sprintf("%s:%d", file, line)
	}
	return file
}

// formatJSON outputs results in JSON format
func (f *Formatter) formatJSON(report analyzer.Report) error {
	output := JSONOutput{
		Languages:      report.Languages,
		Missing:        []analyzer.Mismatch{},
		Unused:         []analyzer.Mismatch{},
		Unsupported:    []UnsupportedKey{},
		IgnoredMissing: report.IgnoredMissing,
		IgnoredUnused:  report.IgnoredUnused,
		KeyCount:       report.KeyCount,
		LeafCount:      report.LeafCount,
		Error:          report.Err,
	}
	if output.Languages == nil {
		output.Languages = []string{}
	}

	if !f.opts.SkipMissing && len(report.Missing) > 0 {
		output.Missing = report.Missing
	}
	if !f.opts.SkipUnused && len(report.Unused) > 0 {
		output.Unused = report.Unused
	}
	for _, u := range report.Unsupported {
		output.Unsupported = append(output.Unsupported, UnsupportedKey{Key: u.Key, Location: location(u.File, u.Line)})
	}

	encoder := json.NewEncoder(f.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// formatHumanReadable outputs results in human-readable format
func (f *Formatter) formatHumanReadable(report analyzer.Report) error {
	hasIssues := false
	w := f.w

	// Missing keys
	if !f.opts.SkipMissing && len(report.Missing) > 0 {
		hasIssues = true
		fmt.Fprintf(w, "%s%sKeys missing from the language file:%s\n\n", f.color(colorBold), f.color(colorRed), f.color(colorReset))
		for _, m := range report.Missing {
			fmt.Fprintf(w, "  %s%-15s%s: %s%s%s %s(File: %s%s%s)%s\n",
				f.color(colorRed), m.Language, f.color(colorReset),
				f.color(colorBold), m.Key, f.color(colorReset),
				f.color(colorGray), f.color(colorCyan), location(m.File, m.Line), f.color(colorGray), f.color(colorReset))
		}
		fmt.Fprintln(w)
	}

	// Unused keys
	if !f.opts.SkipUnused && len(report.Unused) > 0 {
		hasIssues = true
		fmt.Fprintf(w, "%s%sKeys not used in the project:%s\n\n", f.color(colorBold), f.color(colorYellow), f.color(colorReset))
		for _, m := range report.Unused {
			fmt.Fprintf(w, "  %s%-15s%s: %s\n", f.color(colorYellow), m.Language, f.color(colorReset), m.Key)
		}
		fmt.Fprintln(w)
	}

	// Keys with wildcards that cannot be matched
	if len(report.Unsupported) > 0 {
		hasIssues = true
		fmt.Fprintf(w, "%s%sUnsupported wildcard keys (only a single trailing * is supported):%s\n\n", f.color(colorBold), f.color(colorYellow), f.color(colorReset))
		for _, u := range report.Unsupported {
			fmt.Fprintf(w, "  %s%s%s %sused in:%s %s%s%s\n",
				f.color(colorYellow), u.Key, f.color(colorReset),
				f.color(colorGray), f.color(colorReset),
				f.color(colorCyan), location(u.File, u.Line), f.color(colorReset))
		}
		fmt.Fprintln(w)
	}

	if report.IgnoredMissing > 0 {
		fmt.Fprintf(w, "%s%sNote:%s %d missing key(s) were ignored (configured in %s)\n", f.color(colorGray), f.color(colorBold), f.color(colorReset), report.IgnoredMissing, config.FileName)
	}
	if report.IgnoredUnused > 0 {
		fmt.Fprintf(w, "%s%sNote:%s %d unused key(s) were ignored (configured in %s)\n", f.color(colorGray), f.color(colorBold), f.color(colorReset), report.IgnoredUnused, config.FileName)
	}
	if report.IgnoredMissing > 0 || report.IgnoredUnused > 0 {
		fmt.Fprintln(w)
	}

	if !hasIssues {
		ignoredCount := report.IgnoredMissing + report.IgnoredUnused
		if ignoredCount > 0 {
			fmt.Fprintf(w, "%s%s✓ No issues found (excluding %d ignored via config).%s\n", f.color(colorGreen), f.color(colorBold), ignoredCount, f.color(colorReset))
		} else {
			fmt.Fprintf(w, "%s%s✓ No issues found%s%s\n", f.color(colorGreen), f.color(colorBold), f.checked(report), f.color(colorReset))
		}
	}

	return nil
}

// checked describes what a clean report proves; skipped checks prove nothing
func (f *Formatter) checked(report analyzer.Report) string {
	switch {
	case f.opts.SkipMissing && f.opts.SkipUnused:
		return " (missing and unused keys were not checked)."
	case f.opts.SkipMissing:
		return fmt.Sprintf(". All %d leaves are used (missing keys were not checked).", report.LeafCount)
	case f.opts.SkipUnused:
		return fmt.Sprintf(". %d key(s) resolve in %s (unused keys were not checked).", report.KeyCount, describeLanguages(report.Languages))
	default:
		return fmt.Sprintf(". %d key(s) resolve in %s and all %d leaves are used.", report.KeyCount, describeLanguages(report.Languages), report.LeafCount)
	}
}

func describeLanguages(langs []string) string {
	switch len(langs) {
	case 0:
		return "no language"
	case 1:
		return langs[0]
	default:
		return strings.Join(langs[:len(langs)-1], ", ") + " and " + langs[len(langs)-1]
	}
}

// Languages prints the declared languages, one per line
func (f *Formatter) Languages(langs []string) error {
	if f.opts.JSON {
		if langs == nil {
			langs = []string{}
		}
		return json.NewEncoder(f.w).Encode(langs)
	}
	for _, l := range langs {
		if _, err := fmt.Fprintln(f.w, l); err != nil {
			return err
		}
	}
	return nil
}

// HasIssues returns true if the report contains anything to fix.
// Ignored keys don't count as issues.
func HasIssues(report analyzer.Report, skipMissing, skipUnused bool) bool {
	if !skipMissing && len(report.Missing) > 0 {
		return true
	}
	if !skipUnused && len(report.Unused) > 0 {
		return true
	}
	return len(report.Unsupported) > 0
}
