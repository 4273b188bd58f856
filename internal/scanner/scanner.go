package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// Language represents a programming language
type Language string

const (
	LanguageCSharp     Language = "csharp"
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguageGo         Language = "go"
	LanguagePython     Language = "python"
	LanguageRust       Language = "rust"
	LanguageJava       Language = "java"
	LanguageUnknown    Language = "unknown"
)

// FileInfo contains information about a file to be scanned
type FileInfo struct {
	Path     string
	Rel      string // Path relative to the scan root, with forward slashes
	Language Language
}

// Scanner handles file discovery and filtering
type Scanner struct {
	excludeDirs  map[string]bool // Directory names to exclude (e.g., "node_modules")
	excludePaths []glob.Glob     // Relative directory patterns to exclude (e.g., "src/Tests", "tools/*")
	excludeGlobs []glob.Glob
	includeGlobs []glob.Glob
}

// NewScanner creates a new scanner with default exclusions
func NewScanner() *Scanner {
	return &Scanner{
		excludeDirs: map[string]bool{
			"node_modules": true,
			"vendor":       true,
			".git":         true,
			".vs":          true,
			"build":        true,
			"dist":         true,
			"bin":          true,
			"obj":          true,
			"out":          true,
			".next":        true,
			".cache":       true,
		},
	}
}

// SetExcludeGlobs sets glob patterns to exclude
func (s *Scanner) SetExcludeGlobs(patterns []string) error {
	globs, err := compileGlobs(patterns)
	if err != nil {
		return fmt.Errorf("exclude: %w", err)
	}
	s.excludeGlobs = globs
	return nil
}

// SetIncludeGlobs sets glob patterns to include (overrides excludes)
func (s *Scanner) SetIncludeGlobs(patterns []string) error {
	globs, err := compileGlobs(patterns)
	if err != nil {
		return fmt.Errorf("include: %w", err)
	}
	s.includeGlobs = globs
	return nil
}

// AddExcludeDirs adds additional directories to exclude from scanning.
// Plain names (e.g. "Tests") match a directory anywhere in the tree; entries
// containing a separator (e.g. "src/Generated", "tools/*") match the
// directory's path relative to the scan root.
func (s *Scanner) AddExcludeDirs(dirs []string) error {
	for _, dir := range dirs {
		dir = strings.TrimSuffix(filepath.ToSlash(dir), "/")
		if dir == "" {
			continue
		}
		if !strings.Contains(dir, "/") {
			s.excludeDirs[dir] = true
			continue
		}
		g, err := glob.Compile(dir, '/')
		if err != nil {
			return fmt.Errorf("invalid folder pattern %q: %w", dir, err)
		}
		s.excludePaths = append(s.excludePaths, g)
	}
	return nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(filepath.ToSlash(p), '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// DetectLanguage determines the language from file extension
func DetectLanguage(path string) Language {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".cs":
		return LanguageCSharp
	case ".js", ".jsx", ".mjs":
		return LanguageJavaScript
	case ".ts", ".tsx":
		return LanguageTypeScript
	case ".go":
		return LanguageGo
	case ".py":
		return LanguagePython
	case ".rs":
		return LanguageRust
	case ".java":
		return LanguageJava
	default:
		return LanguageUnknown
	}
}

// matchesGlob checks if a relative path or its base name matches any of the patterns
func matchesGlob(rel string, globs []glob.Glob) bool {
	base := rel
	if i := strings.LastIndex(rel, "/"); i >= 0 {
		base = rel[i+1:]
	}
	for _, g := range globs {
		if g.Match(base) || g.Match(rel) {
			return true
		}
	}
	return false
}

// shouldInclude checks if a file should be included based on include/exclude globs
func (s *Scanner) shouldInclude(rel string) bool {
	// If include globs are specified, file must match at least one
	if len(s.includeGlobs) > 0 {
		return matchesGlob(rel, s.includeGlobs)
	}
	if len(s.excludeGlobs) > 0 {
		return !matchesGlob(rel, s.excludeGlobs)
	}
	return true
}

// ExcludesDir reports whether a directory is skipped, by name or by its
// slash-separated path relative to the scan root
func (s *Scanner) ExcludesDir(name, rel string) bool {
	if s.excludeDirs[name] {
		return true
	}
	for _, g := range s.excludePaths {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// Scan recursively walks a directory and returns the source files to extract
// keys from, in lexical walk order.
func (s *Scanner) Scan(rootPath string) ([]FileInfo, error) {
	var files []FileInfo

	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(rootPath, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if rel != "." && s.ExcludesDir(info.Name(), rel) {
				return filepath.SkipDir
			}
			return nil
		}

		lang := DetectLanguage(path)
		if lang == LanguageUnknown {
			return nil
		}

		if !s.shouldInclude(rel) {
			return nil
		}

		files = append(files, FileInfo{
			Path:     path,
			Rel:      rel,
			Language: lang,
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", rootPath, err)
	}

	return files, nil
}
