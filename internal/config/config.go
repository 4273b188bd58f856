package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"github.com/jenian/langkeys/internal/extractor"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the configuration file looked up in the project root
const FileName = ".langkeys.config"

// Config represents the langkeys configuration file
type Config struct {
	Lookups   LookupsConfig `yaml:"lookups"`
	Ignores   IgnoresConfig `yaml:"ignores"`
	Languages []string      `yaml:"languages"` // Restrict checks to these languages (empty = all)

	missing []glob.Glob
	unused  []glob.Glob
}

// LookupsConfig names the functions whose first argument is a key path
type LookupsConfig struct {
	Single []string `yaml:"single"` // Return one text
	Multi  []string `yaml:"multi"`  // Return all texts of a wildcard group
}

// IgnoresConfig contains ignore rules for key paths and folders
type IgnoresConfig struct {
	Missing []string `yaml:"missing"` // Key patterns not reported as missing from the XML
	Unused  []string `yaml:"unused"`  // Key patterns not reported as unused
	Folders []string `yaml:"folders"` // Folders to skip when scanning sources
}

// Default returns the configuration used when no config file exists
func Default() *Config {
	return &Config{
		Lookups: LookupsConfig{
			Single: []string{extractor.DefaultSingleLookup},
			Multi:  []string{extractor.DefaultMultiLookup},
		},
		Ignores: IgnoresConfig{
			Missing: []string{},
			Unused:  []string{},
			Folders: []string{},
		},
	}
}

// LoadConfig loads the .langkeys.config file from the specified directory
func LoadConfig(rootPath string) (*Config, error) {
	configPath := filepath.Join(rootPath, FileName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := Default()
		return cfg, cfg.Compile()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes a YAML configuration, filling unset lookups with the defaults
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	cfg.Lookups = LookupsConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if len(cfg.Lookups.Single) == 0 && len(cfg.Lookups.Multi) == 0 {
		cfg.Lookups = Default().Lookups
	}
	if err := cfg.Compile(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Compile prepares the ignore patterns. It must be called after modifying Ignores.
func (c *Config) Compile() error {
	var err error
	if c.missing, err = compileAll(c.Ignores.Missing); err != nil {
		return fmt.Errorf("ignores.missing: %w", err)
	}
	if c.unused, err = compileAll(c.Ignores.Unused); err != nil {
		return fmt.Errorf("ignores.unused: %w", err)
	}
	return nil
}

func compileAll(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// Extractor builds a key extractor for the configured lookup names
func (c *Config) Extractor() (*extractor.Extractor, error) {
	return extractor.New(c.Lookups.Single, c.Lookups.Multi)
}

// ShouldIgnoreMissing checks if a key should not be reported as missing
func (c *Config) ShouldIgnoreMissing(key string) bool {
	return matchAny(c.missing, key)
}

// ShouldIgnoreUnused checks if a key should not be reported as unused
func (c *Config) ShouldIgnoreUnused(key string) bool {
	return matchAny(c.unused, key)
}

// IncludesLanguage reports whether checks should run for language
func (c *Config) IncludesLanguage(language string) bool {
	if len(c.Languages) == 0 {
		return true
	}
	for _, l := range c.Languages {
		if l == language {
			return true
		}
	}
	return false
}

func matchAny(globs []glob.Glob, key string) bool {
	for _, g := range globs {
		if g.Match(key) {
			return true
		}
	}
	return false
}

// Template is the content written by init-config
const Template = `# .langkeys.config
# Configuration file for langkeys

lookups:
  # Functions returning a single text: Func(@"/Key/Path", language)
  single:
    - GetLanguageTextByXPath
  # Functions returning every text of a wildcard group: Func(@"/Key/*", language)
  multi:
    - GetLanguageTextListByXPath

ignores:
  # Key patterns that should not be reported as missing from the language file
  # ("*" matches one segment, "**" any number of segments)
  missing:
    # - /Debug/**
  # Key patterns that should not be reported as unused
  unused:
    # - /Legacy/**
  # Folders to skip when scanning sources
  folders:
    # - Tests
    # - obj

# Restrict checks to these languages (default: every language in the file)
languages:
  # - English
`
