package analyzer

import (
	"fmt"

	"github.com/jenian/langkeys/internal/extractor"
)

// Mismatch is a key that is referenced but not declared for a language, or
// declared for a language but never referenced
type Mismatch struct {
	Language string `json:"language"`
	Key      string `json:"key"`
	File     string `json:"file,omitempty"` // Source file that first referenced the key (missing keys only)
	Line     int    `json:"line,omitempty"`
}

// String formats the mismatch as a report line, e.g.
// "German         : /Menu/File (File: Forms/Main.cs)"
func (m Mismatch) String() string {
	s := fmt.Sprintf("%-15s: %s", m.Language, m.Key)
	if m.File != "" {
		s += fmt.Sprintf(" (File: %s)", m.File)
	}
	return s
}

// Report contains the results of both checks
type Report struct {
	Missing        []Mismatch        `json:"missing"`     // Referenced in source, absent from the document
	Unused         []Mismatch        `json:"unused"`      // Declared in the document, never referenced
	Unsupported    []extractor.Usage `json:"unsupported"` // Keys with nested or inner wildcards
	IgnoredMissing int               `json:"ignored_missing"`
	IgnoredUnused  int               `json:"ignored_unused"`
	Languages      []string          `json:"languages"`
	KeyCount       int               `json:"key_count"`  // Distinct keys referenced in source
	LeafCount      int               `json:"leaf_count"` // Leaves in the document
	Err            string            `json:"error,omitempty"`
}
