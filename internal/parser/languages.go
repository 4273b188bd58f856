package parser

import (
	"fmt"
	"unsafe"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Grammar loads the tree-sitter grammar of one language
type Grammar func() (*sitter.Language, error)

// binding wraps a raw grammar pointer from the tree-sitter Go bindings
func binding(name string, raw func() unsafe.Pointer) Grammar {
	return func() (*sitter.Language, error) {
		ptr := raw()
		if ptr == nil {
			return nil, fmt.Errorf("failed to load %s language grammar", name)
		}
		return sitter.NewLanguage(ptr), nil
	}
}

// DefaultGrammars returns the grammars bundled through the tree-sitter Go
// bindings, keyed by the scanner's language names. .ts and .tsx both use the
// TypeScript grammar.
func DefaultGrammars() map[string]Grammar {
	return map[string]Grammar{
		"javascript": binding("JavaScript", tree_sitter_javascript.Language),
		"typescript": binding("TypeScript", tree_sitter_typescript.LanguageTypescript),
		"go":         binding("Go", tree_sitter_go.Language),
		"python":     binding("Python", tree_sitter_python.Language),
		"rust":       binding("Rust", tree_sitter_rust.Language),
		"java":       binding("Java", tree_sitter_java.Language),
	}
}
