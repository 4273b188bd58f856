package parser

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jenian/langkeys/internal/extractor"
	"github.com/jenian/langkeys/internal/languages"
	sitter "github.com/tree-sitter/go-tree-sitter"
	"go.uber.org/zap"
)

// Parser handles Tree-Sitter parsing of source files
type Parser struct {
	grammars  map[string]Grammar
	languages map[string]*sitter.Language
	mu        sync.RWMutex
	lookups   languages.Lookups
	log       *zap.Logger
}

// NewParser creates a parser recognizing the given lookup function names
func NewParser(single, multi []string, log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{
		grammars:  DefaultGrammars(),
		languages: make(map[string]*sitter.Language),
		lookups:   languages.NewLookups(single, multi),
		log:       log,
	}
}

// SetGrammar replaces the grammar used for lang and drops any grammar already loaded for it
func (p *Parser) SetGrammar(lang string, g Grammar) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.grammars[lang] = g
	delete(p.languages, lang)
}

// getLanguage returns a language grammar for the given language, loading it if needed
func (p *Parser) getLanguage(lang string) (*sitter.Language, error) {
	p.mu.RLock()
	if language, ok := p.languages[lang]; ok {
		p.mu.RUnlock()
		return language, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring write lock
	if language, ok := p.languages[lang]; ok {
		return language, nil
	}

	grammar, ok := p.grammars[lang]
	if !ok {
		return nil, fmt.Errorf("no grammar for language %s", lang)
	}
	language, err := grammar()
	if err != nil {
		return nil, fmt.Errorf("failed to load language %s: %w", lang, err)
	}

	p.languages[lang] = language
	return language, nil
}

// Supports reports whether lang has a grammar and a lookup query
func Supports(lang string) bool {
	return languages.GetLanguageInfo(lang) != nil
}

// Parse extracts the lookup calls in content. fileName is used for logging only.
func (p *Parser) Parse(fileName string, lang string, content []byte) ([]extractor.Match, error) {
	langInfo := languages.GetLanguageInfo(lang)
	if langInfo == nil {
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}

	language, err := p.getLanguage(lang)
	if err != nil {
		p.log.Debug("failed to load grammar", zap.String("file", fileName), zap.String("language", lang), zap.Error(err))
		return nil, err
	}

	// Create a new parser for each file to avoid CGO concurrency issues
	// Tree-sitter parsers are not thread-safe when used concurrently
	tsParser := sitter.NewParser()
	defer tsParser.Close()
	if err := tsParser.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set language %s: %w", lang, err)
	}

	tree := tsParser.Parse(content, nil)
	if tree == nil {
		p.log.Debug("parse returned nil tree", zap.String("file", fileName), zap.String("language", lang))
		return []extractor.Match{}, nil
	}
	defer tree.Close()
	rootNode := tree.RootNode()

	query, queryErr := sitter.NewQuery(language, strings.TrimSpace(langInfo.Query))
	if queryErr != nil {
		// Query creation failed - this might be due to grammar compatibility
		p.log.Debug("query creation failed", zap.String("file", fileName), zap.String("language", lang), zap.String("error", queryErr.Error()))
		return []extractor.Match{}, nil
	}
	defer query.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	matches := cursor.Matches(query, rootNode, content)

	captureNames := query.CaptureNames()

	var results []extractor.Match
	seen := make(map[string]bool)

	for {
		match := matches.Next()
		if match == nil {
			break
		}

		matchMap := make(map[string]string)
		var keyNode *sitter.Node
		for _, capture := range match.Captures {
			if int(capture.Index) >= len(captureNames) {
				continue
			}
			name := captureNames[capture.Index]
			node := capture.Node
			matchMap[name] = string(content[node.StartByte():node.EndByte()])
			if name == "key" {
				keyNode = &node
			}
		}

		found := languages.ExtractLookupCalls([]map[string]string{matchMap}, p.lookups, langInfo.Unquote)
		for _, lookup := range found {
			if seen[lookup.Key] || keyNode == nil {
				continue
			}
			seen[lookup.Key] = true

			line := int(keyNode.StartPosition().Row) + 1
			p.log.Debug("lookup call",
				zap.String("file", fileName),
				zap.Int("line", line),
				zap.String("function", matchMap["fn"]),
				zap.String("key", lookup.Key),
			)
			results = append(results, extractor.Match{Key: lookup.Key, Line: line, Multi: lookup.Multi})
		}
	}

	return results, nil
}
