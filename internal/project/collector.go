// Package project collects the localization keys referenced by the source
// files of a project.
package project

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/jenian/langkeys/internal/extractor"
	"github.com/jenian/langkeys/internal/logger"
	"github.com/jenian/langkeys/internal/scanner"
	"go.uber.org/zap"
)

// DefaultWorkers bounds the number of files read and parsed concurrently
const DefaultWorkers = 10

// KeyParser extracts lookup calls from source code using a syntax tree
type KeyParser interface {
	Parse(fileName, lang string, content []byte) ([]extractor.Match, error)
}

// Collector walks a project and records the first file referencing each key
type Collector struct {
	scanner   *scanner.Scanner
	extractor *extractor.Extractor
	parser    KeyParser
	log       *zap.Logger
	workers   int
}

// Option configures a Collector
type Option func(*Collector)

// WithParser enables syntax tree extraction for the languages the parser supports.
// Without a parser only C# sources are read.
func WithParser(p KeyParser) Option {
	return func(c *Collector) { c.parser = p }
}

// WithLogger sets the logger used for per-file warnings and debug output
func WithLogger(l *zap.Logger) Option {
	return func(c *Collector) { c.log = l }
}

// WithWorkers sets the number of concurrent workers
func WithWorkers(n int) Option {
	return func(c *Collector) {
		if n > 0 {
			c.workers = n
		}
	}
}

// NewCollector creates a collector. s decides which files are visited and e
// extracts keys from C# sources.
func NewCollector(s *scanner.Scanner, e *extractor.Extractor, opts ...Option) *Collector {
	c := &Collector{
		scanner:   s,
		extractor: e,
		log:       zap.NewNop(),
		workers:   DefaultWorkers,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// fileResult holds the keys of one file, stored at the file's walk index
type fileResult struct {
	matches []extractor.Match
	ok      bool
}

// Collect scans root and returns the referenced keys. Files are processed
// in parallel but merged in walk order, so the owner of a key referenced by
// several files is always the first one in lexical order.
// Unreadable or unparsable files are logged and skipped.
func (c *Collector) Collect(ctx context.Context, root string) (*extractor.Usages, error) {
	files, err := c.scanner.Scan(root)
	if err != nil {
		return nil, err
	}

	results := make([]fileResult, len(files))
	var wg sync.WaitGroup
	workers := make(chan struct{}, c.workers)

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			break
		}

		wg.Add(1)
		workers <- struct{}{} // Acquire worker

		go func(i int, f scanner.FileInfo) {
			defer wg.Done()
			defer func() { <-workers }() // Release worker

			matches, ok := c.extractFile(f)
			results[i] = fileResult{matches: matches, ok: ok}
		}(i, file)
	}

	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("collecting keys in %s: %w", root, err)
	}

	usages := extractor.NewUsages()
	parsed := 0
	for i, r := range results {
		if !r.ok {
			continue
		}
		parsed++
		usages.AddMatches(files[i].Rel, r.matches)
	}

	c.log.Debug("collected keys",
		zap.String("root", root),
		zap.Int("files", len(files)),
		zap.Int("parsed", parsed),
		zap.Int("keys", usages.Len()),
	)
	return usages, nil
}

func (c *Collector) extractFile(f scanner.FileInfo) ([]extractor.Match, bool) {
	log := logger.WithFile(c.log, f.Rel)

	if f.Language != scanner.LanguageCSharp && c.parser == nil {
		return nil, false
	}

	content, err := os.ReadFile(f.Path)
	if err != nil {
		log.Warn("failed to read file", zap.Error(err))
		return nil, false
	}

	if f.Language == scanner.LanguageCSharp {
		matches := c.extractor.Extract(content)
		for _, m := range matches {
			log.Debug("lookup call", zap.Int("line", m.Line), zap.String("key", m.Key), zap.Bool("multi", m.Multi))
		}
		return matches, true
	}

	matches, err := c.parser.Parse(f.Rel, string(f.Language), content)
	if err != nil {
		log.Warn("failed to parse file", zap.String("language", string(f.Language)), zap.Error(err))
		return nil, false
	}
	return matches, true
}
