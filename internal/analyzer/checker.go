package analyzer

import (
	"context"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jenian/langkeys/internal/config"
	"github.com/jenian/langkeys/internal/extractor"
)

// DefaultCacheSize is the number of project roots whose keys a Checker keeps
const DefaultCacheSize = 16

// Collector gathers the keys referenced by the sources under a root directory.
// *project.Collector implements it.
type Collector interface {
	Collect(ctx context.Context, root string) (*extractor.Usages, error)
}

// Checker runs both checks for project roots against one document. The keys
// of a root are collected on first use and shared by every later check of
// that root.
type Checker struct {
	lookup    Lookup
	collector Collector
	cfg       *config.Config

	mu      sync.Mutex
	usages  *lru.Cache[string, *extractor.Usages]
	lastErr error
}

// NewChecker creates a checker
func NewChecker(lookup Lookup, collector Collector, cfg *config.Config) *Checker {
	// lru.New only fails for a non-positive size
	cache, _ := lru.New[string, *extractor.Usages](DefaultCacheSize)
	return &Checker{
		lookup:    lookup,
		collector: collector,
		cfg:       cfg,
		usages:    cache,
	}
}

// Err returns the last collection or check failure
func (c *Checker) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Checker) setErr(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}

// Usages returns the keys referenced under root, collecting them on first use.
// Failed collections are not cached.
func (c *Checker) Usages(ctx context.Context, root string) (*extractor.Usages, error) {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if u, ok := c.usages.Get(root); ok {
		return u, nil
	}
	u, err := c.collector.Collect(ctx, root)
	if err != nil {
		return nil, err
	}
	c.usages.Add(root, u)
	return u, nil
}

// Forget drops the cached keys of root so the next check collects them again
func (c *Checker) Forget(root string) {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	c.usages.Remove(root)
}

func (c *Checker) reconciler(ctx context.Context, root string) (*Reconciler, bool) {
	usages, err := c.Usages(ctx, root)
	if err != nil {
		c.setErr(err)
		return nil, false
	}
	return NewReconciler(c.lookup, usages, c.cfg), true
}

// CheckProjectKeysAgainstXML returns the keys referenced under root that are
// missing from the document, per language. It returns nil when the sources
// could not be collected; see Err.
func (c *Checker) CheckProjectKeysAgainstXML(ctx context.Context, root string) []Mismatch {
	r, ok := c.reconciler(ctx, root)
	if !ok {
		return nil
	}
	missing := r.CheckProjectKeys()
	if err := r.Err(); err != nil {
		c.setErr(err)
	}
	return missing
}

// CheckXMLKeysAgainstProject returns the document leaves not referenced under root
func (c *Checker) CheckXMLKeysAgainstProject(ctx context.Context, root string) []Mismatch {
	r, ok := c.reconciler(ctx, root)
	if !ok {
		return nil
	}
	unused := r.CheckXMLKeys()
	if err := r.Err(); err != nil {
		c.setErr(err)
	}
	return unused
}

// Analyze runs both checks for root
func (c *Checker) Analyze(ctx context.Context, root string) Report {
	r, ok := c.reconciler(ctx, root)
	if !ok {
		return Report{Missing: []Mismatch{}, Unused: []Mismatch{}, Err: c.Err().Error()}
	}
	report := r.Analyze()
	if err := r.Err(); err != nil {
		c.setErr(err)
	}
	return report
}
