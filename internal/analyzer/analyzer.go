// Package analyzer reconciles the keys referenced in source code with the
// keys declared in a language document, in both directions.
package analyzer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jenian/langkeys/internal/config"
	"github.com/jenian/langkeys/internal/extractor"
	"github.com/jenian/langkeys/internal/keypath"
	"github.com/jenian/langkeys/internal/langxml"
)

var (
	// ErrNoLanguages is recorded when the document is not loaded or declares no language
	ErrNoLanguages = errors.New("language document declares no languages")
	// ErrMalformedLeafPath is recorded when a leaf path cannot be split into language and key
	ErrMalformedLeafPath = errors.New("malformed leaf path")
)

// Lookup answers key queries against a language document.
// *langxml.Store implements it.
type Lookup interface {
	AvailableLanguages() []string
	TextFor(key, language string) (string, bool)
	TextListFor(key, language string) ([]string, bool)
	LeafPaths() []string
}

// Reconciler compares the referenced keys with the declared keys
type Reconciler struct {
	lookup Lookup
	usages *extractor.Usages
	cfg    *config.Config

	mu      sync.Mutex
	lastErr error
}

// NewReconciler creates a reconciler. A nil cfg means no ignores and all languages.
func NewReconciler(lookup Lookup, usages *extractor.Usages, cfg *config.Config) *Reconciler {
	if cfg == nil {
		cfg = config.Default()
	}
	if usages == nil {
		usages = extractor.NewUsages()
	}
	return &Reconciler{lookup: lookup, usages: usages, cfg: cfg}
}

// Err returns the last failure recorded by a check
func (r *Reconciler) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

func (r *Reconciler) setErr(err error) {
	r.mu.Lock()
	r.lastErr = err
	r.mu.Unlock()
}

// languages returns the declared languages selected by the configuration
func (r *Reconciler) languages() []string {
	var langs []string
	for _, l := range r.lookup.AvailableLanguages() {
		if r.cfg.IncludesLanguage(l) {
			langs = append(langs, l)
		}
	}
	return langs
}

// Supported reports whether key uses at most one wildcard, in last position.
// Keys that are not valid paths are supported: they simply never resolve.
func Supported(key string) bool {
	p, err := keypath.Parse(key)
	if err != nil {
		return true
	}
	return p.SingleLevel()
}

// CheckProjectKeys returns, for every language and then every referenced key,
// the keys that do not resolve in the document
func (r *Reconciler) CheckProjectKeys() []Mismatch {
	missing, _ := r.checkProjectKeys()
	return missing
}

func (r *Reconciler) checkProjectKeys() (missing []Mismatch, ignored int) {
	langs := r.languages()
	if len(langs) == 0 {
		r.setErr(ErrNoLanguages)
		return nil, 0
	}

	var checked []extractor.Usage
	for _, u := range r.usages.All() {
		if !Supported(u.Key) {
			continue
		}
		if r.cfg.ShouldIgnoreMissing(u.Key) {
			ignored++
			continue
		}
		checked = append(checked, u)
	}

	for _, lang := range langs {
		for _, u := range checked {
			if !r.resolves(u, lang) {
				missing = append(missing, Mismatch{Language: lang, Key: u.Key, File: u.File, Line: u.Line})
			}
		}
	}
	return missing, ignored
}

func (r *Reconciler) resolves(u extractor.Usage, lang string) bool {
	if u.Multi || isWildcardKey(u.Key) {
		_, ok := r.lookup.TextListFor(u.Key, lang)
		return ok
	}
	_, ok := r.lookup.TextFor(u.Key, lang)
	return ok
}

func isWildcardKey(key string) bool {
	p, err := keypath.Parse(key)
	return err == nil && p.IsWildcard()
}

// CheckXMLKeys returns the document leaves that no referenced key addresses,
// in document order. A leaf is used when a key addresses it directly or when
// a wildcard key addresses its group of siblings. A leaf path that cannot be
// split into language and key stops the check; the mismatches found before
// it are returned and the failure is available from Err.
func (r *Reconciler) CheckXMLKeys() []Mismatch {
	unused, _, err := r.checkXMLKeys()
	if err != nil {
		r.setErr(err)
	}
	return unused
}

func (r *Reconciler) checkXMLKeys() (unused []Mismatch, ignored int, err error) {
	langs := r.languages()
	if len(langs) == 0 {
		return nil, 0, ErrNoLanguages
	}

	included := make(map[string]bool, len(langs))
	for _, l := range langs {
		included[l] = true
	}

	used := make(map[string]bool)
	for _, l := range r.lookup.AvailableLanguages() {
		for _, key := range r.usages.Keys() {
			if Supported(key) {
				used[langxml.AbsolutePath(key, l)] = true
			}
		}
	}

	for _, leaf := range r.lookup.LeafPaths() {
		lang, key, splitErr := splitLeaf(leaf)
		if splitErr != nil {
			return unused, ignored, splitErr
		}
		if !included[lang] || isUsed(leaf, used) {
			continue
		}
		if r.cfg.ShouldIgnoreUnused(key) {
			ignored++
			continue
		}
		unused = append(unused, Mismatch{Language: lang, Key: key})
	}
	return unused, ignored, nil
}

func isUsed(leaf string, used map[string]bool) bool {
	if used[leaf] {
		return true
	}
	p, err := keypath.Parse(leaf)
	if err != nil {
		return false
	}
	return used[p.AsGroup().String()]
}

// splitLeaf splits /Language/<language>/<key...> into language and key
func splitLeaf(leaf string) (lang, key string, err error) {
	p, err := keypath.Parse(leaf)
	if err != nil {
		return "", "", fmt.Errorf("%w %q: %w", ErrMalformedLeafPath, leaf, err)
	}
	if p.Len() < 3 || p[0] != langxml.RootName {
		return "", "", fmt.Errorf("%w %q: want /%s/<language>/<key>", ErrMalformedLeafPath, leaf, langxml.RootName)
	}
	return p[1], p[2:].String(), nil
}

// Analyze runs both checks
func (r *Reconciler) Analyze() Report {
	report := Report{
		Missing:   []Mismatch{},
		Unused:    []Mismatch{},
		Languages: r.languages(),
		KeyCount:  r.usages.Len(),
		LeafCount: len(r.lookup.LeafPaths()),
	}

	for _, u := range r.usages.All() {
		if !Supported(u.Key) {
			report.Unsupported = append(report.Unsupported, u)
		}
	}

	missing, ignored := r.checkProjectKeys()
	if missing != nil {
		report.Missing = missing
	}
	report.IgnoredMissing = ignored

	unused, ignored, err := r.checkXMLKeys()
	if unused != nil {
		report.Unused = unused
	}
	report.IgnoredUnused = ignored
	if err != nil {
		r.setErr(err)
	}
	if err := r.Err(); err != nil {
		report.Err = err.Error()
	}
	return report
}
