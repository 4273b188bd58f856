package langxml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/jenian/langkeys/internal/keypath"
	"gopkg.in/xmlpath.v2"
)

// Invalid is the text returned by the Legacy lookups when a key does not resolve
const Invalid = "invalid"

var (
	// ErrInvalidLanguage is recorded when a language name is empty or contains a separator
	ErrInvalidLanguage = errors.New("invalid language name")
	// ErrEmptyKey is recorded for lookups of the root key "/"
	ErrEmptyKey = errors.New("key path has no segments")
)

// Store is a read-only view over a parsed language document.
// A Store that failed to load stays usable: every lookup reports "not found"
// and Err returns the load failure.
type Store struct {
	name string

	root   *Element
	doc    *xmlpath.Node
	leaves []string

	initialized bool

	mu      sync.Mutex
	lastErr error
}

// Open reads and parses the language document at path
func Open(path string) *Store {
	f, err := os.Open(path)
	if err != nil {
		return &Store{name: path, lastErr: fmt.Errorf("failed to open language file: %w", err)}
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse reads a language document from r. name is used in error messages only.
func Parse(r io.Reader, name string) *Store {
	s := &Store{name: name}

	data, err := io.ReadAll(r)
	if err != nil {
		s.lastErr = fmt.Errorf("failed to read %s: %w", name, err)
		return s
	}

	root, err := parseTree(data)
	if err != nil {
		s.lastErr = fmt.Errorf("%s: %w", name, err)
		return s
	}

	doc, err := xmlpath.Parse(bytes.NewReader(data))
	if err != nil {
		s.lastErr = fmt.Errorf("%s: failed to index XML: %w", name, err)
		return s
	}

	s.root = root
	s.doc = doc
	s.leaves = LeafPaths(root)
	s.initialized = true
	return s
}

// Name returns the file name the store was loaded from
func (s *Store) Name() string {
	return s.name
}

// Initialized reports whether the document was loaded successfully
func (s *Store) Initialized() bool {
	return s.initialized
}

// Err returns the last recorded failure, if any
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Store) setErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

// Root returns the document element, or nil when not initialized
func (s *Store) Root() *Element {
	return s.root
}

// LeafPaths returns every leaf path of the document in document order.
// The slice is shared; callers must not modify it.
func (s *Store) LeafPaths() []string {
	return s.leaves
}

// AvailableLanguages returns the names of the root's child elements in
// document order. It returns nil when the store is not initialized, the root
// is not <Language>, or no language is declared.
func (s *Store) AvailableLanguages() []string {
	if !s.initialized || s.root.Name != RootName || len(s.root.Children) == 0 {
		return nil
	}
	langs := make([]string, 0, len(s.root.Children))
	for _, child := range s.root.Children {
		langs = append(langs, child.Name)
	}
	return langs
}

// TextFor returns the text attribute of the leaf at /Language/<language><key>
func (s *Store) TextFor(key, language string) (string, bool) {
	path, ok := s.compile(key, language)
	if !ok {
		return "", false
	}
	return path.String(s.doc)
}

// TextListFor returns the text attribute of every leaf matching
// /Language/<language><key>, in document order. It is meant for keys that
// end in the "*" wildcard, but works for any key.
func (s *Store) TextListFor(key, language string) ([]string, bool) {
	path, ok := s.compile(key, language)
	if !ok {
		return nil, false
	}

	var texts []string
	iter := path.Iter(s.doc)
	for iter.Next() {
		texts = append(texts, iter.Node().String())
	}
	if len(texts) == 0 {
		return nil, false
	}
	return texts, true
}

// LegacyTextFor is TextFor with the "invalid" sentinel in place of ok=false
func (s *Store) LegacyTextFor(key, language string) string {
	text, ok := s.TextFor(key, language)
	if !ok {
		return Invalid
	}
	return text
}

// LegacyTextListFor is TextListFor returning []string{"invalid"} when nothing matches
func (s *Store) LegacyTextListFor(key, language string) []string {
	texts, ok := s.TextListFor(key, language)
	if !ok {
		return []string{Invalid}
	}
	return texts
}

// AbsolutePath returns the document path a key resolves to for a language
func AbsolutePath(key, language string) string {
	return keypath.Separator + RootName + keypath.Separator + language + key
}

func (s *Store) compile(key, language string) (*xmlpath.Path, bool) {
	if !s.initialized {
		return nil, false
	}
	if language == "" || strings.Contains(language, keypath.Separator) {
		s.setErr(fmt.Errorf("%w: %q", ErrInvalidLanguage, language))
		return nil, false
	}
	kp, err := keypath.Parse(key)
	if err != nil {
		s.setErr(err)
		return nil, false
	}
	if kp.Len() == 0 {
		s.setErr(ErrEmptyKey)
		return nil, false
	}

	expr := AbsolutePath(key, language) + keypath.Separator + "@" + TextAttr
	path, err := xmlpath.Compile(expr)
	if err != nil {
		s.setErr(fmt.Errorf("failed to compile %q: %w", expr, err))
		return nil, false
	}
	return path, true
}
