// Package extractor finds localization key paths referenced in source text.
//
// A reference is a call of one of the configured lookup functions whose first
// argument is a verbatim string literal, e.g.
//
//	GetLanguageTextByXPath(@"/Menu/File", language)
//	GetLanguageTextListByXPath(@"/Tips/*", language)
//
// Whitespace is removed before matching, so calls split across lines or
// re-indented are still found.
package extractor

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultSingleLookup resolves a key to one text
	DefaultSingleLookup = "GetLanguageTextByXPath"
	// DefaultMultiLookup resolves a wildcard key to a list of texts
	DefaultMultiLookup = "GetLanguageTextListByXPath"
)

// keyChars is the character class a key path argument is made of
const keyChars = `[0-9a-zA-Z_/*]`

// ErrNoLookups is returned when neither single nor multi lookup names are configured
var ErrNoLookups = errors.New("no lookup function names configured")

// Match is one distinct key found in a file
type Match struct {
	Key   string
	Line  int  // 1-based line of the first occurrence
	Multi bool // True if found through a multi-value lookup
}

// Extractor matches lookup calls in source text
type Extractor struct {
	re    *regexp.Regexp
	multi map[string]bool
}

// New creates an extractor for the given lookup function names
func New(single, multi []string) (*Extractor, error) {
	names := make([]string, 0, len(single)+len(multi))
	multiSet := make(map[string]bool, len(multi))
	for _, name := range single {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	for _, name := range multi {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
			multiSet[name] = true
		}
	}
	if len(names) == 0 {
		return nil, ErrNoLookups
	}

	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = regexp.QuoteMeta(name)
	}

	re, err := regexp.Compile(`(` + strings.Join(quoted, "|") + `)\(@"(` + keyChars + `*)`)
	if err != nil {
		return nil, err
	}
	return &Extractor{re: re, multi: multiSet}, nil
}

// Default returns an extractor for DefaultSingleLookup and DefaultMultiLookup
func Default() *Extractor {
	e, err := New([]string{DefaultSingleLookup}, []string{DefaultMultiLookup})
	if err != nil {
		panic(err)
	}
	return e
}

// Extract returns the distinct keys referenced in content, in order of first occurrence
func (e *Extractor) Extract(content []byte) []Match {
	compact, offsets := stripWhitespace(content)

	var matches []Match
	seen := make(map[string]bool)
	for _, loc := range e.re.FindAllSubmatchIndex(compact, -1) {
		key := string(compact[loc[4]:loc[5]])
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		fn := string(compact[loc[2]:loc[3]])
		matches = append(matches, Match{
			Key:   key,
			Line:  lineAt(content, offsets[loc[0]]),
			Multi: e.multi[fn],
		})
	}
	return matches
}

// stripWhitespace drops every whitespace rune from content. offsets[i] is the
// position in content of compact byte i.
func stripWhitespace(content []byte) (compact []byte, offsets []int) {
	compact = make([]byte, 0, len(content))
	offsets = make([]int, 0, len(content))
	for i := 0; i < len(content); {
		r, size := utf8.DecodeRune(content[i:])
		if !unicode.IsSpace(r) {
			for j := i; j < i+size; j++ {
				compact = append(compact, content[j])
				offsets = append(offsets, j)
			}
		}
		i += size
	}
	return compact, offsets
}

func lineAt(content []byte, offset int) int {
	return strings.Count(string(content[:offset]), "\n") + 1
}
