package languages

import (
	"regexp"
	"strings"
)

// LookupMatch represents a lookup call with a literal key argument
type LookupMatch struct {
	Key   string
	Multi bool // True if the call was a multi-value lookup
}

// LanguageInfo contains the query and literal unquoting for a language.
// Every query captures the called function name as @fn and the first
// argument as @key.
type LanguageInfo struct {
	Query   string
	Unquote func(string) string
}

// Lookups is the set of function names recognized as lookups
type Lookups struct {
	Single map[string]bool
	Multi  map[string]bool
}

// NewLookups builds a lookup set from name lists
func NewLookups(single, multi []string) Lookups {
	l := Lookups{Single: make(map[string]bool), Multi: make(map[string]bool)}
	for _, name := range single {
		l.Single[name] = true
	}
	for _, name := range multi {
		l.Multi[name] = true
	}
	return l
}

// keyPattern matches the key paths the pattern extractor accepts
var keyPattern = regexp.MustCompile(`^/[0-9a-zA-Z_/*]+$`)

// GetLanguageInfo returns the query and unquoting for a given language
func GetLanguageInfo(lang string) *LanguageInfo {
	switch lang {
	case "javascript", "typescript":
		return &LanguageInfo{Query: JavaScriptQuery, Unquote: trimQuotes}
	case "go":
		return &LanguageInfo{Query: GoQuery, Unquote: trimQuotes}
	case "python":
		return &LanguageInfo{Query: PythonQuery, Unquote: unquotePython}
	case "rust":
		return &LanguageInfo{Query: RustQuery, Unquote: unquoteRust}
	case "java":
		return &LanguageInfo{Query: JavaQuery, Unquote: trimQuotes}
	default:
		return nil
	}
}

// ExtractLookupCalls filters query matches down to calls of a known lookup
// function with a literal key path. Results keep first-occurrence order and
// are deduplicated by key.
func ExtractLookupCalls(matches []map[string]string, lookups Lookups, unquote func(string) string) []LookupMatch {
	var results []LookupMatch
	seen := make(map[string]bool)

	for _, match := range matches {
		fn, fnOk := match["fn"]
		raw, keyOk := match["key"]
		if !fnOk || !keyOk {
			continue
		}

		multi := lookups.Multi[fn]
		if !multi && !lookups.Single[fn] {
			continue
		}

		key := raw
		if unquote != nil {
			key = unquote(raw)
		}
		if !keyPattern.MatchString(key) || seen[key] {
			continue
		}

		results = append(results, LookupMatch{Key: key, Multi: multi})
		seen[key] = true
	}

	return results
}

// trimQuotes removes surrounding quotes from a string
func trimQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') ||
			(s[0] == '`' && s[len(s)-1] == '`') ||
			(s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// unquotePython strips string prefixes (r, u, b, f) and single or triple quotes
func unquotePython(s string) string {
	s = strings.TrimLeft(s, "rRuUbBfF")
	for _, q := range []string{`"""`, `'''`} {
		if len(s) >= 6 && strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
			return s[3 : len(s)-3]
		}
	}
	return trimQuotes(s)
}

// unquoteRust handles "..." as well as raw strings r"..." and r#"..."#
func unquoteRust(s string) string {
	if strings.HasPrefix(s, "r") {
		s = strings.TrimPrefix(s, "r")
		hashes := len(s) - len(strings.TrimLeft(s, "#"))
		if hashes > 0 && len(s) >= 2*hashes {
			s = s[hashes : len(s)-hashes]
		}
	}
	return trimQuotes(s)
}
