package languages

import (
	"reflect"
	"testing"
)

var testLookups = NewLookups([]string{"GetLanguageTextByXPath"}, []string{"GetLanguageTextListByXPath"})

func TestGetLanguageInfo(t *testing.T) {
	tests := []struct {
		lang  string
		query string
	}{
		{"javascript", JavaScriptQuery},
		{"typescript", JavaScriptQuery},
		{"go", GoQuery},
		{"python", PythonQuery},
		{"rust", RustQuery},
		{"java", JavaQuery},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			info := GetLanguageInfo(tt.lang)
			if info == nil {
				t.Fatalf("GetLanguageInfo(%q) returned nil", tt.lang)
			}
			if info.Query != tt.query {
				t.Errorf("GetLanguageInfo(%q) returned the wrong query", tt.lang)
			}
			if info.Unquote == nil {
				t.Errorf("GetLanguageInfo(%q) has no unquote function", tt.lang)
			}
		})
	}

	if GetLanguageInfo("csharp") != nil {
		t.Error("csharp is handled by the pattern extractor and must not have a query")
	}
}

func TestExtractLookupCalls(t *testing.T) {
	tests := []struct {
		name     string
		matches  []map[string]string
		expected []LookupMatch
	}{
		{
			name: "single lookup",
			matches: []map[string]string{
				{"fn": "GetLanguageTextByXPath", "key": `"/Menu/File"`},
			},
			expected: []LookupMatch{{Key: "/Menu/File"}},
		},
		{
			name: "multi lookup",
			matches: []map[string]string{
				{"fn": "GetLanguageTextListByXPath", "key": `"/Tips/*"`},
			},
			expected: []LookupMatch{{Key: "/Tips/*", Multi: true}},
		},
		{
			name: "other functions are ignored",
			matches: []map[string]string{
				{"fn": "Println", "key": `"/Menu/File"`},
			},
			expected: nil,
		},
		{
			name: "non key literals are ignored",
			matches: []map[string]string{
				{"fn": "GetLanguageTextByXPath", "key": `"Menu/File"`},
				{"fn": "GetLanguageTextByXPath", "key": `"/Menu/%s"`},
				{"fn": "GetLanguageTextByXPath", "key": `""`},
			},
			expected: nil,
		},
		{
			name: "duplicates keep first",
			matches: []map[string]string{
				{"fn": "GetLanguageTextByXPath", "key": `"/A"`},
				{"fn": "GetLanguageTextListByXPath", "key": `"/A"`},
				{"fn": "GetLanguageTextByXPath", "key": `"/B"`},
			},
			expected: []LookupMatch{{Key: "/A"}, {Key: "/B"}},
		},
		{
			name: "incomplete match",
			matches: []map[string]string{
				{"fn": "GetLanguageTextByXPath"},
			},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractLookupCalls(tt.matches, testLookups, trimQuotes)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		name     string
		fn       func(string) string
		input    string
		expected string
	}{
		{"double quotes", trimQuotes, `"/A"`, "/A"},
		{"single quotes", trimQuotes, `'/A'`, "/A"},
		{"backticks", trimQuotes, "`/A`", "/A"},
		{"unquoted", trimQuotes, "/A", "/A"},
		{"python raw", unquotePython, `r"/A"`, "/A"},
		{"python triple", unquotePython, `"""/A"""`, "/A"},
		{"python single", unquotePython, `'/A'`, "/A"},
		{"rust plain", unquoteRust, `"/A"`, "/A"},
		{"rust raw", unquoteRust, `r"/A"`, "/A"},
		{"rust raw hashes", unquoteRust, `r#"/A"#`, "/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.input); got != tt.expected {
				t.Errorf("unquote(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
