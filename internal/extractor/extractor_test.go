package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []Match
	}{
		{
			name:     "single call",
			content:  `label.Text = lang.GetLanguageTextByXPath(@"/A/B", someLang);`,
			expected: []Match{{Key: "/A/B", Line: 1}},
		},
		{
			name: "call split across lines",
			content: "var s = lang.GetLanguageTextByXPath (\n" +
				"    @\"/A/B\",\n" +
				"    someLang);",
			expected: []Match{{Key: "/A/B", Line: 1}},
		},
		{
			name:     "interior whitespace inside the call",
			content:  "GetLanguageTextByXPath\t(\r\n @\"/Menu/File\" , lang)",
			expected: []Match{{Key: "/Menu/File", Line: 1}},
		},
		{
			name: "duplicates collapse to first occurrence",
			content: "\n" +
				"a = GetLanguageTextByXPath(@\"/A/B\", l);\n" +
				"b = GetLanguageTextByXPath(@\"/A/B\", l);\n",
			expected: []Match{{Key: "/A/B", Line: 2}},
		},
		{
			name:     "multi-value lookup with wildcard",
			content:  `tips = GetLanguageTextListByXPath(@"/Tips/*", l);`,
			expected: []Match{{Key: "/Tips/*", Line: 1, Multi: true}},
		},
		{
			name: "both lookups in order",
			content: "x = GetLanguageTextListByXPath(@\"/List/*\", l);\n" +
				"y = GetLanguageTextByXPath(@\"/Title\", l);",
			expected: []Match{
				{Key: "/List/*", Line: 1, Multi: true},
				{Key: "/Title", Line: 2},
			},
		},
		{
			name:     "argument stops at first non key character",
			content:  `GetLanguageTextByXPath(@"/Msg/Err-1", l)`,
			expected: []Match{{Key: "/Msg/Err", Line: 1}},
		},
		{
			name:     "plain string literal is not a match",
			content:  `GetLanguageTextByXPath("/A/B", l)`,
			expected: nil,
		},
		{
			name:     "variable argument is not a match",
			content:  `GetLanguageTextByXPath(key, l)`,
			expected: nil,
		},
		{
			name:     "empty literal is dropped",
			content:  `GetLanguageTextByXPath(@"", l)`,
			expected: nil,
		},
		{
			name:     "after return keyword",
			content:  "return GetLanguageTextByXPath(@\"/A\", l);",
			expected: []Match{{Key: "/A", Line: 1}},
		},
		{
			name:     "non ascii content before the call",
			content:  "// Größe\nGetLanguageTextByXPath(@\"/Size\", l)",
			expected: []Match{{Key: "/Size", Line: 2}},
		},
	}

	e := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, e.Extract([]byte(tt.content)))
		})
	}
}

func TestExtract_Idempotent(t *testing.T) {
	content := []byte("GetLanguageTextByXPath(@\"/A\", l);\nGetLanguageTextListByXPath(@\"/B/*\", l);")
	e := Default()
	assert.Equal(t, e.Extract(content), e.Extract(content))
}

func TestNew_CustomNames(t *testing.T) {
	e, err := New([]string{"T"}, []string{"TList"})
	require.NoError(t, err)

	matches := e.Extract([]byte(`T(@"/A"); TList(@"/B/*"); GetLanguageTextByXPath(@"/C", l)`))
	assert.Equal(t, []Match{
		{Key: "/A", Line: 1},
		{Key: "/B/*", Line: 1, Multi: true},
	}, matches)
}

func TestNew_NoNames(t *testing.T) {
	_, err := New(nil, []string{" "})
	assert.ErrorIs(t, err, ErrNoLookups)
}

func TestUsages_FirstFileWins(t *testing.T) {
	e := Default()
	usages := NewUsages()

	usages.AddMatches("fileA.cs", e.Extract([]byte(`GetLanguageTextByXPath(@"/K", l)`)))
	usages.AddMatches("fileB.cs", e.Extract([]byte(`GetLanguageTextByXPath(@"/K", l); GetLanguageTextByXPath(@"/J", l)`)))

	require.Equal(t, 2, usages.Len())
	assert.Equal(t, []string{"/K", "/J"}, usages.Keys())

	k, ok := usages.Get("/K")
	require.True(t, ok)
	assert.Equal(t, "fileA.cs", k.File)

	j, ok := usages.Get("/J")
	require.True(t, ok)
	assert.Equal(t, "fileB.cs", j.File)

	assert.False(t, usages.Add(Usage{Key: "/K", File: "fileC.cs"}))
	_, ok = usages.Get("/missing")
	assert.False(t, ok)
}

func TestUsages_KeysIsACopy(t *testing.T) {
	usages := NewUsages()
	usages.Add(Usage{Key: "/A"})
	keys := usages.Keys()
	keys[0] = "/B"
	assert.Equal(t, []string{"/A"}, usages.Keys())
	assert.Equal(t, []Usage{{Key: "/A"}}, usages.All())
}
