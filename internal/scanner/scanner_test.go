package scanner

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		path     string
		expected Language
	}{
		{"Form.cs", LanguageCSharp},
		{"FORM.CS", LanguageCSharp},
		{"test.js", LanguageJavaScript},
		{"test.jsx", LanguageJavaScript},
		{"test.mjs", LanguageJavaScript},
		{"test.ts", LanguageTypeScript},
		{"test.tsx", LanguageTypeScript},
		{"test.go", LanguageGo},
		{"test.py", LanguagePython},
		{"test.rs", LanguageRust},
		{"Test.java", LanguageJava},
		{"Language.xml", LanguageUnknown},
		{"test.txt", LanguageUnknown},
		{"test", LanguageUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			result := DetectLanguage(tt.path)
			if result != tt.expected {
				t.Errorf("DetectLanguage(%q) = %v, want %v", tt.path, result, tt.expected)
			}
		})
	}
}

// writeTree creates files (relative slash paths) under a fresh temp dir
func writeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", f, err)
		}
		if err := os.WriteFile(path, []byte("// "+f), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", f, err)
		}
	}
	return root
}

func relPaths(files []FileInfo) []string {
	var rels []string
	for _, f := range files {
		rels = append(rels, f.Rel)
	}
	return rels
}

func TestScanner_Scan(t *testing.T) {
	root := writeTree(t,
		"src/Main.cs",
		"src/app.js",
		"src/readme.txt",
		"Language.xml",
		"node_modules/lib.js",
		"bin/Debug/Generated.cs",
		"obj/Temp.cs",
		"a.go",
	)

	files, err := NewScanner().Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	expected := []string{"a.go", "src/Main.cs", "src/app.js"}
	if got := relPaths(files); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}

	if files[1].Language != LanguageCSharp {
		t.Errorf("Expected csharp for %s, got %v", files[1].Rel, files[1].Language)
	}
	if files[1].Path != filepath.Join(root, "src", "Main.cs") {
		t.Errorf("Unexpected absolute path %s", files[1].Path)
	}
}

func TestScanner_ExcludeDirs(t *testing.T) {
	root := writeTree(t,
		"src/Main.cs",
		"src/Tests/MainTests.cs",
		"Tests/Other.cs",
		"tools/gen/Gen.cs",
		"tools/Tool.cs",
	)

	scanner := NewScanner()
	if err := scanner.AddExcludeDirs([]string{"Tests", "tools/*"}); err != nil {
		t.Fatalf("AddExcludeDirs failed: %v", err)
	}

	files, err := scanner.Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	expected := []string{"src/Main.cs", "tools/Tool.cs"}
	if got := relPaths(files); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestScanner_Globs(t *testing.T) {
	root := writeTree(t,
		"src/Main.cs",
		"src/Main.Designer.cs",
		"src/app.go",
		"lib/util.go",
	)

	tests := []struct {
		name     string
		include  []string
		exclude  []string
		expected []string
	}{
		{
			name:     "exclude by base name",
			exclude:  []string{"*.Designer.cs"},
			expected: []string{"lib/util.go", "src/Main.cs", "src/app.go"},
		},
		{
			name:     "include by extension",
			include:  []string{"*.go"},
			expected: []string{"lib/util.go", "src/app.go"},
		},
		{
			name:     "include by path",
			include:  []string{"src/**"},
			expected: []string{"src/Main.Designer.cs", "src/Main.cs", "src/app.go"},
		},
		{
			name:     "include overrides exclude",
			include:  []string{"*.cs"},
			exclude:  []string{"*.cs"},
			expected: []string{"src/Main.Designer.cs", "src/Main.cs"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scanner := NewScanner()
			if err := scanner.SetIncludeGlobs(tt.include); err != nil {
				t.Fatalf("SetIncludeGlobs failed: %v", err)
			}
			if err := scanner.SetExcludeGlobs(tt.exclude); err != nil {
				t.Fatalf("SetExcludeGlobs failed: %v", err)
			}

			files, err := scanner.Scan(root)
			if err != nil {
				t.Fatalf("Scan failed: %v", err)
			}
			if got := relPaths(files); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestScanner_InvalidPatterns(t *testing.T) {
	scanner := NewScanner()
	if err := scanner.SetIncludeGlobs([]string{"src/["}); err == nil {
		t.Error("Expected an error for an unclosed character class")
	}
	if err := scanner.AddExcludeDirs([]string{"a/["}); err == nil {
		t.Error("Expected an error for an invalid folder pattern")
	}
}

func TestScanner_MissingRoot(t *testing.T) {
	_, err := NewScanner().Scan(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Error("Expected an error for a missing root")
	}
}

func TestScanner_LexicalOrder(t *testing.T) {
	// Files and subdirectories interleave by name, so A/x.cs comes before Z.cs
	root := writeTree(t, "Z.cs", "A/x.cs", "M.cs")

	files, err := NewScanner().Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	expected := []string{"A/x.cs", "M.cs", "Z.cs"}
	if got := relPaths(files); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}
