package e2e

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/bradleyjkemp/cupaloy/v2"
	"github.com/jenian/langkeys/internal/cli"
	"github.com/jenian/langkeys/internal/config"
	"github.com/jenian/langkeys/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// snapshotter compares against the snapshots committed under .snapshots.
// A missing snapshot is written and fails the test; rerun with UPDATE_SNAPSHOTS=1 after an intended change.
var snapshotter = cupaloy.New(cupaloy.SnapshotSubdirectory(".snapshots"))

func setupMockProject(t *testing.T, name string) string {
	t.Helper()
	testdataDir := filepath.Join("testdata", name)

	if _, err := os.Stat(testdataDir); os.IsNotExist(err) {
		t.Fatalf("Testdata directory not found: %s", testdataDir)
	}

	absPath, err := filepath.Abs(testdataDir)
	if err != nil {
		t.Fatalf("Failed to get absolute path: %v", err)
	}

	// langkeys scan is read-only, so we can use testdata directly
	return absPath
}

// run executes the CLI in-process and returns stdout, stderr and the command error
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer

	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestE2E_BasicScan(t *testing.T) {
	project := setupMockProject(t, "mock-project")

	stdout, stderr, err := run(t, "scan", project, "--no-header")
	require.ErrorIs(t, err, cli.ErrIssuesFound, "stderr: %s", stderr)

	assert.Equal(t, `Keys missing from the language file:

  English        : /Settings/Save (File: Forms/SettingsForm.cs:8)
  English        : /Report/Header (File: tools/report.py:2)
  German         : /MainForm/Menu/Exit (File: Forms/MainForm.cs:12)
  German         : /Settings/Save (File: Forms/SettingsForm.cs:8)
  German         : /Report/Header (File: tools/report.py:2)

Keys not used in the project:

  English        : /Settings/Obsolete

`, stdout)
	assert.Contains(t, stderr, "Scanning "+project+"...")
	assert.NotContains(t, stdout, "/Generated/Key", "build output must not be scanned")

	snapshotter.SnapshotT(t, stdout)
}

func TestE2E_Header(t *testing.T) {
	project := setupMockProject(t, "mock-project")

	stdout, _, err := run(t, "scan", project, "--skip-missing", "--skip-unused")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Version: test\n\n")
	assert.Contains(t, stdout, "✓ No issues found (missing and unused keys were not checked).")
	assert.NotContains(t, stdout, "leaves are used", "skipped checks must not be reported as passing")
	snapshotter.SnapshotT(t, stdout)
}

func TestE2E_ConfigIgnores(t *testing.T) {
	// Keys in ignores.missing/unused are not reported and
	// files in ignored folders are not scanned
	project := setupMockProject(t, "mock-project-ignores")

	stdout, stderr, err := run(t, "scan", project, "--no-header")
	require.NoError(t, err, "stderr: %s", stderr)

	assert.Equal(t, `Note: 1 missing key(s) were ignored (configured in .langkeys.config)
Note: 1 unused key(s) were ignored (configured in .langkeys.config)

✓ No issues found (excluding 2 ignored via config).
`, stdout)
	snapshotter.SnapshotT(t, stdout)
}

func TestE2E_LanguageFilter(t *testing.T) {
	project := setupMockProject(t, "mock-project")

	stdout, _, err := run(t, "scan", project, "--no-header", "--lang", "German", "--skip-unused")
	require.ErrorIs(t, err, cli.ErrIssuesFound)

	assert.NotContains(t, stdout, "English")
	assert.Contains(t, stdout, "German         : /MainForm/Menu/Exit (File: Forms/MainForm.cs:12)")
}

func TestE2E_JSON(t *testing.T) {
	project := setupMockProject(t, "mock-project")

	stdout, _, err := run(t, "scan", project, "--json", "--include", "*.cs")
	require.ErrorIs(t, err, cli.ErrIssuesFound)

	var out output.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))

	assert.Equal(t, []string{"English", "German"}, out.Languages)
	assert.Equal(t, 6, out.KeyCount, "report.py is not included")
	assert.Equal(t, 11, out.LeafCount)
	assert.Len(t, out.Missing, 3)
	assert.Len(t, out.Unused, 1)
	assert.Empty(t, out.Unsupported)

	snapshotter.SnapshotT(t, stdout)
}

func TestE2E_Silent(t *testing.T) {
	project := setupMockProject(t, "mock-project")

	stdout, stderr, err := run(t, "scan", project, "--silent")
	assert.ErrorIs(t, err, cli.ErrIssuesFound)
	assert.Empty(t, stdout)
	assert.Empty(t, stderr)
}

func TestE2E_MissingLanguageFile(t *testing.T) {
	project := setupMockProject(t, "mock-project")

	_, _, err := run(t, "scan", project, "--xml", filepath.Join(project, "Missing.xml"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, cli.ErrIssuesFound)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestE2E_Languages(t *testing.T) {
	xmlFile := filepath.Join(setupMockProject(t, "mock-project"), "Language.xml")

	stdout, _, err := run(t, "languages", "--xml", xmlFile)
	require.NoError(t, err)
	assert.Equal(t, "English\nGerman\n", stdout)
}

func TestE2E_Text(t *testing.T) {
	xmlFile := filepath.Join(setupMockProject(t, "mock-project"), "Language.xml")

	tests := []struct {
		name     string
		args     []string
		expected string
		wantErr  bool
	}{
		{"single", []string{"/MainForm/Menu/File", "German"}, "Datei\n", false},
		{"wildcard", []string{"/Tips/*", "English"}, "Press F1 for help\nDouble-click a row to edit it\n", false},
		{"missing", []string{"/MainForm/Menu/Exit", "German"}, "", true},
		{"malformed", []string{"MainForm", "German"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"text", "--xml", xmlFile}, tt.args...)
			stdout, _, err := run(t, args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, stdout)
		})
	}
}

func TestE2E_InitConfig(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := run(t, "init-config", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created ")

	cfg, err := config.LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Lookups, cfg.Lookups)

	_, _, err = run(t, "init-config", "--dir", dir)
	assert.ErrorContains(t, err, "already exists")
}

func TestE2E_Version(t *testing.T) {
	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "test\n", stdout)
}
