package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:gochecknoglobals // test binary path is set in TestMain
var testBinaryPath string

// TestMain builds the CLI binary once for the entire package and reuses it.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "reel-test-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1) //nolint:gocritic // Mkdir failed, nothing to cleanup
	}

	bin := filepath.Join(dir, "reel-test")
	cmd := exec.Command("go", "build", "-o", bin, ".")
	if out, err := cmd.CombinedOutput(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to build test binary: %v\nOutput: %s\n", err, string(out))
		os.RemoveAll(dir)
		os.Exit(1)
	}
	testBinaryPath = bin

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

// newCmd runs the test binary with config and state isolated under home.
func newCmd(t *testing.T, home string, args ...string) *exec.Cmd {
	t.Helper()
	if testBinaryPath == "" {
		t.Fatalf("test binary not built")
	}
	cmd := exec.Command(testBinaryPath, args...)
	cmd.Env = append(os.Environ(),
		"HOME="+home,
		"XDG_CONFIG_HOME="+filepath.Join(home, ".config"),
		"XDG_STATE_HOME="+filepath.Join(home, ".local", "state"),
	)
	return cmd
}

func run(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newCmd(t, home, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func TestCLI_HelpOutput(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
	}{
		{
			name:     "root help",
			args:     []string{"--help"},
			contains: []string{"reel", "carousel", "pick", "seq", "simulate", "config", "state", "--json", "--state-file"},
		},
		{
			name:     "pick help",
			args:     []string{"pick", "--help"},
			contains: []string{"PATH", "--start", "--verbose"},
		},
		{
			name:     "simulate help",
			args:     []string{"simulate", "--help"},
			contains: []string{"--script", "--drag", "--ticks", "--dt", "--pool", "--total"},
		},
		{
			name:     "config help",
			args:     []string{"config", "--help"},
			contains: []string{"init", "show"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := newCmd(t, t.TempDir(), tt.args...).CombinedOutput()
			require.NoError(t, err)
			for _, expected := range tt.contains {
				assert.Contains(t, string(output), expected)
			}
		})
	}
}

func TestCLI_Version(t *testing.T) {
	output, err := newCmd(t, t.TempDir(), "--version").CombinedOutput()
	require.NoError(t, err)
	assert.Contains(t, string(output), "reel dev")
	assert.Contains(t, string(output), "commit: none")
}

func TestCLI_SimulateFlags(t *testing.T) {
	home := t.TempDir()
	stdout, stderr, err := run(t, home, "simulate", "--pool", "5", "--total", "10", "--drag", "20,20", "--ticks", "3", "--dt", "0.25")
	require.NoError(t, err, stderr)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	// Header, build, two drags, release and three ticks.
	require.Len(t, lines, 8)
	assert.True(t, strings.HasPrefix(lines[0], "STEP"))
	assert.Contains(t, lines[1], "build")
	assert.Contains(t, lines[2], "drag")
	assert.Contains(t, lines[4], "release")
	// The second tick completes the tween; the third has nothing to do.
	assert.Contains(t, lines[6], "settle:1")
	assert.NotContains(t, lines[7], "settle")
}

func TestCLI_SimulateJSON(t *testing.T) {
	home := t.TempDir()
	stdout, stderr, err := run(t, home, "simulate", "--json", "--pool", "5", "--total", "10", "--drag", "20,20", "--ticks", "3", "--dt", "0.25")
	require.NoError(t, err, stderr)

	var frames []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &frames))
	require.Len(t, frames, 7)
	last := frames[len(frames)-1]
	assert.InDelta(t, 1.0, last["center_index"], 0)
	assert.Equal(t, false, last["animating"])
}

func TestCLI_SimulateScript(t *testing.T) {
	home := t.TempDir()
	script := filepath.Join(home, "script.yaml")
	require.NoError(t, os.WriteFile(script, []byte(`
pool: 5
total: 20
steps:
  - goto: {index: 7}
`), 0o600))

	stdout, stderr, err := run(t, home, "simulate", "--json", "--script", script)
	require.NoError(t, err, stderr)

	var frames []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &frames))
	require.Len(t, frames, 2)
	assert.InDelta(t, 7.0, frames[1]["center_index"], 0)

	require.NoError(t, os.WriteFile(script, []byte("steps:\n  - release: true\n    tick: {dt: 1}\n"), 0o600))
	_, stderr, err = run(t, home, "simulate", "--script", script)
	require.Error(t, err)
	assert.Contains(t, stderr, "exactly one")
}

func TestCLI_ConfigInitAndShow(t *testing.T) {
	home := t.TempDir()
	stdout, stderr, err := run(t, home, "config", "init")
	require.NoError(t, err, stderr)
	path := filepath.Join(home, ".config", "reel", "config.yaml")
	assert.Contains(t, stdout, path)
	assert.FileExists(t, path)

	_, stderr, err = run(t, home, "config", "init")
	require.Error(t, err)
	assert.Contains(t, stderr, "already exists")

	_, stderr, err = run(t, home, "config", "init", "--force")
	require.NoError(t, err, stderr)

	tomlPath := filepath.Join(home, "reel.toml")
	_, stderr, err = run(t, home, "config", "init", tomlPath)
	require.NoError(t, err, stderr)
	data, err := os.ReadFile(tomlPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[view]")

	stdout, stderr, err = run(t, home, "config", "show")
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "pool_size: 9")

	stdout, stderr, err = run(t, home, "--json", "--config", tomlPath, "config", "show")
	require.NoError(t, err, stderr)
	var cfg map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &cfg))
	assert.Contains(t, cfg, "curves")
}

func TestCLI_InvalidConfig(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("view:\n  speed: -1\n"), 0o600))

	_, stderr, err := run(t, home, "--config", path, "simulate")
	require.Error(t, err)
	assert.Contains(t, stderr, "invalid config")
}

func TestCLI_State(t *testing.T) {
	home := t.TempDir()
	statePath := filepath.Join(home, "state.json")
	require.NoError(t, os.WriteFile(statePath, []byte(`{"positions": {"/tmp/b.txt": 4, "/tmp/a.txt": 12}}`), 0o600))

	stdout, stderr, err := run(t, home, "--state-file", statePath, "state", "show")
	require.NoError(t, err, stderr)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "/tmp/a.txt")
	assert.Contains(t, lines[0], "12")

	stdout, stderr, err = run(t, home, "--json", "--state-file", statePath, "state", "show")
	require.NoError(t, err, stderr)
	var data struct {
		Positions map[string]int `json:"positions"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &data))
	assert.Equal(t, 4, data.Positions["/tmp/b.txt"])

	stdout, stderr, err = run(t, home, "--state-file", statePath, "state", "clear")
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "cleared")

	stdout, _, err = run(t, home, "--state-file", statePath, "state", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No saved positions")
}

func TestCLI_PickMissingPath(t *testing.T) {
	home := t.TempDir()
	_, stderr, err := run(t, home, "pick", filepath.Join(home, "missing.txt"))
	require.Error(t, err)
	assert.Contains(t, stderr, "no such file")
}

func TestCLI_PickRequiresPath(t *testing.T) {
	_, stderr, err := run(t, t.TempDir(), "pick")
	require.Error(t, err)
	assert.Contains(t, stderr, "accepts 1 arg")
}
