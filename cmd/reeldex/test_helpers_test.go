package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	catalogDir string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	catalogDir := filepath.Join(base, "catalog")
	logDir := filepath.Join(base, "logs")
	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, catalogDir, logDir)

	t.Setenv("REELDEX_LLM_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("REELDEX_SEARCH_URL", "")

	return &cliTestEnv{
		baseDir:    base,
		configPath: configPath,
		catalogDir: catalogDir,
	}
}

func writeTestConfig(t *testing.T, path, catalogDir, logDir string) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
catalog_dir = %q
log_dir = %q

[llm]
api_key = ""

[web_search]
base_url = ""

[logging]
format = "json"
level = "info"
`, catalogDir, logDir)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeVideoFile(t *testing.T, env *cliTestEnv, name string) string {
	t.Helper()
	path := filepath.Join(env.baseDir, name)
	if err := os.WriteFile(path, []byte("video"), 0o644); err != nil {
		t.Fatalf("write video file: %v", err)
	}
	return path
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
